// Command gridctl inspects and drives data grids on web pages.
package main

import "github.com/stan-task/gridcontrol/pkg/cli"

func main() {
	cli.Execute()
}
