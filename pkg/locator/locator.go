// Package locator provides typed element queries and the grid query builders.
//
// A Locator is a value: the strategy it is written in, the query text itself,
// the shape of query it was built for and how its text predicate matches.
// Backends render a Locator into their own selector syntax.
package locator

import (
	"fmt"
	"strings"
)

// Strategy is the query language a Locator is written in.
// Values match the W3C WebDriver location strategies.
type Strategy string

// Strategy values
const (
	XPath Strategy = "xpath"
	CSS   Strategy = "css selector"
)

// MatchMode describes how a locator's text predicate compares text.
type MatchMode int

const (
	MatchNone       MatchMode = iota // No text predicate
	MatchExact                       // text() equals the argument
	MatchPartial                     // contains(text(), argument)
	MatchStructural                  // presence of an element (icon, link, marker class)
)

// String returns the string representation of MatchMode
func (m MatchMode) String() string {
	switch m {
	case MatchNone:
		return "none"
	case MatchExact:
		return "exact"
	case MatchPartial:
		return "partial"
	case MatchStructural:
		return "structural"
	default:
		return "unknown"
	}
}

// Shape names the query a locator was built for.
type Shape string

// Shape values
const (
	ShapeRaw                         Shape = "raw"
	ShapeCellByColumnWithExactText   Shape = "cell-by-column-with-exact-text"
	ShapeCellByRowAndColumn          Shape = "cell-by-row-and-column"
	ShapeCellByContainerRowAndColumn Shape = "cell-by-container-row-and-column"
	ShapeRowWithCellExactText        Shape = "row-with-cell-exact-text"
	ShapeRowWithCellElementExactText Shape = "row-with-cell-element-exact-text"
	ShapeRowWithCellLinkExactText    Shape = "row-with-cell-link-exact-text"
	ShapeRowWithLinkExactText        Shape = "row-with-link-exact-text"
	ShapeRowWithIconValue            Shape = "row-with-icon-value"
	ShapeDirtyCell                   Shape = "dirty-cell"
	ShapeScrollablePanel             Shape = "scrollable-panel"
	ShapeRowCells                    Shape = "row-cells"
	ShapeRows                        Shape = "rows"
	ShapeColumnHeaders               Shape = "column-headers"
)

// Locator is a query identifying zero or more elements within a scope.
type Locator struct {
	Strategy Strategy
	Query    string
	Shape    Shape
	Match    MatchMode
}

// ByXPath returns a raw XPath locator.
func ByXPath(query string) Locator {
	return Locator{Strategy: XPath, Query: query, Shape: ShapeRaw}
}

// ByCSS returns a raw CSS locator.
func ByCSS(query string) Locator {
	return Locator{Strategy: CSS, Query: query, Shape: ShapeRaw}
}

// IsZero returns true if no query is set.
func (l Locator) IsZero() bool {
	return l.Query == ""
}

// String renders the locator as "strategy=query".
func (l Locator) String() string {
	return string(l.Strategy) + "=" + l.Query
}

// Describe returns a human-readable description including the query shape.
func (l Locator) Describe() string {
	if l.Shape == "" || l.Shape == ShapeRaw {
		return l.String()
	}
	return fmt.Sprintf("%s (%s, %s match)", l.String(), l.Shape, l.Match)
}

// Parse reads a locator written as "xpath=..." or "css=...".
// A query starting with "/", "./" or "(" is taken as XPath, anything else as CSS.
// A prefix with nothing after it is an error.
func Parse(s string) (Locator, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Locator{}, fmt.Errorf("empty locator")
	}

	var loc Locator
	switch {
	case strings.HasPrefix(s, "xpath="):
		loc = ByXPath(strings.TrimSpace(strings.TrimPrefix(s, "xpath=")))
	case strings.HasPrefix(s, "css="):
		loc = ByCSS(strings.TrimSpace(strings.TrimPrefix(s, "css=")))
	case strings.HasPrefix(s, string(CSS)+"="):
		loc = ByCSS(strings.TrimSpace(strings.TrimPrefix(s, string(CSS)+"=")))
	case strings.HasPrefix(s, "/"), strings.HasPrefix(s, "./"), strings.HasPrefix(s, "("):
		loc = ByXPath(s)
	default:
		loc = ByCSS(s)
	}

	if loc.IsZero() {
		return Locator{}, fmt.Errorf("empty %s query in %q", loc.Strategy, s)
	}
	return loc, nil
}

// Literal renders s as an XPath string literal.
// Text containing both quote kinds is rendered with concat().
func Literal(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
