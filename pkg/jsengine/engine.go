// Package jsengine runs WebDriver-style script bodies in an embedded JavaScript runtime.
//
// Scripts see their arguments as arguments[0], arguments[1], ... exactly as they
// would under WebDriver's executeScript. Go values implementing Properties are
// exposed as live objects, so a script reading or assigning el.scrollLeft calls
// back into Go.
package jsengine

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dop251/goja"

	"github.com/stan-task/gridcontrol/pkg/logger"
)

// Properties is a Go value scripts can read and assign properties on.
type Properties interface {
	// Property returns the named property and whether it exists.
	Property(name string) (interface{}, bool)

	// SetProperty assigns the named property. Returns false if it is read-only or unknown.
	SetProperty(name string, value interface{}) bool

	// PropertyNames lists the properties visible to scripts.
	PropertyNames() []string
}

// Engine wraps a goja runtime.
type Engine struct {
	runtime *goja.Runtime
	mu      sync.Mutex
}

// New creates a new JS engine instance
func New() *Engine {
	e := &Engine{runtime: goja.New()}
	e.setupConsole()
	return e
}

// setupConsole routes console.log, console.error, etc. to the logger
func (e *Engine) setupConsole() {
	makeConsoleFunc := func(log func(format string, v ...interface{})) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			args := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				args[i] = fmt.Sprint(arg.Export())
			}
			log("js: %s", strings.Join(args, " "))
			return goja.Undefined()
		}
	}

	console := e.runtime.NewObject()
	console.Set("log", makeConsoleFunc(logger.Debug))
	console.Set("error", makeConsoleFunc(logger.Error))
	console.Set("warn", makeConsoleFunc(logger.Warn))
	e.runtime.Set("console", console)
}

// Call runs body as a function with args bound to arguments[i] and returns
// the value it returns. A body without a return statement yields nil.
func (e *Engine) Call(body string, args ...interface{}) (interface{}, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	v, err := e.runtime.RunString("(function() {\n" + body + "\n})")
	if err != nil {
		return nil, fmt.Errorf("JS compile error: %w", err)
	}

	fn, ok := goja.AssertFunction(v)
	if !ok {
		return nil, fmt.Errorf("JS compile error: script is not a function body")
	}

	values := make([]goja.Value, len(args))
	for i, arg := range args {
		values[i] = e.toValue(arg)
	}

	result, err := fn(goja.Undefined(), values...)
	if err != nil {
		return nil, fmt.Errorf("JS runtime error: %w", err)
	}

	return export(result), nil
}

func (e *Engine) toValue(v interface{}) goja.Value {
	if p, ok := v.(Properties); ok {
		return e.runtime.NewDynamicObject(&hostObject{rt: e.runtime, props: p})
	}
	return e.runtime.ToValue(v)
}

func export(v goja.Value) interface{} {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	return v.Export()
}

// hostObject adapts Properties to goja's dynamic object protocol.
type hostObject struct {
	rt    *goja.Runtime
	props Properties
}

func (h *hostObject) Get(key string) goja.Value {
	v, ok := h.props.Property(key)
	if !ok {
		return goja.Undefined()
	}
	return h.rt.ToValue(v)
}

func (h *hostObject) Set(key string, val goja.Value) bool {
	return h.props.SetProperty(key, val.Export())
}

func (h *hostObject) Has(key string) bool {
	_, ok := h.props.Property(key)
	return ok
}

func (h *hostObject) Delete(string) bool {
	return false
}

func (h *hostObject) Keys() []string {
	return h.props.PropertyNames()
}
