// Package core provides the element model and error types shared by controls and drivers.
package core

import (
	"github.com/stan-task/gridcontrol/pkg/locator"
)

// Element is a handle to a matched element in a live (or snapshot) document.
// Controls never inspect an element beyond these calls.
type Element interface {
	// Text returns the rendered text of the element
	Text() (string, error)

	// Click clicks the element
	Click() error

	// FindElements returns the descendants matching loc.
	// Zero matches is an empty slice and a nil error.
	FindElements(loc locator.Locator) ([]Element, error)
}

// Searcher is anything elements can be looked up from: a page or an element.
type Searcher interface {
	FindElements(loc locator.Locator) ([]Element, error)
}

// Page is the document-level entry point of a driver session.
// Implementations: selenium, playwright, rod, snapshot, mock.
type Page interface {
	Searcher

	// ExecuteScript runs a WebDriver-style script body. Element arguments are
	// available to the script as arguments[0], arguments[1], ...
	ExecuteScript(script string, args ...Element) (interface{}, error)
}

// FindFirst returns the first element matching loc, or nil when nothing matches.
// Absence is not an error.
func FindFirst(s Searcher, loc locator.Locator) (Element, error) {
	elems, err := s.FindElements(loc)
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return nil, nil
	}
	return elems[0], nil
}

// Count returns the number of elements matching loc.
func Count(s Searcher, loc locator.Locator) (int, error) {
	elems, err := s.FindElements(loc)
	if err != nil {
		return 0, err
	}
	return len(elems), nil
}
