// Package browser abstracts the few page interactions the portal adapter
// needs, so the adapter can run against Chrome or a test double.
package browser

import (
	"context"
	"fmt"
)

// Element is a snapshot of one DOM element.
type Element struct {
	Text  string            `json:"text"`
	HTML  string            `json:"html"`
	Attrs map[string]string `json:"attrs"`
}

// Attr returns the value of attribute name, or "".
func (e Element) Attr(name string) string {
	return e.Attrs[name]
}

// Target addresses the Index-th match of Selector, or the first match of
// Child inside it when Child is set.
type Target struct {
	Selector string
	Index    int
	Child    string
}

// First targets the first match of selector.
func First(selector string) Target {
	return Target{Selector: selector}
}

func (t Target) String() string {
	s := fmt.Sprintf("%s[%d]", t.Selector, t.Index)
	if t.Child != "" {
		s += " " + t.Child
	}
	return s
}

// Page is a live, caller-owned browser tab. Methods fail with
// models.ErrElementNotFound when the addressed element does not appear in
// time.
type Page interface {
	Navigate(ctx context.Context, url string) error
	WaitReady(ctx context.Context, selector string) error
	// WaitLoaded waits for selector as long as a page load may take.
	WaitLoaded(ctx context.Context, selector string) error
	Query(ctx context.Context, selector string) ([]Element, error)
	Click(ctx context.Context, target Target) error
	SetValue(ctx context.Context, selector, value string) error
	SelectValue(ctx context.Context, selector, value string) error
	OuterHTML(ctx context.Context, selector string) (string, error)
	Scroll(ctx context.Context, selector string, dy int) error
}
