// Package workflow drives one member's IPO application through the portal as
// a fixed sequence of stages with bounded retry of transient failures.
package workflow

import "context"

// Driver is the browser surface the stages run against. The production
// implementation is a chromedp session; tests substitute a scripted fake.
// Every call observes its context for cancellation and deadlines.
type Driver interface {
	// Navigate loads the given URL and waits for the document to be ready.
	Navigate(ctx context.Context, url string) error
	// WaitVisible blocks until the selector matches a visible node.
	WaitVisible(ctx context.Context, selector string) error
	// Click clicks the first visible node matching the selector.
	Click(ctx context.Context, selector string) error
	// Fill clears the matching input and types the value into it.
	Fill(ctx context.Context, selector, value string) error
	// SelectByText picks the option whose text contains the given fragment.
	// Returns an error when no option matches.
	SelectByText(ctx context.Context, selector, contains string) error
	// Text returns the visible text content of the first matching node.
	Text(ctx context.Context, selector string) (string, error)
	// Exists reports whether the selector matches at least one node.
	Exists(ctx context.Context, selector string) (bool, error)
	// CurrentURL returns the page's current location.
	CurrentURL(ctx context.Context) (string, error)
	// Eval runs a JavaScript expression and unmarshals its result into out.
	Eval(ctx context.Context, expr string, out any) error
}
