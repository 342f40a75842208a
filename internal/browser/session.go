package browser

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/chromedp/chromedp"
)

// Session is one member's browser context. It implements the workflow
// Driver surface; each call honors the caller's context while running on the
// session's own browser context.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// Close tears the browser context down. Safe to call more than once.
func (s *Session) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// run executes chromedp actions on the session context, bounded by the
// caller context's deadline and cancellation.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		runCtx, cancel = context.WithDeadline(runCtx, deadline)
		defer cancel()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// Navigate loads url and waits for the document body.
func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery))
}

// WaitVisible blocks until the selector matches a visible node.
func (s *Session) WaitVisible(ctx context.Context, selector string) error {
	return s.run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

// Click clicks the first visible match.
func (s *Session) Click(ctx context.Context, selector string) error {
	return s.run(ctx, chromedp.Click(selector, chromedp.NodeVisible, chromedp.ByQuery))
}

// Fill clears the input and types the value, so the page sees real input
// events.
func (s *Session) Fill(ctx context.Context, selector, value string) error {
	return s.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
}

// SelectByText picks the option whose text contains the fragment and fires
// a change event for the page's framework.
func (s *Session) SelectByText(ctx context.Context, selector, contains string) error {
	expr := fmt.Sprintf(`(function(sel, frag) {
		var el = document.querySelector(sel);
		if (!el) return false;
		frag = frag.toLowerCase();
		for (var i = 0; i < el.options.length; i++) {
			if (el.options[i].textContent.toLowerCase().indexOf(frag) !== -1) {
				el.selectedIndex = i;
				el.dispatchEvent(new Event('change', {bubbles: true}));
				return true;
			}
		}
		return false;
	})(%s, %s)`, strconv.Quote(selector), strconv.Quote(contains))

	var matched bool
	if err := s.run(ctx, chromedp.Evaluate(expr, &matched)); err != nil {
		return err
	}
	if !matched {
		return fmt.Errorf("no option containing %q in %s", contains, selector)
	}
	return nil
}

// Text returns the visible text of the first match.
func (s *Session) Text(ctx context.Context, selector string) (string, error) {
	var out string
	err := s.run(ctx, chromedp.Text(selector, &out, chromedp.ByQuery))
	return out, err
}

// Exists reports whether the selector matches anything right now.
func (s *Session) Exists(ctx context.Context, selector string) (bool, error) {
	expr := fmt.Sprintf(`document.querySelector(%s) !== null`, strconv.Quote(selector))
	var found bool
	err := s.run(ctx, chromedp.Evaluate(expr, &found))
	return found, err
}

// CurrentURL returns the page location.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	var loc string
	err := s.run(ctx, chromedp.Location(&loc))
	return loc, err
}

// Eval runs a JavaScript expression and unmarshals the result into out.
func (s *Session) Eval(ctx context.Context, expr string, out any) error {
	return s.run(ctx, chromedp.Evaluate(expr, out))
}
