// Package browser owns the Chrome process and the per-member browser
// sessions the workflow engine drives.
package browser

import (
	"context"

	"github.com/chromedp/chromedp"
)

// Engine wraps one chromedp exec allocator. The process is shared; every
// session gets its own isolated browser context, so members never see each
// other's cookies or storage.
type Engine struct {
	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewEngine starts an allocator rooted at ctx. Cancelling ctx tears down the
// browser and every session created from it. Headless false opens a visible
// window for supervised runs.
func NewEngine(ctx context.Context, headless bool) *Engine {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	return &Engine{allocCtx: allocCtx, cancel: cancel}
}

// NewSession creates an isolated browser context for one workflow run.
func (e *Engine) NewSession() *Session {
	ctx, cancel := chromedp.NewContext(e.allocCtx)
	return &Session{ctx: ctx, cancel: cancel}
}

// Close shuts the allocator down. Sessions still open are torn down with it.
func (e *Engine) Close() error {
	e.cancel()
	return nil
}
