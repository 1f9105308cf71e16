package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/aluiziolira/go-scrape-evds/config"
	"github.com/aluiziolira/go-scrape-evds/models"
)

// Chrome drives a tab through chromedp. The context passed to every method
// must descend from a chromedp.NewContext created by the caller, who also
// cancels it.
type Chrome struct {
	timeout     time.Duration
	loadTimeout time.Duration
	settle      time.Duration
}

// NewChrome builds a Chrome page using the waits from cfg.
func NewChrome(cfg *config.Config) *Chrome {
	return &Chrome{
		timeout:     cfg.Timeout,
		loadTimeout: cfg.PageLoadTimeout,
		settle:      cfg.StepDelay,
	}
}

// AllocatorOptions returns the exec allocator flags for cfg.
func AllocatorOptions(cfg *config.Config) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.WindowSize(1440, 900),
	)
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}
	return opts
}

// Navigate loads url, bounded by the page-load timeout.
func (c *Chrome) Navigate(ctx context.Context, url string) error {
	tctx, cancel := context.WithTimeout(ctx, c.loadTimeout)
	defer cancel()

	slog.Debug("navigating", slog.String("url", url))
	if err := chromedp.Run(tctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// WaitReady waits up to the element timeout for selector to be ready.
func (c *Chrome) WaitReady(ctx context.Context, selector string) error {
	return c.wait(ctx, selector, c.timeout)
}

// WaitLoaded waits up to the page-load timeout for selector, for content
// such as a report that the portal builds server side.
func (c *Chrome) WaitLoaded(ctx context.Context, selector string) error {
	return c.wait(ctx, selector, c.loadTimeout)
}

func (c *Chrome) wait(ctx context.Context, selector string, timeout time.Duration) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := chromedp.Run(tctx, chromedp.WaitReady(selector, chromedp.ByQuery)); err != nil {
		return notFound(ctx, selector, err)
	}
	return nil
}

const queryScript = `Array.from(document.querySelectorAll(%s)).map(e => ({
	text: (e.innerText || e.textContent || "").trim(),
	html: e.outerHTML,
	attrs: Object.fromEntries(Array.from(e.attributes).map(a => [a.name, a.value]))
}))`

// Query returns a snapshot of every element matching selector.
func (c *Chrome) Query(ctx context.Context, selector string) ([]Element, error) {
	var elems []Element
	if err := chromedp.Run(ctx, chromedp.Evaluate(fmt.Sprintf(queryScript, jsString(selector)), &elems)); err != nil {
		return nil, fmt.Errorf("query %s: %w", selector, err)
	}
	return elems, nil
}

const clickScript = `(() => {
	const els = document.querySelectorAll(%s);
	if (els.length <= %d) return false;
	let el = els[%d];
	const child = %s;
	if (child) {
		el = el.querySelector(child);
		if (!el) return false;
	}
	el.scrollIntoView({block: "center"});
	el.click();
	return true;
})()`

// Click clicks target and lets the page settle. It fails with
// models.ErrElementNotFound when target does not exist.
func (c *Chrome) Click(ctx context.Context, target Target) error {
	script := fmt.Sprintf(clickScript, jsString(target.Selector), target.Index, target.Index, jsString(target.Child))

	var clicked bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &clicked)); err != nil {
		return fmt.Errorf("click %s: %w", target, err)
	}
	if !clicked {
		return models.ErrElementNotFound{Selector: target.String()}
	}
	return c.pause(ctx)
}

// SetValue clears the input at selector and types value into it.
func (c *Chrome) SetValue(ctx context.Context, selector, value string) error {
	if err := c.WaitReady(ctx, selector); err != nil {
		return err
	}
	err := chromedp.Run(ctx,
		chromedp.SetValue(selector, "", chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("type into %s: %w", selector, err)
	}
	return c.pause(ctx)
}

const selectScript = `(() => {
	const el = document.querySelector(%s);
	if (!el) return "missing";
	const value = %s;
	if (!Array.from(el.options || []).some(o => o.value === value)) return "option";
	el.value = value;
	el.dispatchEvent(new Event("change", {bubbles: true}));
	return "ok";
})()`

// SelectValue picks the option with value in the select at selector and
// fires its change event.
func (c *Chrome) SelectValue(ctx context.Context, selector, value string) error {
	if err := c.WaitReady(ctx, selector); err != nil {
		return err
	}

	var outcome string
	script := fmt.Sprintf(selectScript, jsString(selector), jsString(value))
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &outcome)); err != nil {
		return fmt.Errorf("select %s in %s: %w", value, selector, err)
	}
	switch outcome {
	case "ok":
		return c.pause(ctx)
	case "option":
		return models.ErrElementNotFound{Selector: fmt.Sprintf("%s option[value=%q]", selector, value)}
	default:
		return models.ErrElementNotFound{Selector: selector}
	}
}

// OuterHTML returns the markup of the first match of selector.
func (c *Chrome) OuterHTML(ctx context.Context, selector string) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var html string
	err := chromedp.Run(tctx,
		chromedp.WaitReady(selector, chromedp.ByQuery),
		chromedp.OuterHTML(selector, &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", notFound(ctx, selector, err)
	}
	return html, nil
}

const scrollScript = `(() => {
	const el = document.querySelector(%s);
	if (!el) return false;
	el.scrollTop += %d;
	return true;
})()`

// Scroll moves the scrollable element at selector down by dy pixels.
func (c *Chrome) Scroll(ctx context.Context, selector string, dy int) error {
	var ok bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(fmt.Sprintf(scrollScript, jsString(selector), dy), &ok)); err != nil {
		return fmt.Errorf("scroll %s: %w", selector, err)
	}
	if !ok {
		return models.ErrElementNotFound{Selector: selector}
	}
	return c.pause(ctx)
}

// pause gives the page time to react to an interaction.
func (c *Chrome) pause(ctx context.Context) error {
	if c.settle <= 0 {
		return nil
	}
	return chromedp.Run(ctx, chromedp.Sleep(c.settle))
}

// notFound maps a wait that ran out of time to ErrElementNotFound. A
// cancelled parent context is returned as is.
func notFound(parent context.Context, selector string, err error) error {
	if parent.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		return models.ErrElementNotFound{Selector: selector, Err: err}
	}
	return fmt.Errorf("wait for %s: %w", selector, err)
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
