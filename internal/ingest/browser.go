package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Post is one extracted timeline entry.
type Post struct {
	Time time.Time
	Link string
	Text string
}

// Session is one open browser page. Close must always be called; the
// social adapter guarantees it via defer regardless of scrape outcome.
type Session interface {
	// WaitForSelector blocks until the selector is visible or the
	// context deadline passes.
	WaitForSelector(ctx context.Context, selector string) error

	// DismissPrompt clicks the selector if present. Missing prompts are
	// not an error; interstitials come and go.
	DismissPrompt(ctx context.Context, selector string)

	// Scroll scrolls to the bottom of the page to trigger lazy loading.
	Scroll(ctx context.Context) error

	// ExtractPosts reads (timestamp, link, text) triples from every
	// element matching the selector.
	ExtractPosts(ctx context.Context, selector string) ([]Post, error)

	// Close releases the underlying browser resources.
	Close() error
}

// Browser opens page sessions.
type Browser interface {
	Navigate(ctx context.Context, url string) (Session, error)
}

// extractPostsJS reads visible timestamp + status link + text from each
// matched element. Elements without a timestamp or link are skipped.
const extractPostsJS = `
(function(selector) {
	const out = [];
	document.querySelectorAll(selector).forEach((el) => {
		const timeEl = el.querySelector("time");
		const linkEl = el.querySelector('a[href*="/status/"]');
		if (!timeEl || !linkEl) return;
		out.push({
			time: timeEl.getAttribute("datetime") || "",
			link: linkEl.href,
			text: el.innerText || "",
		});
	});
	return out;
})(%q)`

// ChromeBrowser drives a headless Chrome instance via the DevTools
// protocol.
type ChromeBrowser struct {
	headless bool
}

// NewChromeBrowser creates a Browser backed by chromedp.
func NewChromeBrowser(headless bool) *ChromeBrowser {
	return &ChromeBrowser{headless: headless}
}

// Navigate launches a browser tab and loads the URL. The returned
// session owns the allocator and tab contexts; Close releases both and
// with them the OS-level browser process.
func (b *ChromeBrowser) Navigate(ctx context.Context, url string) (Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.headless),
		chromedp.Flag("disable-gpu", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(tabCtx, chromedp.Navigate(url)); err != nil {
		tabCancel()
		allocCancel()

		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}

	return &chromeSession{
		ctx:         tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
	}, nil
}

type chromeSession struct {
	ctx         context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
}

func (s *chromeSession) WaitForSelector(ctx context.Context, selector string) error {
	runCtx, cancel := mergeDeadline(s.ctx, ctx)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("wait for %s: %w", selector, err)
	}

	return nil
}

func (s *chromeSession) DismissPrompt(ctx context.Context, selector string) {
	runCtx, cancel := mergeDeadline(s.ctx, ctx)
	defer cancel()

	// Best-effort: the prompt may not exist on this load.
	_ = chromedp.Run(runCtx,
		chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible),
	)
}

func (s *chromeSession) Scroll(ctx context.Context) error {
	runCtx, cancel := mergeDeadline(s.ctx, ctx)
	defer cancel()

	err := chromedp.Run(runCtx,
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(time.Second),
	)
	if err != nil {
		return fmt.Errorf("scroll: %w", err)
	}

	return nil
}

func (s *chromeSession) ExtractPosts(ctx context.Context, selector string) ([]Post, error) {
	runCtx, cancel := mergeDeadline(s.ctx, ctx)
	defer cancel()

	var raw []struct {
		Time string `json:"time"`
		Link string `json:"link"`
		Text string `json:"text"`
	}

	script := fmt.Sprintf(extractPostsJS, selector)
	if err := chromedp.Run(runCtx, chromedp.Evaluate(script, &raw)); err != nil {
		return nil, fmt.Errorf("extract posts: %w", err)
	}

	posts := make([]Post, 0, len(raw))

	for _, r := range raw {
		post := Post{Link: r.Link, Text: r.Text}

		if r.Time != "" {
			if t, err := time.Parse(time.RFC3339, r.Time); err == nil {
				post.Time = t
			}
		}

		posts = append(posts, post)
	}

	return posts, nil
}

func (s *chromeSession) Close() error {
	s.tabCancel()
	s.allocCancel()

	return nil
}

// mergeDeadline runs chromedp actions on the tab context while honoring
// the caller's deadline and cancellation.
func mergeDeadline(tabCtx, callerCtx context.Context) (context.Context, context.CancelFunc) {
	if deadline, ok := callerCtx.Deadline(); ok {
		return context.WithDeadline(tabCtx, deadline)
	}

	return context.WithCancel(tabCtx)
}
