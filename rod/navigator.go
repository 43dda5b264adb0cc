package rod

import (
	"context"
	"fmt"
	"time"

	"github.com/subspace-lab/fluentdoc"
)

// Fetch navigates the portal tab to url and returns the rendered text of
// the content frame, with the portal chrome trimmed. A detected denial
// marks the session blocked; a navigation that fails to settle within the
// retry budget returns ETIMEOUT.
func (d *Driver) Fetch(ctx context.Context, session *fluentdoc.Session, url string) (*fluentdoc.Fragment, error) {
	text, finalURL, err := d.renderFrame(ctx, session, url, frameText)
	if err != nil {
		return nil, err
	}

	if cerr := fluentdoc.ClassifyBody(finalURL, text); cerr != nil {
		if fluentdoc.ErrorCode(cerr) == fluentdoc.EBLOCKED {
			d.markBlocked(session)
		}
		return nil, cerr
	}

	d.markActive(session)

	body := fluentdoc.TrimChrome(text)
	return &fluentdoc.Fragment{
		URL:       url,
		Text:      body,
		Checksum:  fluentdoc.Checksum(body),
		FetchedAt: d.now(),
	}, nil
}

// FetchHTML returns the serialized DOM of the content frame instead of
// its rendered text. Used for TOC harvesting.
func (d *Driver) FetchHTML(ctx context.Context, session *fluentdoc.Session, url string) (string, error) {
	html, finalURL, err := d.renderFrame(ctx, session, url, frameHTML)
	if err != nil {
		return "", err
	}

	if cerr := fluentdoc.ClassifyBody(finalURL, html); cerr != nil {
		if fluentdoc.ErrorCode(cerr) == fluentdoc.EBLOCKED {
			d.markBlocked(session)
		}
		return "", cerr
	}

	d.markActive(session)
	return html, nil
}

// Frame read modes.
const (
	frameText = `() => document.body ? document.body.innerText : ""`
	frameHTML = `() => document.documentElement.outerHTML`
)

// renderFrame performs one paced navigation with a single extended-timeout
// retry and evaluates script inside the content frame.
func (d *Driver) renderFrame(ctx context.Context, session *fluentdoc.Session, url, script string) (result, finalURL string, err error) {
	if !session.Established() {
		return "", "", fluentdoc.Errorf(fluentdoc.ENOTESTABLISHED, "session not established")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed.Load() {
		return "", "", fluentdoc.Errorf(fluentdoc.EINVALID, "driver is closed")
	}
	if d.page == nil {
		return "", "", fluentdoc.Errorf(fluentdoc.ENOTESTABLISHED, "portal tab is gone")
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return "", "", err
	}

	result, finalURL, err = d.renderOnce(ctx, url, script, d.navTimeout)
	if isDeadline(ctx, err) {
		// One retry with a doubled budget; the portal is routinely slow
		// on a frame's first load.
		result, finalURL, err = d.renderOnce(ctx, url, script, 2*d.navTimeout)
		if isDeadline(ctx, err) {
			return "", "", fluentdoc.Errorf(fluentdoc.ETIMEOUT, "navigation to %s did not settle", url)
		}
	}
	if fluentdoc.ErrorCode(err) == fluentdoc.EBLOCKED {
		session.MarkBlocked(d.now())
	}
	return result, finalURL, err
}

// renderOnce navigates, waits for the frame, and evaluates script in it.
// The frame element is located fresh on every call: the portal swaps the
// underlying frame object on navigation, so a cached reference goes stale.
func (d *Driver) renderOnce(ctx context.Context, url, script string, timeout time.Duration) (string, string, error) {
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	page := d.page.Context(navCtx)

	if err := page.Navigate(url); err != nil {
		return "", "", fmt.Errorf("navigating to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", "", fmt.Errorf("waiting for %s: %w", url, err)
	}
	if err := sleepCtx(navCtx, settleDelay); err != nil {
		return "", "", err
	}

	info, err := page.Info()
	if err != nil {
		return "", "", fmt.Errorf("reading page info: %w", err)
	}

	el, err := page.Element("iframe")
	if err != nil {
		// No frame on an error interstitial; classify from the top page.
		if cerr := classifyPage(page); cerr != nil {
			return "", info.URL, cerr
		}
		return "", "", fmt.Errorf("locating content frame for %s: %w", url, err)
	}
	frame, err := el.Frame()
	if err != nil {
		return "", "", fmt.Errorf("entering content frame for %s: %w", url, err)
	}
	if err := frame.WaitLoad(); err != nil {
		return "", "", fmt.Errorf("waiting for content frame of %s: %w", url, err)
	}

	res, err := frame.Eval(script)
	if err != nil {
		return "", "", fmt.Errorf("reading content frame of %s: %w", url, err)
	}
	return res.Value.Str(), info.URL, nil
}

func (d *Driver) markBlocked(session *fluentdoc.Session) {
	session.MarkBlocked(d.now())
}

func (d *Driver) markActive(session *fluentdoc.Session) {
	session.MarkActive(d.now())
}
