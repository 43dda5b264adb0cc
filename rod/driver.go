// Package rod drives a headless Chrome browser against the ANSYS help
// portal. It owns session bootstrap, bot-detection evasion, and content
// frame navigation; nothing outside this package talks to the browser.
package rod

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"golang.org/x/time/rate"

	"github.com/subspace-lab/fluentdoc"
)

// Defaults for portal interaction. The portal is slow and sensitive to
// rapid-fire navigation, so the pacing interval errs on the side of
// politeness.
const (
	DefaultNavTimeout = 20 * time.Second
	DefaultPacing     = 1 * time.Second

	consentTimeout = 3 * time.Second
	settleDelay    = 2 * time.Second
)

// defaultBackoff is the wait between session bootstrap attempts.
var defaultBackoff = []time.Duration{2 * time.Second, 5 * time.Second}

// userAgent is a current desktop Chrome UA. The portal serves an access
// denial interstitial to clients that advertise automation.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var (
	_ fluentdoc.SessionManager = (*Driver)(nil)
	_ fluentdoc.FrameNavigator = (*Driver)(nil)
)

// Driver implements session management and frame navigation on a single
// headless Chrome instance. It keeps one portal tab alive per session; the
// portal renders section content inside an iframe on that tab.
//
// Driver is safe for concurrent use, but navigation is serialized: the
// portal tolerates exactly one in-flight navigation per session.
type Driver struct {
	resolver *fluentdoc.Resolver
	limiter  *rate.Limiter

	navTimeout time.Duration
	backoff    []time.Duration
	idleExpiry time.Duration
	headed     bool

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	closed   atomic.Bool

	now func() time.Time
}

// Option configures a Driver.
type Option func(*Driver)

// WithNavTimeout sets the per-navigation timeout. The retry after a timed
// out navigation gets twice this budget. Defaults to DefaultNavTimeout.
func WithNavTimeout(d time.Duration) Option {
	return func(dr *Driver) {
		dr.navTimeout = d
	}
}

// WithPacing sets the minimum interval between navigations.
// Defaults to DefaultPacing.
func WithPacing(d time.Duration) Option {
	return func(dr *Driver) {
		dr.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithBootstrapBackoff sets the waits between bootstrap attempts. The
// number of attempts is one more than the number of waits. Defaults to
// 2s then 5s, i.e. three attempts.
func WithBootstrapBackoff(waits ...time.Duration) Option {
	return func(dr *Driver) {
		dr.backoff = waits
	}
}

// WithIdleExpiry sets how long an established session may sit idle before
// EnsureEstablished re-bootstraps it. Defaults to fluentdoc.DefaultIdleExpiry.
func WithIdleExpiry(d time.Duration) Option {
	return func(dr *Driver) {
		dr.idleExpiry = d
	}
}

// WithHeaded runs the browser with a visible window. Useful when
// debugging the portal's bot detection; the default is headless.
func WithHeaded() Option {
	return func(dr *Driver) {
		dr.headed = true
	}
}

// NewDriver launches a headless Chrome instance configured to pass the
// portal's bot checks. Close must be called when the Driver is no longer
// needed.
func NewDriver(resolver *fluentdoc.Resolver, opts ...Option) (*Driver, error) {
	d := &Driver{
		resolver:   resolver,
		limiter:    rate.NewLimiter(rate.Every(DefaultPacing), 1),
		navTimeout: DefaultNavTimeout,
		backoff:    defaultBackoff,
		idleExpiry: fluentdoc.DefaultIdleExpiry,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}

	if err := d.launchBrowser(); err != nil {
		return nil, err
	}
	return d, nil
}

// launchBrowser starts Chrome with stability flags plus the automation
// flag the portal's bot detection looks for disabled.
func (d *Driver) launchBrowser() error {
	lnchr := launcher.New().
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Set("window-size", "1280,900").
		Leakless(true).
		Headless(!d.headed)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	d.browser = browser
	d.launcher = lnchr
	return nil
}

// Establish bootstraps a fresh session through the portal landing page.
func (d *Driver) Establish(ctx context.Context) (*fluentdoc.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.establish(ctx)
}

// establish runs the bootstrap attempt loop. Must be called with mu held.
func (d *Driver) establish(ctx context.Context) (*fluentdoc.Session, error) {
	if d.closed.Load() {
		return nil, fluentdoc.Errorf(fluentdoc.EINVALID, "driver is closed")
	}

	attempts := len(d.backoff) + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, d.backoff[attempt-1]); err != nil {
				return nil, err
			}
		}

		sess, err := d.bootstrapOnce(ctx)
		if err == nil {
			return sess, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}

	return nil, fluentdoc.Errorf(fluentdoc.EBLOCKED,
		"session bootstrap failed after %d attempts: %s", attempts, errText(lastErr))
}

// bootstrapOnce loads the landing page in a fresh stealth tab, dismisses
// the cookie consent banner, and verifies the content frame is present.
func (d *Driver) bootstrapOnce(ctx context.Context) (*fluentdoc.Session, error) {
	d.closePage()

	page, err := stealth.Page(d.browser)
	if err != nil {
		return nil, fmt.Errorf("creating portal tab: %w", err)
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: userAgent}); err != nil {
		page.Close()
		return nil, fmt.Errorf("setting user agent: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1280,
		Height:            900,
		DeviceScaleFactor: 1,
	}); err != nil {
		page.Close()
		return nil, fmt.Errorf("setting viewport: %w", err)
	}

	navCtx, cancel := context.WithTimeout(ctx, d.navTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(d.resolver.LandingURL()); err != nil {
		page.Close()
		return nil, fmt.Errorf("loading landing page: %w", err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		page.Close()
		return nil, fmt.Errorf("landing page did not load: %w", err)
	}

	// The portal finishes rendering well after the load event.
	if err := sleepCtx(ctx, settleDelay); err != nil {
		page.Close()
		return nil, err
	}

	dismissConsent(page)

	// An established session shows the frameset; a denial interstitial
	// or an unexpected page does not.
	if _, err := page.Timeout(d.navTimeout).Element("iframe"); err != nil {
		cerr := classifyPage(page)
		page.Close()
		if cerr != nil {
			return nil, cerr
		}
		return nil, fluentdoc.Errorf(fluentdoc.EBLOCKED, "landing page has no content frame")
	}

	d.page = page
	now := d.now()
	return &fluentdoc.Session{
		State:         fluentdoc.StateEstablished,
		EstablishedAt: now,
		LastActivity:  now,
	}, nil
}

// EnsureEstablished re-bootstraps the session in place when it is blocked,
// lost its tab, or has been idle past the expiry threshold. A healthy
// session passes through untouched.
func (d *Driver) EnsureEstablished(ctx context.Context, session *fluentdoc.Session) error {
	if session == nil {
		return fluentdoc.Errorf(fluentdoc.EINVALID, "session required")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if session.Established() && d.page != nil && session.IdleFor(d.now()) < d.idleExpiry {
		return nil
	}

	fresh, err := d.establish(ctx)
	if err != nil {
		session.MarkBlocked(d.now())
		return err
	}
	*session = *fresh
	return nil
}

// Teardown closes the portal tab and resets the session. Teardown is
// idempotent; the browser itself stays up until Close.
func (d *Driver) Teardown(session *fluentdoc.Session) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closePage()
	if session != nil {
		session.State = fluentdoc.StateUninitialized
	}
	return nil
}

// Close shuts down the browser. Close is safe to call multiple times.
func (d *Driver) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.closePage()

	var err error
	if d.browser != nil {
		err = d.browser.Close()
		d.browser = nil
	}
	if d.launcher != nil {
		d.launcher.Kill()
		d.launcher = nil
	}
	return err
}

// closePage drops the current portal tab. Must be called with mu held.
func (d *Driver) closePage() {
	if d.page != nil {
		_ = d.page.Close()
		d.page = nil
	}
}

// dismissConsent clicks the cookie banner away if it is showing. The
// banner intercepts clicks on the frame underneath, so it has to go, but
// its absence is not an error.
func dismissConsent(page *rod.Page) {
	el, err := page.Timeout(consentTimeout).ElementR("button", "Accept All Cookies")
	if err != nil {
		return
	}
	_ = el.Click(proto.InputMouseButtonLeft, 1)
}

// classifyPage reads the current page body and matches it against the
// portal's error signatures. Returns nil when the body looks like content.
func classifyPage(page *rod.Page) error {
	info, err := page.Info()
	if err != nil {
		return nil
	}
	res, err := page.Eval(`() => document.body ? document.body.innerText : ""`)
	if err != nil {
		return nil
	}
	return fluentdoc.ClassifyBody(info.URL, res.Value.Str())
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// errText renders err for inclusion in a wrapping message.
func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// isDeadline reports whether err is a navigation deadline rather than a
// caller cancellation.
func isDeadline(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil
}
