// Package browser automates the platform's SSO login flow to extract a
// session token cookie.
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/kheireddine-anas/busbot/core/logger"
)

// Config holds credentials and selectors for the automated login flow.
type Config struct {
	LoginURL         string `json:"login_url"`
	Username         string `json:"username"`
	Password         string `json:"password"`
	Headless         bool   `json:"headless"`
	TimeoutSeconds   int    `json:"timeout_seconds"`
	CookieName       string `json:"cookie_name"`
	SignInSelector   string `json:"sign_in_selector"`
	UsernameSelector string `json:"username_selector"`
	PasswordSelector string `json:"password_selector"`
	SubmitSelector   string `json:"submit_selector"`
}

// SetDefaults applies the platform's known selectors.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 60
	}
	if c.CookieName == "" {
		c.CookieName = "le_token"
	}
	if c.SignInSelector == "" {
		c.SignInSelector = `a[href*="/api/auth/42"]`
	}
	if c.UsernameSelector == "" {
		c.UsernameSelector = "input#username"
	}
	if c.PasswordSelector == "" {
		c.PasswordSelector = "input#password"
	}
	if c.SubmitSelector == "" {
		c.SubmitSelector = "input#kc-login"
	}
}

// AcquisitionError hides credential-handling details from end users: its
// message is generic while the underlying cause is only unwrapped for
// operator-facing logs.
type AcquisitionError struct {
	cause error
}

func (e *AcquisitionError) Error() string { return "token acquisition failed" }
func (e *AcquisitionError) Unwrap() error { return e.cause }

// Acquirer drives a headless browser through the SSO login and reads the
// session cookie. Acquisition never runs concurrently with itself.
type Acquirer struct {
	cfg Config
	log logger.Logger
	mu  sync.Mutex
}

func NewAcquirer(cfg Config, log logger.Logger) *Acquirer {
	cfg.SetDefaults()
	return &Acquirer{cfg: cfg, log: log}
}

// Acquire logs in and returns the session token. It may take tens of
// seconds. On failure the returned error is an *AcquisitionError whose
// detail is logged here, never surfaced to the user.
func (a *Acquirer) Acquire(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	token, err := a.acquire(ctx)
	if err != nil {
		a.log.Errorf("token acquisition: %v", err)
		return "", &AcquisitionError{cause: err}
	}
	return token, nil
}

func (a *Acquirer) acquire(ctx context.Context) (string, error) {
	if a.cfg.Username == "" || a.cfg.Password == "" {
		return "", fmt.Errorf("missing credentials")
	}
	if a.cfg.LoginURL == "" {
		return "", fmt.Errorf("missing login url")
	}

	l := launcher.New().Headless(a.cfg.Headless).NoSandbox(true)
	u, err := l.Launch()
	if err != nil {
		return "", fmt.Errorf("launch browser: %w", err)
	}
	defer l.Cleanup()

	b := rod.New().ControlURL(u).Context(ctx)
	if err := b.Connect(); err != nil {
		return "", fmt.Errorf("connect browser: %w", err)
	}
	defer func() { _ = b.Close() }()

	timeout := time.Duration(a.cfg.TimeoutSeconds) * time.Second
	page, err := b.Page(proto.TargetCreateTarget{URL: a.cfg.LoginURL})
	if err != nil {
		return "", fmt.Errorf("open page: %w", err)
	}
	page = page.Timeout(timeout)
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("load %s: %w", a.cfg.LoginURL, err)
	}

	a.log.Infof("looking for sign-in link")
	signIn, err := page.Element(a.cfg.SignInSelector)
	if err != nil {
		return "", fmt.Errorf("sign-in link: %w", err)
	}
	if err := signIn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return "", fmt.Errorf("click sign-in: %w", err)
	}

	a.log.Infof("filling credentials")
	user, err := page.Element(a.cfg.UsernameSelector)
	if err != nil {
		return "", fmt.Errorf("username field: %w", err)
	}
	if err := user.Input(a.cfg.Username); err != nil {
		return "", fmt.Errorf("fill username: %w", err)
	}
	pass, err := page.Element(a.cfg.PasswordSelector)
	if err != nil {
		return "", fmt.Errorf("password field: %w", err)
	}
	if err := pass.Input(a.cfg.Password); err != nil {
		return "", fmt.Errorf("fill password: %w", err)
	}
	submit, err := page.Element(a.cfg.SubmitSelector)
	if err != nil {
		return "", fmt.Errorf("submit button: %w", err)
	}
	if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return "", fmt.Errorf("submit login: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("post-login load: %w", err)
	}
	// Give the platform a moment to set cookies after the redirect.
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(2 * time.Second):
	}

	cookies, err := page.Cookies(nil)
	if err != nil {
		return "", fmt.Errorf("read cookies: %w", err)
	}
	for _, c := range cookies {
		if c.Name == a.cfg.CookieName && c.Value != "" {
			a.log.Infof("session cookie obtained")
			return c.Value, nil
		}
	}
	return "", fmt.Errorf("cookie %s not found", a.cfg.CookieName)
}
