package rod

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"booking-assistant/internal/application/port/output"
	"booking-assistant/internal/domain/entity"
	"booking-assistant/internal/infrastructure/browser/htmlform"
)

var (
	_ output.FormInspectorPort = (*Adapter)(nil)
	_ output.FormActuatorPort  = (*Adapter)(nil)
)

// Adapter drives a real Chromium instance through go-rod and exposes it as
// both the form inspector and the form actuator. One page is reused across
// calls; Inspect and Submit each hold an internal mutex for their whole
// duration, so concurrent sessions never interleave steps on the page.
type Adapter struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration
	logger   output.LoggerPort

	screenshotDir string
}

type Config struct {
	Headless      bool
	SlowMotion    time.Duration
	Timeout       time.Duration
	NoSandbox     bool
	ScreenshotDir string
}

func DefaultConfig() Config {
	return Config{
		Headless:      true,
		SlowMotion:    100 * time.Millisecond,
		Timeout:       10 * time.Second,
		NoSandbox:     false,
		ScreenshotDir: "log",
	}
}

func NewAdapter(ctx context.Context, cfg Config, logger output.LoggerPort) (*Adapter, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(url).
		SlowMotion(cfg.SlowMotion).
		MustConnect()

	page := browser.MustPage("about:blank")

	return &Adapter{
		browser:       browser,
		launcher:      l,
		page:          page,
		timeout:       cfg.Timeout,
		logger:        logger,
		screenshotDir: cfg.ScreenshotDir,
	}, nil
}

// Inspect loads the booking page and extracts its form fields from the
// rendered HTML.
func (a *Adapter) Inspect(ctx context.Context, url string) ([]entity.FormField, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.navigate(url); err != nil {
		return nil, err
	}

	body, err := a.page.Timeout(a.timeout).Element("body")
	if err != nil {
		return nil, fmt.Errorf("body not found: %w", err)
	}

	rawHTML, err := body.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to get HTML: %w", err)
	}

	fields, err := htmlform.ExtractFields(rawHTML)
	if err != nil {
		return nil, fmt.Errorf("field extraction failed: %w", err)
	}

	a.logger.Info("Booking page inspected", "url", url, "fields", len(fields))
	return fields, nil
}

// Submit performs the assignments in order and then clicks the submit
// instruction. On any failure a screenshot is written for debugging and
// the error is returned to the caller.
func (a *Adapter) Submit(ctx context.Context, url string, assignments []entity.FieldAssignment, submitInstruction string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.navigate(url); err != nil {
		return a.failWithScreenshot("navigate", err)
	}

	for _, as := range assignments {
		if err := a.apply(as); err != nil {
			return a.failWithScreenshot(string(as.Action), err)
		}
	}

	if err := a.click(submitInstruction); err != nil {
		return a.failWithScreenshot("submit", err)
	}

	a.page.WaitIdle(2 * time.Second)
	a.logger.Info("Form submitted", "url", url, "assignments", len(assignments))
	return nil
}

func (a *Adapter) apply(as entity.FieldAssignment) error {
	switch as.Action {
	case entity.ActionType, "":
		return a.fill(as.FieldID, as.Value)
	case entity.ActionSelect:
		return a.selectOption(as.FieldID, as.Value)
	case entity.ActionClick:
		return a.click(as.FieldID)
	default:
		return fmt.Errorf("unknown action kind %q", as.Action)
	}
}

func (a *Adapter) navigate(url string) error {
	if a.page.MustInfo().URL == url {
		return nil
	}
	if err := a.page.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	a.page.MustWaitLoad()
	a.page.WaitIdle(5 * time.Second)
	return nil
}

func (a *Adapter) fill(selector, text string) error {
	el, err := a.element(selector)
	if err != nil {
		return fmt.Errorf("field not found: %s: %w", selector, err)
	}

	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}

	if err := el.Input(text); err != nil {
		return fmt.Errorf("input failed: %s: %w", selector, err)
	}
	return nil
}

func (a *Adapter) selectOption(selector, value string) error {
	el, err := a.element(selector)
	if err != nil {
		return fmt.Errorf("select not found: %s: %w", selector, err)
	}
	if err := el.Select([]string{value}, true, rod.SelectorTypeText); err != nil {
		return fmt.Errorf("select failed: %s: %w", selector, err)
	}
	return nil
}

func (a *Adapter) click(selector string) error {
	el, err := a.element(selector)
	if err != nil {
		return fmt.Errorf("element not found: %s: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %s: %w", selector, err)
	}
	a.page.WaitIdle(2 * time.Second)
	return nil
}

func (a *Adapter) element(selector string) (*rod.Element, error) {
	if strings.HasPrefix(selector, "/") {
		return a.page.Timeout(a.timeout).ElementX(selector)
	}
	return a.page.Timeout(a.timeout).Element(selector)
}

func (a *Adapter) failWithScreenshot(step string, err error) error {
	if path, shotErr := a.captureFailure(); shotErr == nil {
		a.logger.Error("Actuation failed", "step", step, "error", err, "screenshot", path)
	} else {
		a.logger.Error("Actuation failed", "step", step, "error", err)
	}
	return fmt.Errorf("%s: %w", step, err)
}

func (a *Adapter) Close() {
	if a.browser != nil {
		_ = a.browser.Close()
	}
	if a.launcher != nil {
		a.launcher.Kill()
		a.launcher.Cleanup()
	}
}
