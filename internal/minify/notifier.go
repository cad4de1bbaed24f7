package minify

import (
	"fmt"
	"sync"

	"github.com/goatminify/goatminify/internal/models"
	"go.uber.org/zap"
)

// Notifier receives transient, non-fatal messages for the user interface.
type Notifier interface {
	Notify(n models.Notice)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n models.Notice)

// Notify calls f.
func (f NotifierFunc) Notify(n models.Notice) {
	f(n)
}

// LogNotifier writes notices to a zap logger at a level matching their severity.
type LogNotifier struct {
	Logger *zap.Logger
}

// Notify logs n.
func (l LogNotifier) Notify(n models.Notice) {
	if l.Logger == nil {
		return
	}
	switch n.Severity {
	case models.SeverityError:
		l.Logger.Error(n.Message)
	case models.SeverityWarning:
		l.Logger.Warn(n.Message)
	default:
		l.Logger.Info(n.Message)
	}
}

// Collector keeps every notice it receives. It is safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	notices []models.Notice
}

// Notify records n.
func (c *Collector) Notify(n models.Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, n)
}

// Notices returns a copy of the recorded notices.
func (c *Collector) Notices() []models.Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

// FallbackNotice returns the notice for an engine failure on content shown
// as displayName. Gate rejections and disabled engines are not surfaced.
func FallbackNotice(displayName string, err error) (models.Notice, bool) {
	reason := ReasonOf(err)
	switch reason {
	case "", ReasonGate, ReasonDisabled:
		return models.Notice{}, false
	}
	return models.Notice{
		Severity: models.SeverityWarning,
		Message:  fmt.Sprintf("%s optimizer failed (%s); used basic minification", displayName, reason),
	}, true
}
