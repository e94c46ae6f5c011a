// Package notify carries the user-facing notices the cart raises
// (toasts in the storefront, printed lines in cartctl).
package notify

import (
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is one user-facing message.
type Notice struct {
	Level   Level  `json:"level"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

// Notifier receives notices. Implementations must not block.
type Notifier interface {
	Notify(n Notice)
}

// Localizer turns message keys into notices in one language.
type Localizer struct {
	printer *message.Printer
}

// NewLocalizer returns a Localizer for lang ("vi", "en", ...). Unknown
// languages fall back to Vietnamese.
func NewLocalizer(lang string) *Localizer {
	tag, _, _ := matcher.Match(language.Make(lang))
	base, _ := tag.Base()
	switch base.String() {
	case "en":
		tag = language.English
	default:
		tag = language.Vietnamese
	}
	return &Localizer{printer: message.NewPrinter(tag)}
}

// Notice builds a localized notice for key.
func (l *Localizer) Notice(level Level, key string, args ...any) Notice {
	return Notice{
		Level:   level,
		Key:     key,
		Message: l.printer.Sprintf(key, args...),
	}
}

// Discard drops every notice.
type Discard struct{}

func (Discard) Notify(Notice) {}

// Recorder keeps every notice it receives, in order.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of everything recorded so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Last returns the most recent notice, if any.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

// Log writes notices to a zap logger.
type Log struct {
	Logger *zap.Logger
}

func (l Log) Notify(n Notice) {
	fields := []zap.Field{zap.String("key", n.Key), zap.String("level", string(n.Level))}
	switch n.Level {
	case LevelError:
		l.Logger.Error(n.Message, fields...)
	case LevelWarning:
		l.Logger.Warn(n.Message, fields...)
	default:
		l.Logger.Info(n.Message, fields...)
	}
}
