package notification

import "log"

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier is the side channel for user-visible notices. The storefront
// frontend renders these as toasts; the service only decides message and
// severity.
type Notifier interface {
	Notify(level Level, message string)
}

// LogNotifier writes notices to the server log. Used when no richer sink is
// wired in.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(level Level, message string) {
	log.Printf("[notice:%s] %s", level, message)
}
