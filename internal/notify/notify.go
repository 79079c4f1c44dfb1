// Package notify carries user-visible notices out of the session components.
package notify

import "log"

type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// LogNotifier writes notices to the process log. Entry points that render a
// real surface supply their own implementation.
type LogNotifier struct{}

func (LogNotifier) Success(msg string) { log.Printf("[ok] %s", msg) }
func (LogNotifier) Error(msg string)   { log.Printf("[error] %s", msg) }
func (LogNotifier) Info(msg string)    { log.Printf("[info] %s", msg) }
