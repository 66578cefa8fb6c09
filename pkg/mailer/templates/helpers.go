package templates

import (
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

// NewWelcomeData builds the payload for the welcome email sent after registration.
func NewWelcomeData(appName, name, email string, opts ...Option) map[string]any {
	d := EmailData{AppName: appName, Name: name, Email: email}
	for _, opt := range opts {
		opt(&d)
	}
	return ToMap(d)
}
