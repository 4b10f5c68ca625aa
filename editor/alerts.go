package editor

import (
	"time"
)

type (
	// Alerts is a queue of messages to be shown to the user. The UI calls
	// Update every frame to let the alerts expire.
	Alerts struct {
		items []Alert
	}

	Alert struct {
		Name     string
		Priority AlertPriority
		Title    string // optional, e.g. the action that failed
		Message  string
		Duration time.Duration
	}

	AlertPriority int
)

const (
	Info AlertPriority = iota
	Warning
	Error
)

const defaultAlertDuration = 3 * time.Second

func (a *Alerts) Add(message string, priority AlertPriority) {
	a.AddAlert(Alert{Priority: priority, Message: message, Duration: defaultAlertDuration})
}

// AddNamed replaces an earlier alert with the same name, so repeated
// messages do not pile up.
func (a *Alerts) AddNamed(name, message string, priority AlertPriority) {
	a.AddAlert(Alert{Name: name, Priority: priority, Message: message, Duration: defaultAlertDuration})
}

func (a *Alerts) AddAlert(alert Alert) {
	if alert.Name != "" {
		for i := range a.items {
			if a.items[i].Name == alert.Name {
				a.items[i] = alert
				return
			}
		}
	}
	a.items = append(a.items, alert)
}

// Update advances the alerts by d and drops the expired ones. Returns true
// if there are still alerts to show.
func (a *Alerts) Update(d time.Duration) bool {
	n := 0
	for _, alert := range a.items {
		alert.Duration -= d
		if alert.Duration > 0 {
			a.items[n] = alert
			n++
		}
	}
	a.items = a.items[:n]
	return n > 0
}

// Items returns the alerts in the order they were added.
func (a *Alerts) Items() []Alert {
	return a.items
}

func (a *Alerts) Clear() {
	a.items = a.items[:0]
}
