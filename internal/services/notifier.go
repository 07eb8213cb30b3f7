package services

import "rewards-platform-backend/internal/models"

// Notifier receives balance movements after they are committed. Implementations
// must not block the caller for long; delivery is best effort.
type Notifier interface {
	NotifyBalanceChange(event models.BalanceEvent)
}

// FanoutNotifier forwards each event to every registered sink.
type FanoutNotifier struct {
	sinks []Notifier
}

func NewFanoutNotifier(sinks ...Notifier) *FanoutNotifier {
	return &FanoutNotifier{sinks: sinks}
}

func (f *FanoutNotifier) NotifyBalanceChange(event models.BalanceEvent) {
	for _, s := range f.sinks {
		s.NotifyBalanceChange(event)
	}
}

// NopNotifier drops every event. Used in tests and the seeder.
type NopNotifier struct{}

func (NopNotifier) NotifyBalanceChange(models.BalanceEvent) {}
