package telemetry

import (
	coretelemetry "github.com/kilianp07/logfwd/core/telemetry"
	"github.com/kilianp07/logfwd/internal/eventbus"
)

// BusSender forwards to next and publishes every delivered event on bus.
// Events next rejects are not published.
type BusSender struct {
	next coretelemetry.Sender
	bus  *eventbus.Bus[coretelemetry.Event]
}

// NewBusSender wraps next. The bus is owned by the caller.
func NewBusSender(next coretelemetry.Sender, bus *eventbus.Bus[coretelemetry.Event]) *BusSender {
	if next == nil {
		next = coretelemetry.NopSender{}
	}
	return &BusSender{next: next, bus: bus}
}

// Send delivers ev to the wrapped sender first.
func (b *BusSender) Send(ev coretelemetry.Event) error {
	if err := b.next.Send(ev); err != nil {
		return err
	}
	if b.bus != nil {
		b.bus.Publish(ev)
	}
	return nil
}

// Close closes the wrapped sender.
func (b *BusSender) Close() error { return coretelemetry.Close(b.next) }
