package metrics

import (
	"context"
	"time"

	"github.com/kilianp07/logfwd/core/telemetry"
	"github.com/kilianp07/logfwd/internal/eventbus"
)

// dropPollInterval bounds how long a drop that is not followed by another
// event waits before it is counted.
var dropPollInterval = time.Second

// dropReporter is implemented by recorders that track bus overflow.
type dropReporter interface {
	AddDropped(n uint64)
}

// StartEventCollector subscribes to the event bus and records every event.
// It stops when the context is canceled or the bus is closed; done is
// closed once the subscription is released.
func StartEventCollector(ctx context.Context, bus *eventbus.Bus[telemetry.Event], rec Recorder) (done <-chan struct{}) {
	ch := make(chan struct{})
	if bus == nil || rec == nil {
		close(ch)
		return ch
	}
	sub := bus.Subscribe()
	d, _ := rec.(dropReporter)
	ticker := time.NewTicker(dropPollInterval)
	go func() {
		defer close(ch)
		defer bus.Unsubscribe(sub)
		defer ticker.Stop()
		var seen uint64
		report := func() {
			if d == nil {
				return
			}
			if n := bus.Dropped(); n > seen {
				d.AddDropped(n - seen)
				seen = n
			}
		}
		defer report()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				report()
			case ev, ok := <-sub:
				if !ok {
					return
				}
				rec.Record(ev)
				report()
			}
		}
	}()
	return ch
}
