package telemetry

import "errors"

// Multi fans events out to several senders.
type Multi struct {
	Senders []Sender
}

// NewMulti creates a Multi with the provided senders.
func NewMulti(senders ...Sender) *Multi {
	return &Multi{Senders: senders}
}

// Send forwards the event to all senders, returning the first error encountered.
func (m *Multi) Send(ev Event) error {
	for _, s := range m.Senders {
		if err := s.Send(ev); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sender holding resources.
func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.Senders {
		if err := Close(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
