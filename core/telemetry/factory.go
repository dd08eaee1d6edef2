package telemetry

import "github.com/kilianp07/logfwd/core/factory"

var senderRegistry = factory.NewRegistry[Sender]()

// RegisterSender adds a sender factory identified by name.
func RegisterSender(name string, f factory.Factory[Sender]) error {
	return senderRegistry.Register(name, f)
}

// SenderTypes lists the registered sender names.
func SenderTypes() []string { return senderRegistry.Names() }

// NewSender creates a Sender from the provided configuration. No
// configuration yields a NopSender and several yield a Multi.
func NewSender(cfgs []factory.ModuleConfig) (Sender, error) {
	if len(cfgs) == 0 {
		return NopSender{}, nil
	}
	if len(cfgs) == 1 {
		return senderRegistry.Create(cfgs[0])
	}
	senders := make([]Sender, 0, len(cfgs))
	for _, c := range cfgs {
		s, err := senderRegistry.Create(c)
		if err != nil {
			_ = NewMulti(senders...).Close()
			return nil, err
		}
		senders = append(senders, s)
	}
	return NewMulti(senders...), nil
}
