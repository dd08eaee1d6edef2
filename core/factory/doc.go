// Package factory provides a small generic registry used to build telemetry
// senders from configuration. Each sender is described by a type string and a
// map of raw settings. Factories decode the settings into typed structs and
// return the concrete implementation.
//
// Example usage:
//
//	reg := factory.NewRegistry[telemetry.Sender]()
//	reg.Register("jsonl", func(conf map[string]any) (telemetry.Sender, error) {
//	    var c telemetry.JSONLConfig
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return telemetry.NewJSONLSender(c)
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "jsonl", Conf: map[string]any{"path": "events.jsonl"}})
package factory
