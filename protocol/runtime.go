package protocol

// RuntimeType and RuntimeVersion identify this implementation to clients
// in response to the "runtime" protocol's getruntime command.
const (
	RuntimeType    = "protoflo"
	RuntimeVersion = "0.5"
)

// RegisterRuntime installs the runtime sub-protocol's single command on d.
func RegisterRuntime(d *Dispatcher) {
	d.Register("runtime", "getruntime", func(_ Payload, sender Sender) error {
		sender.Send(Envelope{
			Protocol: "runtime",
			Command:  "runtime",
			Payload: map[string]any{
				"type":    RuntimeType,
				"version": RuntimeVersion,
				"capabilities": []string{
					"protocol:graph",
					"protocol:component",
					"protocol:network",
				},
				"id": sender.ClientID(),
			},
		})
		return nil
	})
}
