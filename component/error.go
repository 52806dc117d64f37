package component

import "github.com/protoflo/protoflo/port"

// Error is the sole sanctioned out-of-band signalling path from inside a
// component. When errPort is non-nil and either already attached or not
// required, it wraps err in the given groups and sends it down that port,
// reporting success to the caller. Otherwise the error is handed back to
// the caller to re-raise through the ordinary Go error path.
func Error(errPort *port.OutPort, err error, groups ...string) error {
	if err == nil {
		return nil
	}
	if errPort == nil || (errPort.Required && !errPort.Attached()) {
		return err
	}

	for _, g := range groups {
		if beginErr := errPort.BeginGroup(g, nil); beginErr != nil {
			return err
		}
	}
	if sendErr := errPort.Send(err, nil); sendErr != nil {
		return err
	}
	for range groups {
		_ = errPort.EndGroup(nil)
	}
	return nil
}
