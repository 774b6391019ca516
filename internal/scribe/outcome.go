package scribe

// Action says what a marshal call wants done with the property.
type Action int

const (
	// ActionEmit means the value was produced and should be written.
	ActionEmit Action = iota
	// ActionOmit means the property is intentionally left out.
	ActionOmit
	// ActionUnsupported means the value is an embedded card, which the
	// target syntax cannot hold.
	ActionUnsupported
)

func (a Action) String() string {
	switch a {
	case ActionEmit:
		return "emit"
	case ActionOmit:
		return "omit"
	case ActionUnsupported:
		return "unsupported"
	}
	return "unknown"
}

// Outcome is returned by every marshal hook in place of a skip error.
type Outcome struct {
	Action Action
	Reason string
}

// Emit reports a successfully marshaled value.
func Emit() Outcome { return Outcome{Action: ActionEmit} }

// Omit asks the caller to leave the property out of the output.
func Omit(reason string) Outcome { return Outcome{Action: ActionOmit, Reason: reason} }

// Unsupported reports a value holding an embedded card.
func Unsupported(reason string) Outcome { return Outcome{Action: ActionUnsupported, Reason: reason} }

// Emitted reports whether the value should be written.
func (o Outcome) Emitted() bool { return o.Action == ActionEmit }
