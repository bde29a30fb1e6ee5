package room

// Phase is the lifecycle of the whole application.
//
//	Running --quit--> ConfirmingQuit --confirm--> Quit
//	                  ConfirmingQuit --cancel---> Running
//
// Quit is terminal.
type Phase int

const (
	PhaseRunning Phase = iota
	PhaseConfirmingQuit
	PhaseQuit
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseConfirmingQuit:
		return "confirming-quit"
	case PhaseQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// next returns the phase reached by a quit request.
func (p Phase) next() Phase {
	switch p {
	case PhaseRunning:
		return PhaseConfirmingQuit
	default:
		return PhaseQuit
	}
}
