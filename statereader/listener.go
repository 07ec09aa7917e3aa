package statereader

type ClassOutcome uint8

const (
	ClassResolvedCasm ClassOutcome = iota
	ClassResolvedDeprecated
	ClassUndeclared
	ClassReadFailed
)

func (o ClassOutcome) String() string {
	switch o {
	case ClassResolvedCasm:
		return "casm"
	case ClassResolvedDeprecated:
		return "deprecated"
	case ClassUndeclared:
		return "undeclared"
	case ClassReadFailed:
		return "read_failed"
	default:
		return "unknown"
	}
}

type EventListener interface {
	OnClassResolved(outcome ClassOutcome)
}

type SelectiveListener struct {
	OnClassResolvedCb func(outcome ClassOutcome)
}

func (l *SelectiveListener) OnClassResolved(outcome ClassOutcome) {
	if l.OnClassResolvedCb != nil {
		l.OnClassResolvedCb(outcome)
	}
}
