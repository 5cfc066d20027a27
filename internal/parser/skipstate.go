package parser

// SkipState tracks whether the scan is inside a non-transactional section.
type SkipState int

const (
	StateNormal SkipState = iota
	StateSkipFees
	StateSkipInterest
)

func (s SkipState) String() string {
	switch s {
	case StateSkipFees:
		return "SKIP_FEES"
	case StateSkipInterest:
		return "SKIP_INTEREST"
	default:
		return "NORMAL"
	}
}

// skipTransitions is the full transition table. Line classes not listed
// for a state leave it unchanged.
var skipTransitions = map[SkipState]map[LineClass]SkipState{
	StateNormal: {
		ClassFeesStart:     StateSkipFees,
		ClassInterestStart: StateSkipInterest,
	},
	StateSkipFees: {
		ClassSectionEnd:       StateNormal,
		ClassCardholderHeader: StateNormal,
		ClassPageFooter:       StateNormal,
	},
	StateSkipInterest: {
		ClassSectionEnd:       StateNormal,
		ClassCardholderHeader: StateNormal,
		ClassPageFooter:       StateNormal,
	},
}

// SkipMachine is the per-document fees/interest section state machine.
// While it is in a skip state no line may start a transaction.
type SkipMachine struct {
	state            SkipState
	footerResetsSkip bool
}

// NewSkipMachine starts in StateNormal. footerResetsSkip controls whether
// a page footer ends a skip section for this issuer.
func NewSkipMachine(footerResetsSkip bool) *SkipMachine {
	return &SkipMachine{footerResetsSkip: footerResetsSkip}
}

// State returns the current state.
func (m *SkipMachine) State() SkipState {
	return m.state
}

// Skipping reports whether the machine is in a skip state.
func (m *SkipMachine) Skipping() bool {
	return m.state != StateNormal
}

// Step feeds one classified line and returns the state after it.
func (m *SkipMachine) Step(class LineClass) SkipState {
	if class == ClassPageFooter && !m.footerResetsSkip {
		return m.state
	}
	if next, ok := skipTransitions[m.state][class]; ok {
		m.state = next
	}
	return m.state
}
