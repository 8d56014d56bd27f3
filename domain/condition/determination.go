// Package condition provides the tri-state condition model the planner
// evaluates against process state.
package condition

// Determination is the tri-state outcome of evaluating a condition.
// The planner must distinguish "known false" from "cannot currently
// determine", so a plain bool is not enough.
type Determination int8

const (
	// Unknown means the condition cannot currently be determined.
	Unknown Determination = iota

	// True means the condition is known to hold.
	True

	// False means the condition is known not to hold.
	False
)

// String returns the canonical name of the determination.
func (d Determination) String() string {
	switch d {
	case True:
		return "TRUE"
	case False:
		return "FALSE"
	default:
		return "UNKNOWN"
	}
}

// FromBool maps a bool to a determined value.
func FromBool(b bool) Determination {
	if b {
		return True
	}
	return False
}

// And combines two determinations conjunctively. Any False wins over
// Unknown; both must be True for True.
func (d Determination) And(o Determination) Determination {
	switch {
	case d == False || o == False:
		return False
	case d == True && o == True:
		return True
	default:
		return Unknown
	}
}

// Or combines two determinations disjunctively. Any True wins over
// Unknown; both must be False for False.
func (d Determination) Or(o Determination) Determination {
	switch {
	case d == True || o == True:
		return True
	case d == False && o == False:
		return False
	default:
		return Unknown
	}
}

// Not negates a determination. Unknown stays Unknown.
func (d Determination) Not() Determination {
	switch d {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}
