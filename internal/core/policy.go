package core

// Policy holds the fixed attendance rules: the lateness cutoff, the fine
// step function, and the roles exempt from lateness fines. Everything here
// is pure and deterministic so the store and report layers can stay dumb.
type Policy struct {
	// Cutoff is the local time of day ("HH:MM:SS") after which a check-in
	// counts as late. Checking in exactly at the cutoff second is on time.
	Cutoff string

	// FineThreshold is the number of late days tolerated per month before
	// the fine applies. FineAmount is the flat monthly fine beyond it.
	FineThreshold int
	FineAmount    int

	// ExcludedRoles are role names whose holders are exempt from fines.
	ExcludedRoles []string
}

// IsLate reports whether a check-in at clockTime ("HH:MM:SS" local) is
// strictly after the cutoff. Fixed-width ISO times compare correctly as
// strings, so no parsing is needed.
func (p Policy) IsLate(clockTime string) bool {
	return clockTime > p.Cutoff
}

// Fine maps a monthly late count to a fine amount. It is a step function:
// zero up to the threshold, the flat amount beyond it.
func (p Policy) Fine(lateCount int) int {
	if lateCount > p.FineThreshold {
		return p.FineAmount
	}
	return 0
}

// IsExempt reports whether any of the member's role names is in the
// excluded set. Matching is by role name, not role ID.
func (p Policy) IsExempt(roleNames []string) bool {
	for _, name := range roleNames {
		for _, excluded := range p.ExcludedRoles {
			if name == excluded {
				return true
			}
		}
	}
	return false
}
