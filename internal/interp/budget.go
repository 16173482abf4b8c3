package interp

import "strconv"

// DefaultMaxSteps caps expression evaluations per run.
// Expressions are re-evaluated at every use, so operands shared across a
// chain of Binary nodes expand exponentially.
const DefaultMaxSteps = 1_000_000

// stepBudget counts expression evaluations for one run.
type stepBudget struct {
	max  int // 0 means unlimited
	used int
}

// spend charges one evaluation and fails once the budget is exceeded.
func (b *stepBudget) spend(node string) error {
	b.used++
	if b.max > 0 && b.used > b.max {
		return newError(ErrCodeStepsExceeded, node,
			"evaluation exceeded %d steps", b.max).
			with("limit", strconv.Itoa(b.max))
	}
	return nil
}

func (b *stepBudget) reset() {
	b.used = 0
}
