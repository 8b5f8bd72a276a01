package harvest

// State is the position of the scroll loop in its fixed-point search.
type State int

const (
	// StateGrowing means the last observation added items; keep scrolling.
	StateGrowing State = iota
	// StateConverged means the count stopped growing or the budget ran out.
	StateConverged
)

func (s State) String() string {
	switch s {
	case StateGrowing:
		return "growing"
	case StateConverged:
		return "converged"
	default:
		return "unknown"
	}
}

// Convergence tracks marker counts across scroll iterations. The count is
// expected to be monotonically non-decreasing while content loads, so the
// first observation that does not exceed the previous one ends the search.
type Convergence struct {
	budget   int
	previous int
	observed int
	state    State
	drained  bool
}

// NewConvergence returns a machine that allows at most budget observations.
func NewConvergence(budget int) *Convergence {
	c := &Convergence{budget: budget}
	if budget <= 0 {
		c.state = StateConverged
		c.drained = true
	}
	return c
}

// Observe records the current marker count and returns the next state.
// Observing after convergence is a no-op.
func (c *Convergence) Observe(count int) State {
	if c.state == StateConverged {
		return c.state
	}

	c.observed++
	if count > c.previous {
		c.previous = count
		c.state = StateGrowing
		if c.observed >= c.budget {
			c.drained = true
		}
		return c.state
	}

	c.state = StateConverged
	return c.state
}

// Done reports whether the loop must stop: either converged or every
// observation in the budget has been spent.
func (c *Convergence) Done() bool {
	return c.state == StateConverged || c.drained
}

// Exhausted reports whether the loop stopped on the budget rather than on a
// stable count.
func (c *Convergence) Exhausted() bool {
	return c.drained && c.state != StateConverged
}

// Count is the largest marker count observed so far.
func (c *Convergence) Count() int {
	return c.previous
}

// State returns the current state.
func (c *Convergence) State() State {
	return c.state
}
