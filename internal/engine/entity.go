package engine

// Entity is an agent-controlled thing.
type Entity struct {
	AgentName string
	TeamName  string

	Energy           int
	DisabledForSteps int
	Vision           int

	LastAction       string
	LastActionParams []string
	LastActionResult string

	ClearCounter           int
	PreviousClearStep      int
	PreviousClearPosition  Position
	hasPreviousClearTarget bool
}

// Disabled reports whether the entity is currently disabled.
func (e *Entity) Disabled() bool {
	return e.DisabledForSteps > 0
}

// PreStep runs the per-tick entity preamble (spec.md §4.5): decrement the
// disable counter if positive, and reset last_action_result to
// "uninitialized" ahead of this tick's action. Energy does not regenerate
// (spec.md §9 open question — see DESIGN.md).
func (e *Entity) PreStep() {
	if e.DisabledForSteps > 0 {
		e.DisabledForSteps--
	}
	e.LastActionResult = "uninitialized"
}

// resetClearCounter zeroes the per-entity clear-action counter.
func (e *Entity) resetClearCounter() {
	e.ClearCounter = 0
}

// recordClearAttempt implements the clear-counter bookkeeping of spec.md
// §4.5: the counter resets whenever this tick's target differs from the
// immediately preceding tick's, then increments. It returns true once the
// counter reaches clearSteps (detonation), resetting it back to zero.
func (e *Entity) recordClearAttempt(step int, target Position, clearSteps int) bool {
	if !e.hasPreviousClearTarget || e.PreviousClearStep != step-1 || e.PreviousClearPosition != target {
		e.resetClearCounter()
	}
	e.ClearCounter++
	e.PreviousClearStep = step
	e.PreviousClearPosition = target
	e.hasPreviousClearTarget = true

	if e.ClearCounter == clearSteps {
		e.resetClearCounter()
		return true
	}
	return false
}
