package engine

// This file holds the rigid-body grid operations (spec.md §4.4): the
// algorithmic heart of the engine. Every multi-cell mutation follows a
// strict "validate all, then apply all" two-phase commit so Area iteration
// and the spatial index never observe a partially-applied move (spec.md §5).

// IsUnblocked reports whether p is in bounds, not an obstacle, and has no
// Entity or Block occupying it. Dispensers never block.
func (gs *GameState) IsUnblocked(p Position) bool {
	if !gs.Grid.InBounds(p) {
		return false
	}
	if gs.Grid.TerrainAt(p) == Obstacle {
		return false
	}
	for _, t := range gs.Things.ThingsAt(p) {
		if t.Kind == KindEntity || t.Kind == KindBlock {
			return false
		}
	}
	return true
}

// moveValidate checks whether every member of group may occupy its
// translated position: in bounds, non-obstacle, and unoccupied by anything
// outside the group itself.
func (gs *GameState) moveValidate(group []string, newPos map[string]Position) bool {
	groupSet := make(map[string]bool, len(group))
	for _, id := range group {
		groupSet[id] = true
	}
	for _, id := range group {
		p := newPos[id]
		if !gs.Grid.InBounds(p) {
			return false
		}
		if gs.Grid.TerrainAt(p) == Obstacle {
			return false
		}
		for _, occ := range gs.Things.ThingsAt(p) {
			if occ.Kind == KindDispenser {
				continue
			}
			if !groupSet[occ.ID] {
				return false
			}
		}
	}
	return true
}

// commitPositions applies newPos to every member of group via a
// remove-all-then-insert-all two-phase update, so members can swap through
// each other's vacated cells without spurious self-collision.
func (gs *GameState) commitPositions(group []string, newPos map[string]Position) {
	things := make([]*Thing, 0, len(group))
	for _, id := range group {
		t := gs.Things.ByID(id)
		if t == nil {
			continue
		}
		things = append(things, t)
	}
	for _, t := range things {
		gs.Things.deindexAt(t)
	}
	for _, t := range things {
		t.Pos = newPos[t.ID]
		gs.Things.indexAt(t)
	}
}

// moveWithAttached translates the entity's whole attachment group by
// direction*distance if every resulting cell is valid. Fails (no mutation)
// if the group exceeds attachLimit or any target cell is blocked.
func (gs *GameState) moveWithAttached(entityID string, dir Direction, distance int) bool {
	group := gs.Attach.CollectGroup(entityID)
	if len(group) > gs.Config.AttachLimit {
		return false
	}
	newPos := make(map[string]Position, len(group))
	for _, id := range group {
		t := gs.Things.ByID(id)
		if t == nil {
			return false
		}
		newPos[id] = t.Pos.Moved(dir, distance)
	}
	if !gs.moveValidate(group, newPos) {
		return false
	}
	gs.commitPositions(group, newPos)
	return true
}

// rotateWithAttached rotates the entity's whole attachment group around the
// entity's own position. Validation is identical to a move.
func (gs *GameState) rotateWithAttached(entityID string, clockwise bool) bool {
	pivotThing := gs.Things.ByID(entityID)
	if pivotThing == nil {
		return false
	}
	pivot := pivotThing.Pos
	group := gs.Attach.CollectGroup(entityID)
	if len(group) > gs.Config.AttachLimit {
		return false
	}
	newPos := make(map[string]Position, len(group))
	for _, id := range group {
		t := gs.Things.ByID(id)
		if t == nil {
			return false
		}
		rel := t.Pos.Sub(pivot)
		if clockwise {
			rel = rel.RotatedCW()
		} else {
			rel = rel.RotatedCCW()
		}
		newPos[id] = pivot.Add(rel)
	}
	if !gs.moveValidate(group, newPos) {
		return false
	}
	gs.commitPositions(group, newPos)
	return true
}

// moveWithoutAttachments teleports only the entity, ignoring the attachment
// group. Used by the setup DSL's "move" command; requires only that target
// be unblocked.
func (gs *GameState) moveWithoutAttachments(entityID string, target Position) bool {
	t := gs.Things.ByID(entityID)
	if t == nil {
		return false
	}
	if !gs.IsUnblocked(target) {
		return false
	}
	gs.Things.MoveTo(t, target)
	return true
}

// attachThings inserts the edge a-b if they are Chebyshev-adjacent and the
// combined group size would not exceed attachLimit.
func (gs *GameState) attachThings(a, b *Thing) bool {
	if a.Pos.ChebyshevDistance(b.Pos) != 1 {
		return false
	}
	ga := gs.Attach.CollectGroup(a.ID)
	gb := gs.Attach.CollectGroup(b.ID)
	union := map[string]bool{}
	for _, id := range ga {
		union[id] = true
	}
	for _, id := range gb {
		union[id] = true
	}
	if len(union) > gs.Config.AttachLimit {
		return false
	}
	gs.Attach.Attach(a.ID, b.ID)
	return true
}

// detachThings removes the edge a-b if present.
func (gs *GameState) detachThings(a, b *Thing) bool {
	if !gs.Attach.HasEdge(a.ID, b.ID) {
		return false
	}
	gs.Attach.Detach(a.ID, b.ID)
	return true
}

// randomPosition draws a uniformly random in-bounds position with no
// unblocked requirement (used for clear-event centers).
func (gs *GameState) randomPosition() Position {
	return Position{
		X: gs.RNG.Intn(gs.Grid.Width()),
		Y: gs.RNG.Intn(gs.Grid.Height()),
	}
}

// findRandomFreePosition rejection-samples uniformly over the whole grid
// until IsUnblocked holds.
func (gs *GameState) findRandomFreePosition() Position {
	for {
		p := gs.randomPosition()
		if gs.IsUnblocked(p) {
			return p
		}
	}
}

// findRandomPositionInArea samples one cell of the diamond Area(center,
// radius): dx is drawn uniformly from [-radius, radius], then dy uniformly
// from the column's span, so cells in narrower outer columns are more likely
// than cells near the center column. There is no unblocked check, and it may
// return an
// out-of-bounds position — callers (event firing, spec.md §4.8) must check
// InBounds themselves.
func (gs *GameState) findRandomPositionInArea(center Position, radius int) Position {
	if radius < 0 {
		return center
	}
	dx := gs.RNG.Intn(2*radius+1) - radius
	span := radius - absInt(dx)
	dy := gs.RNG.Intn(2*span+1) - span
	return Position{center.X + dx, center.Y + dy}
}
