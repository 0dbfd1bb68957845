package engine

import "strconv"

// ResultCode is the outcome of one dispatched action (spec.md §6).
type ResultCode string

const (
	Success      ResultCode = "success"
	Failed       ResultCode = "failed"
	FailedPath   ResultCode = "failed_path"
	FailedTarget ResultCode = "failed_target"
	FailedBlocked ResultCode = "failed_blocked"
	FailedStatus ResultCode = "failed_status"
	FailedRandom ResultCode = "failed_random"
)

// Action is one agent's submission for the current tick. Params are parsed
// per Type by the individual handlers below.
type Action struct {
	Type   string
	Params []string
}

// dispatch resolves one agent's action against shared state and returns its
// result code, recording last_action* on the entity as it goes. This is the
// only entry point into the handler family; everything here runs to
// completion before the next agent's action begins (spec.md §5).
func (gs *GameState) dispatch(agentName string, action Action) ResultCode {
	t := gs.entityThing(agentName)
	if t == nil {
		return Failed
	}
	e := t.Entity
	e.LastAction = action.Type
	e.LastActionParams = action.Params

	if e.Disabled() {
		e.LastActionResult = string(FailedStatus)
		return FailedStatus
	}

	if gs.Config.RandomFail > 0 && gs.RNG.Intn(100) < gs.Config.RandomFail {
		e.LastActionResult = string(FailedRandom)
		return FailedRandom
	}

	var result ResultCode
	switch action.Type {
	case "move":
		result = gs.handleMove(t, action.Params)
	case "rotate":
		result = gs.handleRotate(t, action.Params)
	case "attach":
		result = gs.handleAttach(t, action.Params)
	case "detach":
		result = gs.handleDetach(t, action.Params)
	case "connect":
		result = gs.handleConnect(t, action.Params)
	case "request":
		result = gs.handleRequest(t, action.Params)
	case "submit":
		result = gs.handleSubmit(t, action.Params)
	case "clear":
		result = gs.handleClear(t, action.Params)
	case "skip":
		result = Success
	default:
		result = Failed
	}

	e.LastActionResult = string(result)
	return result
}

func directionParam(params []string) (Direction, bool) {
	if len(params) < 1 {
		return "", false
	}
	d := Direction(params[0])
	return d, d.Valid()
}

func (gs *GameState) handleMove(t *Thing, params []string) ResultCode {
	dir, ok := directionParam(params)
	if !ok {
		return FailedTarget
	}
	if gs.moveWithAttached(t.ID, dir, 1) {
		return Success
	}
	return FailedPath
}

func (gs *GameState) handleRotate(t *Thing, params []string) ResultCode {
	clockwise := true
	if len(params) >= 1 && params[0] == "ccw" {
		clockwise = false
	}
	if gs.rotateWithAttached(t.ID, clockwise) {
		return Success
	}
	return Failed
}

// targetAt resolves a direction param into the unique Attachable at the
// entity's adjacent cell, failing F_TARGET if absent/ambiguous or an
// opponent entity.
func (gs *GameState) targetAt(t *Thing, params []string) (*Thing, ResultCode) {
	dir, ok := directionParam(params)
	if !ok {
		return nil, FailedTarget
	}
	targetPos := t.Pos.Add(dir.Offset())
	other, ok := gs.Things.UniqueAttachableAt(targetPos)
	if !ok {
		return nil, FailedTarget
	}
	if other.Kind == KindEntity && other.Entity.TeamName != t.Entity.TeamName {
		return nil, FailedTarget
	}
	return other, Success
}

func (gs *GameState) handleAttach(t *Thing, params []string) ResultCode {
	other, code := gs.targetAt(t, params)
	if code != Success {
		return code
	}
	if gs.groupAttachedToOpponent(other, t.Entity.TeamName) {
		return Failed
	}
	if gs.attachThings(t, other) {
		return Success
	}
	return Failed
}

func (gs *GameState) handleDetach(t *Thing, params []string) ResultCode {
	other, code := gs.targetAt(t, params)
	if code != Success {
		return code
	}
	if gs.detachThings(t, other) {
		return Success
	}
	return Failed
}

// groupAttachedToOpponent reports whether other's attachment group already
// contains an entity on a different team than teamName.
func (gs *GameState) groupAttachedToOpponent(other *Thing, teamName string) bool {
	for _, id := range gs.Attach.CollectGroup(other.ID) {
		mem := gs.Things.ByID(id)
		if mem != nil && mem.Kind == KindEntity && mem.Entity.TeamName != teamName {
			return true
		}
	}
	return false
}

func (gs *GameState) handleConnect(t *Thing, params []string) ResultCode {
	if len(params) < 3 {
		return FailedTarget
	}
	blockLocal := Direction(params[0])
	partnerAgent := params[1]
	partnerBlockLocal := Direction(params[2])

	myBlock, ok := gs.adjacentBlockInOwnGroup(t, blockLocal)
	if !ok {
		return FailedTarget
	}
	partner := gs.entityThing(partnerAgent)
	if partner == nil {
		return FailedTarget
	}
	partnerBlock, ok := gs.adjacentBlockInOwnGroup(partner, partnerBlockLocal)
	if !ok {
		return FailedTarget
	}

	myGroup := gs.Attach.CollectGroup(t.ID)
	for _, id := range myGroup {
		if id == partnerBlock.ID {
			return Failed
		}
	}
	if gs.Attach.HasEdge(t.ID, partner.ID) {
		return Failed
	}
	if gs.attachThings(myBlock, partnerBlock) {
		return Success
	}
	return Failed
}

// adjacentBlockInOwnGroup resolves dir to a Block that is both the unique
// Attachable at the entity's adjacent cell and a member of the entity's own
// attachment group.
func (gs *GameState) adjacentBlockInOwnGroup(entityThing *Thing, dir Direction) (*Thing, bool) {
	if !dir.Valid() {
		return nil, false
	}
	pos := entityThing.Pos.Add(dir.Offset())
	block, ok := gs.Things.UniqueAttachableAt(pos)
	if !ok || block.Kind != KindBlock {
		return nil, false
	}
	group := gs.Attach.CollectGroup(entityThing.ID)
	for _, id := range group {
		if id == block.ID {
			return block, true
		}
	}
	return nil, false
}

func (gs *GameState) handleRequest(t *Thing, params []string) ResultCode {
	dir, ok := directionParam(params)
	if !ok {
		return FailedTarget
	}
	targetPos := t.Pos.Add(dir.Offset())
	var dispenser *Thing
	for _, occ := range gs.Things.ThingsAt(targetPos) {
		if occ.Kind == KindDispenser {
			dispenser = occ
			break
		}
	}
	if dispenser == nil {
		return FailedTarget
	}
	if !gs.IsUnblocked(targetPos) {
		return FailedBlocked
	}
	gs.Things.Register(KindBlock, targetPos, nil, &Block{BlockType: dispenser.Dispenser.BlockType}, nil)
	return Success
}

func (gs *GameState) handleSubmit(t *Thing, params []string) ResultCode {
	if len(params) < 1 {
		return FailedTarget
	}
	task := gs.Tasks.Get(params[0])
	if task == nil || task.Completed {
		return FailedTarget
	}
	if gs.Grid.TerrainAt(t.Pos) != Goal {
		return FailedTarget
	}

	group := gs.Attach.CollectGroup(t.ID)
	groupSet := map[string]bool{}
	for _, id := range group {
		groupSet[id] = true
	}

	matched := make([]string, 0, len(task.Requirements))
	for offset, blockType := range task.Requirements {
		cellPos := t.Pos.Add(offset)
		found := ""
		for _, occ := range gs.Things.ThingsAt(cellPos) {
			if occ.Kind == KindBlock && occ.Block.BlockType == blockType && groupSet[occ.ID] {
				found = occ.ID
				break
			}
		}
		if found == "" {
			return Failed
		}
		matched = append(matched, found)
	}

	for _, id := range matched {
		gs.Attach.Remove(id)
		gs.Things.Remove(id)
	}
	task.Completed = true
	if team := gs.Teams[t.Entity.TeamName]; team != nil {
		team.Score += task.Reward
	}
	return Success
}

func (gs *GameState) handleClear(t *Thing, params []string) ResultCode {
	if len(params) < 2 {
		return FailedTarget
	}
	local, ok := parseLocalPosition(params)
	if !ok {
		return FailedTarget
	}
	target := t.Pos.Add(local)
	if t.Pos.ChebyshevDistance(target) > t.Entity.Vision || !gs.Grid.InBounds(target) {
		return FailedTarget
	}
	if t.Entity.Energy < gs.Config.ClearEnergyCost {
		return FailedStatus
	}

	if t.Entity.recordClearAttempt(gs.Step, target, gs.Config.ClearSteps) {
		t.Entity.Energy -= gs.Config.ClearEnergyCost
		gs.clearArea(target, 1)
	} else {
		for _, p := range Area(target, 1) {
			gs.Grid.CreateMarker(p, MarkerClear)
		}
	}
	return Success
}

func parseLocalPosition(params []string) (Position, bool) {
	x, errX := strconv.Atoi(params[0])
	y, errY := strconv.Atoi(params[1])
	if errX != nil || errY != nil {
		return Position{}, false
	}
	return Position{X: x, Y: y}, true
}

// clearArea implements spec.md §4.8: disable every entity, remove every
// block, clear every obstacle in the diamond, and return the count of
// blocks+obstacles removed.
func (gs *GameState) clearArea(center Position, radius int) int {
	removed := 0
	for _, p := range Area(center, radius) {
		for _, occ := range gs.Things.ThingsAt(p) {
			switch occ.Kind {
			case KindEntity:
				gs.disableEntity(occ)
			case KindBlock:
				gs.Attach.Remove(occ.ID)
				gs.Things.Remove(occ.ID)
				removed++
			}
		}
		if gs.Grid.TerrainAt(p) == Obstacle {
			gs.Grid.SetTerrain(p, Empty)
			removed++
		}
	}
	return removed
}

// disableEntity implements spec.md §4.5 disable(): sets disabled_for_steps,
// drops all of the entity's attachments, and teleports it to a random free
// cell.
func (gs *GameState) disableEntity(t *Thing) {
	t.Entity.DisabledForSteps = gs.Config.DisableDuration
	gs.Attach.DetachAll(t.ID)
	gs.Things.MoveTo(t, gs.findRandomFreePosition())
}

// fireEvent detonates a clear event: clears its area, then scatters new
// obstacles within a wider radius (spec.md §4.8).
func (gs *GameState) fireEvent(ev ClearEvent) {
	removed := gs.clearArea(ev.Center, ev.Radius)
	count := gs.RNG.Between(gs.Config.Events.Create.Min, gs.Config.Events.Create.Max) + removed
	for i := 0; i < count; i++ {
		p := gs.findRandomPositionInArea(ev.Center, ev.Radius+3)
		if gs.Grid.InBounds(p) {
			gs.Grid.SetTerrain(p, Obstacle)
		}
	}
}
