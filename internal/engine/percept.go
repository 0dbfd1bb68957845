package engine

import "sort"

// This file assembles the plain value records the external serializer
// renders (spec.md §4.10, §6). The engine never marshals JSON itself.

// ThingView is a single thing as seen in a percept, in local coordinates
// (relative to the observing entity).
type ThingView struct {
	ID        string
	Kind      ThingKind
	Pos       Position
	BlockType string
	AgentName string
	TeamName  string
}

// TaskView is an open task as exposed to agents.
type TaskView struct {
	Name         string
	DeadlineStep int
	Reward       int
	Requirements map[Position]string
}

// StepPercept is the per-tick view delivered to one agent.
type StepPercept struct {
	Step               int
	Score              int
	Energy             int
	Disabled           bool
	LastAction         string
	LastActionParams   []string
	LastActionResult   string
	Things             []ThingView
	Terrain            map[Position]Terrain
	Tasks              []TaskView
	AttachedToOpponent []Position
}

// InitialPercept is delivered once, at match start.
type InitialPercept struct {
	Agent      string
	Team       string
	TotalSteps int
	Vision     int
}

// FinalPercept is delivered once, at match end.
type FinalPercept struct {
	Score int
	Rank  int
}

func (gs *GameState) buildStepPercepts() map[string]StepPercept {
	out := make(map[string]StepPercept, len(gs.AgentToEntity))
	for agent, id := range gs.AgentToEntity {
		t := gs.Things.ByID(id)
		if t == nil {
			continue
		}
		out[agent] = gs.buildStepPercept(t)
	}
	return out
}

func (gs *GameState) buildStepPercept(self *Thing) StepPercept {
	e := self.Entity
	team := gs.Teams[e.TeamName]
	score := 0
	if team != nil {
		score = team.Score
	}

	things := []ThingView{}
	terrain := map[Position]Terrain{}
	seenCells := map[Position]bool{}
	opponentGroup := gs.collectOpponentPositions(self)

	for _, p := range Area(self.Pos, e.Vision) {
		local := p.ToLocal(self.Pos)
		seenCells[p] = true
		for _, occ := range gs.Things.ThingsAt(p) {
			v := ThingView{ID: occ.ID, Kind: occ.Kind, Pos: local}
			switch occ.Kind {
			case KindEntity:
				v.AgentName = occ.Entity.AgentName
				v.TeamName = occ.Entity.TeamName
			case KindBlock:
				v.BlockType = occ.Block.BlockType
			case KindDispenser:
				v.BlockType = occ.Dispenser.BlockType
			}
			things = append(things, v)
		}
		if tr := gs.Grid.TerrainAt(p); tr != Empty {
			terrain[local] = tr
		}
	}

	sort.Slice(things, func(i, j int) bool { return things[i].ID < things[j].ID })

	attachedToOpponent := make([]Position, 0, len(opponentGroup))
	for _, p := range opponentGroup {
		if seenCells[p] {
			attachedToOpponent = append(attachedToOpponent, p.ToLocal(self.Pos))
		}
	}
	sort.Slice(attachedToOpponent, func(i, j int) bool {
		if attachedToOpponent[i].X != attachedToOpponent[j].X {
			return attachedToOpponent[i].X < attachedToOpponent[j].X
		}
		return attachedToOpponent[i].Y < attachedToOpponent[j].Y
	})

	return StepPercept{
		Step:               gs.Step,
		Score:              score,
		Energy:             e.Energy,
		Disabled:           e.Disabled(),
		LastAction:         e.LastAction,
		LastActionParams:   e.LastActionParams,
		LastActionResult:   e.LastActionResult,
		Things:             things,
		Terrain:            terrain,
		Tasks:              gs.openTaskViews(),
		AttachedToOpponent: attachedToOpponent,
	}
}

// collectOpponentPositions returns the positions of every thing in self's
// attachment group that is an entity on a different team.
func (gs *GameState) collectOpponentPositions(self *Thing) []Position {
	group := gs.Attach.CollectGroup(self.ID)
	var out []Position
	for _, id := range group {
		t := gs.Things.ByID(id)
		if t == nil || t.Kind != KindEntity {
			continue
		}
		if t.Entity.TeamName != self.Entity.TeamName {
			out = append(out, t.Pos)
		}
	}
	return out
}

// OpenTasks returns the TaskView for every task still open at the current
// step, for callers outside the engine package (e.g. the side-index mirror)
// that want the same view agents receive in their percepts.
func (gs *GameState) OpenTasks() []TaskView {
	return gs.openTaskViews()
}

func (gs *GameState) openTaskViews() []TaskView {
	open := gs.Tasks.Open(gs.Step)
	out := make([]TaskView, 0, len(open))
	for _, t := range open {
		out = append(out, TaskView{Name: t.Name, DeadlineStep: t.DeadlineStep, Reward: t.Reward, Requirements: t.Requirements})
	}
	return out
}

// InitialPercepts returns the one-time start-of-match percept for every
// agent.
func (gs *GameState) InitialPercepts(totalSteps int) map[string]InitialPercept {
	out := make(map[string]InitialPercept, len(gs.AgentToEntity))
	for agent, id := range gs.AgentToEntity {
		t := gs.Things.ByID(id)
		if t == nil {
			continue
		}
		out[agent] = InitialPercept{Agent: agent, Team: t.Entity.TeamName, TotalSteps: totalSteps, Vision: t.Entity.Vision}
	}
	return out
}

// FinalPercepts ranks every agent's team by score, 1-based, highest first,
// ties broken by insertion (team-name) order.
func (gs *GameState) FinalPercepts() map[string]FinalPercept {
	teamNames := make([]string, 0, len(gs.Teams))
	for name := range gs.Teams {
		teamNames = append(teamNames, name)
	}
	sort.Strings(teamNames)
	sort.SliceStable(teamNames, func(i, j int) bool {
		return gs.Teams[teamNames[i]].Score > gs.Teams[teamNames[j]].Score
	})
	rank := make(map[string]int, len(teamNames))
	for i, name := range teamNames {
		rank[name] = i + 1
	}

	out := make(map[string]FinalPercept, len(gs.AgentToEntity))
	for agent, id := range gs.AgentToEntity {
		t := gs.Things.ByID(id)
		if t == nil {
			continue
		}
		team := gs.Teams[t.Entity.TeamName]
		score := 0
		if team != nil {
			score = team.Score
		}
		out[agent] = FinalPercept{Score: score, Rank: rank[t.Entity.TeamName]}
	}
	return out
}

// SnapshotEntity, SnapshotBlock, SnapshotDispenser, SnapshotTask and
// Snapshot form the whole-of-state record used for spectator feeds and
// persistence.
type SnapshotEntity struct {
	ID        string
	AgentName string
	TeamName  string
	Pos       Position
	Energy    int
	Disabled  bool
}

type SnapshotBlock struct {
	ID        string
	Pos       Position
	BlockType string
}

type SnapshotDispenser struct {
	ID        string
	Pos       Position
	BlockType string
}

type SnapshotTask struct {
	Name         string
	DeadlineStep int
	Reward       int
	Requirements map[Position]string
}

type Snapshot struct {
	Step          int
	Entities      []SnapshotEntity
	Blocks        []SnapshotBlock
	Dispensers    []SnapshotDispenser
	Tasks         []SnapshotTask
	PendingEvents []ClearEvent
}

// BuildSnapshot renders the full engine state, omitting completed tasks
// (spec.md §6).
func (gs *GameState) BuildSnapshot() Snapshot {
	snap := Snapshot{Step: gs.Step}
	for _, id := range gs.Things.AllSortedIDs() {
		t := gs.Things.ByID(id)
		switch t.Kind {
		case KindEntity:
			snap.Entities = append(snap.Entities, SnapshotEntity{
				ID: t.ID, AgentName: t.Entity.AgentName, TeamName: t.Entity.TeamName,
				Pos: t.Pos, Energy: t.Entity.Energy, Disabled: t.Entity.Disabled(),
			})
		case KindBlock:
			snap.Blocks = append(snap.Blocks, SnapshotBlock{ID: t.ID, Pos: t.Pos, BlockType: t.Block.BlockType})
		case KindDispenser:
			snap.Dispensers = append(snap.Dispensers, SnapshotDispenser{ID: t.ID, Pos: t.Pos, BlockType: t.Dispenser.BlockType})
		}
	}
	for _, task := range gs.Tasks.Open(gs.Step) {
		snap.Tasks = append(snap.Tasks, SnapshotTask{Name: task.Name, DeadlineStep: task.DeadlineStep, Reward: task.Reward, Requirements: task.Requirements})
	}
	snap.PendingEvents = gs.Events.Pending()
	return snap
}

// ResultEntry is one team's final tally.
type ResultEntry struct {
	Score int
}

// BuildResult returns the team -> score map delivered at match end.
func (gs *GameState) BuildResult() map[string]ResultEntry {
	out := make(map[string]ResultEntry, len(gs.Teams))
	for name, team := range gs.Teams {
		out[name] = ResultEntry{Score: team.Score}
	}
	return out
}
