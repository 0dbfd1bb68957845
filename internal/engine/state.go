package engine

import (
	"log"
	"sort"
)

// GameState is the root aggregate: the single owned mutable value threaded
// through every handler. There is no process-wide singleton anywhere in the
// engine (spec.md §9 "Global mutable state") — Config, RNG and every
// subsystem live here as fields.
type GameState struct {
	Grid   *Grid
	Things *ThingStore
	Attach *AttachGraph
	Tasks  *TaskRegistry
	Events *EventQueue
	RNG    *RNG
	Config Config

	Step int

	Teams          map[string]*Team
	AgentToEntity  map[string]string // agent_name -> entity id

	// Logger is optional; nil-checked everywhere it is used, matching the
	// teacher's optional-sink-field convention.
	Logger *log.Logger
}

// New constructs a GameState from a resolved Config and a terrain callback,
// then runs the setup DSL once. Config is assumed already validated by an
// external collaborator (internal/config); New only applies internal
// defaults and wires subsystems together.
func New(cfg Config, terrain TerrainProvider, logger *log.Logger) (*GameState, error) {
	cfg.applyDefaults()

	gs := &GameState{
		Grid:          NewGrid(cfg.Grid.Width, cfg.Grid.Height, terrain),
		Things:        NewThingStore(),
		Attach:        NewAttachGraph(),
		Tasks:         NewTaskRegistry(),
		Events:        NewEventQueue(),
		RNG:           NewRNG(cfg.Seed),
		Config:        cfg,
		Teams:         map[string]*Team{},
		AgentToEntity: map[string]string{},
		Logger:        logger,
	}

	teamNames := make([]string, 0, len(cfg.Teams))
	for teamName := range cfg.Teams {
		teamNames = append(teamNames, teamName)
	}
	sort.Strings(teamNames)
	for _, teamName := range teamNames {
		gs.Teams[teamName] = &Team{Name: teamName}
		for _, agentName := range cfg.Teams[teamName] {
			e := &Entity{AgentName: agentName, TeamName: teamName, Energy: cfg.MaxEnergy, Vision: 5, LastActionResult: "uninitialized"}
			t := gs.Things.Register(KindEntity, Position{}, e, nil, nil)
			gs.AgentToEntity[agentName] = t.ID
		}
	}

	gs.runSetup(cfg.Setup)

	return gs, nil
}

func (gs *GameState) logf(format string, args ...interface{}) {
	if gs.Logger != nil {
		gs.Logger.Printf(format, args...)
	}
}

// entityThing resolves an agent name to its Thing, or nil if unknown.
func (gs *GameState) entityThing(agentName string) *Thing {
	id, ok := gs.AgentToEntity[agentName]
	if !ok {
		return nil
	}
	return gs.Things.ByID(id)
}

// PrepareStep advances the simulation by one tick following the
// authoritative ordering of spec.md §4.7 and returns the per-entity step
// percepts to hand to the external harness.
func (gs *GameState) PrepareStep(step int) map[string]StepPercept {
	gs.Step = step
	gs.Grid.ClearMarkers()

	if gs.RNG.Float64() <= gs.Config.Tasks.Probability {
		duration := gs.RNG.Between(gs.Config.Tasks.Duration.Min, gs.Config.Tasks.Duration.Max)
		size := gs.RNG.Between(gs.Config.Tasks.Size.Min, gs.Config.Tasks.Size.Max)
		gs.Tasks.CreateRandom(gs.Step, duration, size, gs.Config.BlockTypes, gs.RNG)
	}

	for _, id := range gs.Things.AllSortedIDs() {
		t := gs.Things.ByID(id)
		if t.Kind == KindEntity {
			t.Entity.PreStep()
		}
	}

	if gs.RNG.Intn(100) < gs.Config.Events.Chance {
		center := gs.randomPosition()
		radius := gs.RNG.Between(gs.Config.Events.Radius.Min, gs.Config.Events.Radius.Max)
		gs.Events.Enqueue(ClearEvent{Center: center, FireStep: gs.Step + gs.Config.Events.Warning, Radius: radius})
	}

	due, remaining := gs.Events.DueAndRemaining(gs.Step)
	gs.Events.SetRemaining(remaining)
	for _, ev := range due {
		gs.fireEvent(ev)
	}
	for _, ev := range remaining {
		for _, p := range Area(ev.Center, ev.Radius) {
			gs.Grid.CreateMarker(p, MarkerClear)
		}
	}

	return gs.buildStepPercepts()
}

// ApplyActions dispatches one action per entity in deterministic
// (lexicographic agent-name) order, mutating shared state one handler at a
// time (spec.md §5: single-threaded, turn-serialized).
func (gs *GameState) ApplyActions(actions map[string]Action) map[string]ResultCode {
	agents := make([]string, 0, len(actions))
	for agent := range actions {
		agents = append(agents, agent)
	}
	sort.Strings(agents)

	results := make(map[string]ResultCode, len(agents))
	for _, agent := range agents {
		results[agent] = gs.dispatch(agent, actions[agent])
	}
	return results
}
