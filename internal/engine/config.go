package engine

// Range is an inclusive [Min,Max] integer range used throughout Config for
// values the engine draws randomly (task duration/size, event
// radius/creation counts). Config.Dispensers is also a Range, but the engine
// never reads it: dispensers are placed only by setup "add" commands.
type Range struct {
	Min int
	Max int
}

// TaskConfig controls random task generation (spec.md §4.6).
type TaskConfig struct {
	Duration    Range
	Size        Range
	Probability float64
}

// EventConfig controls clear-event scheduling (spec.md §4.5/§4.8).
type EventConfig struct {
	Chance  int
	Radius  Range
	Warning int
	Create  Range
}

// GridConfig sizes the terrain grid.
type GridConfig struct {
	Width  int
	Height int
}

// Config is a fully-resolved match configuration, already parsed and
// validated by an external collaborator (internal/config); the engine never
// reads config files itself (spec.md Non-goals).
type Config struct {
	Seed int64

	RandomFail       int
	AttachLimit      int
	ClearSteps       int
	ClearEnergyCost  int
	DisableDuration  int
	MaxEnergy        int

	BlockTypes []string
	Dispensers Range

	Tasks  TaskConfig
	Events EventConfig
	Grid   GridConfig

	// Setup holds the whitespace-separated setup DSL commands (spec.md
	// §4.9) run once, in order, against the freshly constructed GameState.
	Setup []string

	// Teams maps a team name to its roster of agent names.
	Teams map[string][]string
}

// applyDefaults fills in zero-valued fields with sane defaults, mirroring
// the teacher's Config.applyDefaults pattern (if x <= 0 { x = default }).
func (c *Config) applyDefaults() {
	if c.AttachLimit <= 0 {
		c.AttachLimit = 10
	}
	if c.ClearSteps <= 0 {
		c.ClearSteps = 1
	}
	if c.DisableDuration <= 0 {
		c.DisableDuration = 4
	}
	if c.MaxEnergy <= 0 {
		c.MaxEnergy = 300
	}
	if c.Dispensers.Max <= 0 {
		c.Dispensers = Range{Min: 1, Max: 1}
	}
	if c.Tasks.Duration.Max <= 0 {
		c.Tasks.Duration = Range{Min: 50, Max: 50}
	}
	if c.Tasks.Size.Max <= 0 {
		c.Tasks.Size = Range{Min: 1, Max: 1}
	}
	if c.Events.Radius.Max <= 0 {
		c.Events.Radius = Range{Min: 1, Max: 1}
	}
	if c.Events.Create.Max <= 0 {
		c.Events.Create = Range{Min: 1, Max: 1}
	}
	if c.Grid.Width <= 0 {
		c.Grid.Width = 50
	}
	if c.Grid.Height <= 0 {
		c.Grid.Height = 50
	}
}
