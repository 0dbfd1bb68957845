// Package config loads and validates a match configuration from YAML,
// using yaml.v3 for parsing and jsonschema/v5 for schema validation, then
// converts it into an engine.Config. This is the external collaborator
// spec.md's Non-goals name: the engine itself never reads a config file.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/murphybt/massim-2020/internal/engine"
)

type fileRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

func (r fileRange) toRange() engine.Range { return engine.Range{Min: r.Min, Max: r.Max} }

type fileTasks struct {
	Duration    fileRange `yaml:"duration"`
	Size        fileRange `yaml:"size"`
	Probability float64   `yaml:"probability"`
}

type fileEvents struct {
	Chance  int       `yaml:"chance"`
	Radius  fileRange `yaml:"radius"`
	Warning int       `yaml:"warning"`
	Create  fileRange `yaml:"create"`
}

// Grid is the grid section of the file config, exposed so a caller can pass
// TerrainBitmap on to LoadTerrain.
type Grid struct {
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	TerrainBitmap string `yaml:"terrain_bitmap"`
}

type fileConfig struct {
	Seed            int64               `yaml:"seed"`
	RandomFail      int                 `yaml:"random_fail"`
	AttachLimit     int                 `yaml:"attach_limit"`
	ClearSteps      int                 `yaml:"clear_steps"`
	ClearEnergyCost int                 `yaml:"clear_energy_cost"`
	DisableDuration int                 `yaml:"disable_duration"`
	MaxEnergy       int                 `yaml:"max_energy"`
	BlockTypes      []string            `yaml:"block_types"`
	Dispensers      fileRange           `yaml:"dispensers"`
	Tasks           fileTasks           `yaml:"tasks"`
	Events          fileEvents          `yaml:"events"`
	Grid            Grid                `yaml:"grid"`
	Setup           []string            `yaml:"setup"`
	Teams           map[string][]string `yaml:"teams"`
}

// Load reads, schema-validates and decodes a match configuration. It
// returns the resolved engine.Config plus the Grid section separately,
// since TerrainBitmap feeds LoadTerrain rather than the engine itself
// (spec.md: the engine only ever consumes a TerrainProvider callback).
func Load(configPath, schemaPath string) (engine.Config, Grid, error) {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return engine.Config{}, Grid{}, fmt.Errorf("read config: %w", err)
	}

	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return engine.Config{}, Grid{}, fmt.Errorf("parse config: %w", err)
	}
	if err := validate(generic, schemaPath); err != nil {
		return engine.Config{}, Grid{}, fmt.Errorf("validate config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return engine.Config{}, Grid{}, fmt.Errorf("decode config: %w", err)
	}

	cfg := engine.Config{
		Seed:            fc.Seed,
		RandomFail:      fc.RandomFail,
		AttachLimit:     fc.AttachLimit,
		ClearSteps:      fc.ClearSteps,
		ClearEnergyCost: fc.ClearEnergyCost,
		DisableDuration: fc.DisableDuration,
		MaxEnergy:       fc.MaxEnergy,
		BlockTypes:      fc.BlockTypes,
		Dispensers:      fc.Dispensers.toRange(),
		Tasks: engine.TaskConfig{
			Duration:    fc.Tasks.Duration.toRange(),
			Size:        fc.Tasks.Size.toRange(),
			Probability: fc.Tasks.Probability,
		},
		Events: engine.EventConfig{
			Chance:  fc.Events.Chance,
			Radius:  fc.Events.Radius.toRange(),
			Warning: fc.Events.Warning,
			Create:  fc.Events.Create.toRange(),
		},
		Grid:  engine.GridConfig{Width: fc.Grid.Width, Height: fc.Grid.Height},
		Setup: fc.Setup,
		Teams: fc.Teams,
	}
	return cfg, fc.Grid, nil
}

// validate round-trips the YAML-decoded document through encoding/json so
// every number becomes a float64, matching what jsonschema/v5 expects from
// a JSON-native document.
func validate(doc any, schemaPath string) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var jsonDoc any
	if err := json.Unmarshal(b, &jsonDoc); err != nil {
		return err
	}
	schema, err := jsonschema.Compile(schemaPath)
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	return schema.Validate(jsonDoc)
}
