package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/ugaemi/wantedsim-server/internal/game"
	"github.com/ugaemi/wantedsim-server/internal/npc"
	"github.com/ugaemi/wantedsim-server/internal/wanted"
)

//go:embed default_scenario.yaml
var defaultScenario []byte

//go:embed scenario.schema.json
var scenarioSchema string

// Scenario describes the town a session simulates.
type Scenario struct {
	DayLengthMinutes float64         `yaml:"day_length_minutes"`
	StartHour        float64         `yaml:"start_hour"`
	Seed             int64           `yaml:"seed"`
	Subject          game.Vec        `yaml:"subject"`
	Walls            []game.Wall     `yaml:"walls"`
	Wanted           wanted.Config   `yaml:"wanted"`
	Police           PoliceTemplate  `yaml:"police"`
	Actors           []ActorTemplate `yaml:"actors"`
}

// PoliceTemplate configures units spawned by the wanted controller.
type PoliceTemplate struct {
	Speed  float64    `yaml:"speed"`
	Combat npc.Combat `yaml:"combat"`
}

// ActorTemplate configures one scripted civilian or guard.
type ActorTemplate struct {
	Name         string                `yaml:"name"`
	Archetype    string                `yaml:"archetype"`
	Position     game.Vec              `yaml:"position"`
	Speed        float64               `yaml:"speed"`
	Windows      map[string]npc.Window `yaml:"windows"`
	Destinations map[string]game.Vec   `yaml:"destinations"`
	Patrol       []game.Vec            `yaml:"patrol"`
	Combat       npc.Combat            `yaml:"combat"`
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = jsonschema.CompileString("scenario.schema.json", scenarioSchema)
	})
	return compiled, compileErr
}

// LoadScenario reads a YAML scenario from path, or the built-in scenario when
// path is empty, and validates it against the scenario schema.
func LoadScenario(path string) (*Scenario, error) {
	raw := defaultScenario
	name := "default_scenario.yaml"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		raw = b
		name = path
	}

	sc, err := ParseScenario(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return sc, nil
}

// ParseScenario validates and decodes scenario YAML.
func ParseScenario(raw []byte) (*Scenario, error) {
	if err := validate(raw); err != nil {
		return nil, err
	}

	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, err
	}
	applyDefaults(&sc)
	return &sc, nil
}

func applyDefaults(sc *Scenario) {
	if sc.DayLengthMinutes == 0 {
		sc.DayLengthMinutes = game.DefaultDayLengthMinutes
	}
	if sc.Police.Speed == 0 {
		sc.Police.Speed = game.DefaultWalkSpeed
	}
	if sc.Police.Combat == (npc.Combat{}) {
		sc.Police.Combat = defaultCombat
	}
	for i := range sc.Actors {
		a := &sc.Actors[i]
		if a.Archetype == "guard" && a.Combat == (npc.Combat{}) {
			a.Combat = defaultCombat
		}
	}
}

var defaultCombat = npc.Combat{
	SightRange:  game.DefaultSightRange,
	AttackRange: game.DefaultAttackRange,
	LoseRange:   game.DefaultLoseRange,
}

// validate checks the YAML document against the embedded JSON schema. The
// document is round-tripped through JSON so numbers match what the validator expects.
func validate(raw []byte) error {
	s, err := schema()
	if err != nil {
		return fmt.Errorf("compile scenario schema: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("scenario is not JSON compatible: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	return nil
}
