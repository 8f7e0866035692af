package server

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	. "Tradewinds/internal/game"
)

// Env holds the process-level settings read from the environment. Flags
// layered on top in main win.
type Env struct {
	Addr            string `env:"TRADEWINDS_ADDR" envDefault:":8080"`
	WorldConfigPath string `env:"TRADEWINDS_WORLD_CONFIG" envDefault:"configs/world.yaml"`
	Seed            int64  `env:"TRADEWINDS_SEED"`
}

func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return e, fmt.Errorf("parse environment: %w", err)
	}
	return e, nil
}

type worldFile struct {
	World   *worldSection          `yaml:"world"`
	Nav     *navSection            `yaml:"nav"`
	Harbors []harborSection        `yaml:"harbors"`
	Roles   map[string]roleSection `yaml:"roles"`
	Escort  *escortSection         `yaml:"escort"`
}

type worldSection struct {
	Width  *float64 `yaml:"width"`
	Height *float64 `yaml:"height"`
}

type navSection struct {
	CellSize float64  `yaml:"cell_size"`
	Rows     []string `yaml:"rows"`
}

type harborSection struct {
	ID   string  `yaml:"id"`
	Name string  `yaml:"name"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

type roleSection struct {
	DefaultIntent    *string  `yaml:"default_intent"`
	CombatCapable    *bool    `yaml:"combat_capable"`
	CombatAggressive *bool    `yaml:"combat_aggressive"`
	FleeThreshold    *float64 `yaml:"flee_threshold"`
	EngagementRange  *float64 `yaml:"engagement_range"`
	ShipClasses      []string `yaml:"ship_classes"`
}

type escortSection struct {
	DockedSpawnDistance   *float64 `yaml:"docked_spawn_distance"`
	DirectSpawnDistance   *float64 `yaml:"direct_spawn_distance"`
	MinRouteDistance      *float64 `yaml:"min_route_distance"`
	SpawnSearchRadius     *float64 `yaml:"spawn_search_radius"`
	SpawnRevalidateRadius *float64 `yaml:"spawn_revalidate_radius"`
	ArrivalRadius         *float64 `yaml:"arrival_radius"`
	SpeedFactor           *float64 `yaml:"speed_factor"`
	SpeedScaleMin         *float64 `yaml:"speed_scale_min"`
	SpeedScaleMax         *float64 `yaml:"speed_scale_max"`
	MaxAttacks            *int     `yaml:"max_attacks"`
	AttackMargin          *float64 `yaml:"attack_margin"`
	AttackCooldown        *float64 `yaml:"attack_cooldown"`
	PiratesPerAttack      *int     `yaml:"pirates_per_attack"`
	AttackLateralOffset   *float64 `yaml:"attack_lateral_offset"`
	AttackSpawnRadius     *float64 `yaml:"attack_spawn_radius"`
	MaxPlayerDistance     *float64 `yaml:"max_player_distance"`
}

// LoadWorldConfig reads the YAML world definition and merges it over the
// compiled defaults. A missing file is not an error; the built-in world
// is used as-is.
func LoadWorldConfig(path string, seed int64) (WorldConfig, error) {
	cfg := WorldConfig{Seed: seed, Escort: DefaultEscortTuning()}
	if path == "" {
		return cfg, nil
	}
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read world config %q: %w", cleanPath, err)
	}
	var file worldFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parse world config %q: %w", cleanPath, err)
	}

	if file.World != nil {
		if file.World.Width != nil {
			cfg.Width = *file.World.Width
		}
		if file.World.Height != nil {
			cfg.Height = *file.World.Height
		}
	}
	if file.Nav != nil {
		cfg.Nav = ParseNavRows(file.Nav.Rows, file.Nav.CellSize)
	}
	for _, h := range file.Harbors {
		cfg.Harbors = append(cfg.Harbors, Harbor{ID: h.ID, Name: h.Name, Pos: Vec2{X: h.X, Y: h.Y}})
	}
	for name, section := range file.Roles {
		applyRoleOverride(name, section)
	}
	if file.Escort != nil {
		cfg.Escort = mergeEscort(cfg.Escort, file.Escort)
	}
	return cfg, nil
}

func applyRoleOverride(name string, section roleSection) {
	profile := *GetRole(name)
	if section.DefaultIntent != nil {
		profile.DefaultIntent = parseIntent(*section.DefaultIntent, profile.DefaultIntent)
	}
	if section.CombatCapable != nil {
		profile.CombatCapable = *section.CombatCapable
	}
	if section.CombatAggressive != nil {
		profile.CombatAggressive = *section.CombatAggressive
	}
	if section.FleeThreshold != nil {
		profile.FleeThreshold = Clamp(*section.FleeThreshold, 0, 1)
	}
	if section.EngagementRange != nil {
		profile.EngagementRange = *section.EngagementRange
	}
	if len(section.ShipClasses) > 0 {
		classes := make([]ShipClassID, 0, len(section.ShipClasses))
		for _, c := range section.ShipClasses {
			classes = append(classes, ShipClassID(c))
		}
		profile.ShipClasses = classes
	}
	SetRole(name, profile)
}

func parseIntent(raw string, fallback Intent) Intent {
	for _, intent := range []Intent{IntentTravel, IntentEngage, IntentEvade, IntentWait} {
		if intent.String() == raw {
			return intent
		}
	}
	return fallback
}

func mergeEscort(base EscortTuning, section *escortSection) EscortTuning {
	if section.DockedSpawnDistance != nil {
		base.DockedSpawnDistance = *section.DockedSpawnDistance
	}
	if section.DirectSpawnDistance != nil {
		base.DirectSpawnDistance = *section.DirectSpawnDistance
	}
	if section.MinRouteDistance != nil {
		base.MinRouteDistance = *section.MinRouteDistance
	}
	if section.SpawnSearchRadius != nil {
		base.SpawnSearchRadius = *section.SpawnSearchRadius
	}
	if section.SpawnRevalidateRadius != nil {
		base.SpawnRevalidateRadius = *section.SpawnRevalidateRadius
	}
	if section.ArrivalRadius != nil {
		base.ArrivalRadius = *section.ArrivalRadius
	}
	if section.SpeedFactor != nil {
		base.SpeedFactor = *section.SpeedFactor
	}
	if section.SpeedScaleMin != nil {
		base.SpeedScaleMin = *section.SpeedScaleMin
	}
	if section.SpeedScaleMax != nil {
		base.SpeedScaleMax = *section.SpeedScaleMax
	}
	if section.MaxAttacks != nil {
		base.MaxAttacks = *section.MaxAttacks
	}
	if section.AttackMargin != nil {
		base.AttackMargin = Clamp(*section.AttackMargin, 0, 0.5)
	}
	if section.AttackCooldown != nil {
		base.AttackCooldown = *section.AttackCooldown
	}
	if section.PiratesPerAttack != nil {
		base.PiratesPerAttack = *section.PiratesPerAttack
	}
	if section.AttackLateralOffset != nil {
		base.AttackLateralOffset = *section.AttackLateralOffset
	}
	if section.AttackSpawnRadius != nil {
		base.AttackSpawnRadius = *section.AttackSpawnRadius
	}
	if section.MaxPlayerDistance != nil {
		base.MaxPlayerDistance = *section.MaxPlayerDistance
	}
	return base
}
