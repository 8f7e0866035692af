package game

import (
	"log"
	"math/rand"
)

type ShipClassID string

const (
	ClassSloop    ShipClassID = "sloop"
	ClassBrig     ShipClassID = "brig"
	ClassMerchant ShipClassID = "merchantman"
	ClassFrigate  ShipClassID = "frigate"
)

// RoleProfile is an immutable parameter bundle defining an NPC archetype.
// Profiles are shared by pointer across every ship of that role and are
// never mutated after the registry is sealed at startup.
type RoleProfile struct {
	Name             string
	DefaultIntent    Intent
	CombatCapable    bool
	CombatAggressive bool
	FleeThreshold    float64 // hull fraction below which the ship breaks off
	EngagementRange  float64
	ShipClasses      []ShipClassID
}

const (
	RoleTrader = "trader"
	RolePirate = "pirate"
	RolePatrol = "patrol"
)

// RoleRegistry holds all defined role profiles. Config overrides replace
// entries before the world starts ticking; readers only after that.
var RoleRegistry = map[string]*RoleProfile{
	RoleTrader: {
		Name:          RoleTrader,
		DefaultIntent: IntentTravel,
		CombatCapable: false,
		FleeThreshold: 0.8,
		ShipClasses:   []ShipClassID{ClassSloop, ClassMerchant},
	},
	RolePirate: {
		Name:             RolePirate,
		DefaultIntent:    IntentTravel,
		CombatCapable:    true,
		CombatAggressive: true,
		FleeThreshold:    0.3,
		EngagementRange:  900,
		ShipClasses:      []ShipClassID{ClassSloop, ClassBrig},
	},
	RolePatrol: {
		Name:             RolePatrol,
		DefaultIntent:    IntentTravel,
		CombatCapable:    true,
		CombatAggressive: false,
		FleeThreshold:    0.2,
		EngagementRange:  700,
		ShipClasses:      []ShipClassID{ClassBrig, ClassFrigate},
	},
}

// GetRole resolves a role name to its profile. Unknown names fall back to
// the trader profile so a bad spawn request degrades instead of crashing
// the simulation.
func GetRole(name string) *RoleProfile {
	if profile, ok := RoleRegistry[name]; ok {
		return profile
	}
	log.Printf("roles: unknown role %q, falling back to %s", name, RoleTrader)
	return RoleRegistry[RoleTrader]
}

// SetRole replaces a registry entry. Config-load time only.
func SetRole(name string, profile RoleProfile) {
	profile.Name = name
	RoleRegistry[name] = &profile
}

// RandomShipClass draws uniformly from the role's permitted classes.
func (p *RoleProfile) RandomShipClass(rng *rand.Rand) ShipClassID {
	if len(p.ShipClasses) == 0 {
		return ClassSloop
	}
	return p.ShipClasses[rng.Intn(len(p.ShipClasses))]
}
