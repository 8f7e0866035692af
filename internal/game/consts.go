package game

const (
	SimHz        = 20.0 // server tick rate
	Dt           = 1.0 / SimHz
	UpdateRateHz = 10.0 // per-client WS state pushes

	WorldW = 8000.0
	WorldH = 4500.0

	ShipMaxSpeedDefault = 120.0 // map units/s
	ShipMaxHP           = 3
	DockRadius          = 80.0

	// A defensive overlay gives up a chase beyond this range. Aggressive
	// overlays never deactivate on distance alone.
	CombatDefensiveRange = 1200.0

	SpawnSearchStep    = 40.0 // ring spacing of the safe-water search
	SpawnSearchSamples = 12   // angular samples per ring
)
