package game

// Intent is the single current behavioral objective of a ship.
type Intent int

const (
	IntentTravel Intent = iota // sail toward the destination harbor
	IntentEngage               // close on the combat overlay's target
	IntentEvade                // break away from the combat overlay's target
	IntentWait                 // hold position
	IntentDespawning           // marked for removal at end of tick
	IntentArrived              // terminal: reached the destination harbor
)

func (i Intent) String() string {
	switch i {
	case IntentTravel:
		return "travel"
	case IntentEngage:
		return "engage"
	case IntentEvade:
		return "evade"
	case IntentWait:
		return "wait"
	case IntentDespawning:
		return "despawning"
	case IntentArrived:
		return "arrived"
	}
	return "unknown"
}
