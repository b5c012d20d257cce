package events

// EventType represents the type of progression event
type EventType int

const (
	// OnLevelGained fires after each level is applied, before stats are recalculated
	OnLevelGained EventType = iota
	// OnAbilityScoreImprovement fires after the two increases of an improvement level
	OnAbilityScoreImprovement
	// OnMilestoneResolved fires after a class milestone handler ran
	OnMilestoneResolved
	// OnAdvanceCompleted fires once a level run has been recalculated
	OnAdvanceCompleted
)

// String returns the string representation of the event type
func (e EventType) String() string {
	names := [...]string{
		"OnLevelGained",
		"OnAbilityScoreImprovement",
		"OnMilestoneResolved",
		"OnAdvanceCompleted",
	}
	if e < OnLevelGained || int(e) >= len(names) {
		return "Unknown"
	}
	return names[e]
}
