package events

import "github.com/KirkDiggler/dnd-sheet/internal/domain/character"

// Context keys set by the progression machine
const (
	ContextClass = "class"
	// ContextFromLevel is the level an advance started at
	ContextFromLevel = "from_level"
)

// Event is something that happened to a character while it progressed
type Event struct {
	Type      EventType
	Character *character.Character
	Level     int
	Context   map[string]any
}

// NewEvent creates a new event for the character at a level
func NewEvent(eventType EventType, c *character.Character, level int) *Event {
	return &Event{
		Type:      eventType,
		Character: c,
		Level:     level,
		Context:   make(map[string]any),
	}
}

// WithContext adds context data to the event
func (e *Event) WithContext(key string, value any) *Event {
	e.Context[key] = value
	return e
}

// GetIntContext retrieves an int value from the context
func (e *Event) GetIntContext(key string) (int, bool) {
	val, exists := e.Context[key]
	if !exists {
		return 0, false
	}
	intVal, ok := val.(int)
	return intVal, ok
}

// GetStringContext retrieves a string value from the context
func (e *Event) GetStringContext(key string) (string, bool) {
	val, exists := e.Context[key]
	if !exists {
		return "", false
	}
	strVal, ok := val.(string)
	return strVal, ok
}
