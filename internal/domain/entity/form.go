package entity

// ActionKind is the kind of interaction the actuator performs on a field.
type ActionKind string

const (
	ActionType   ActionKind = "type"
	ActionSelect ActionKind = "select"
	ActionClick  ActionKind = "click"
)

// FormField describes one field observed on a booking page. FieldID is an
// opaque locator the actuator can resolve; callers must not interpret it.
type FormField struct {
	Label     string `json:"label"`
	FieldID   string `json:"fieldId"`
	FieldType string `json:"fieldType"`
	Required  bool   `json:"required"`
}

// FieldAssignment is a concrete instruction to place a value into a field.
type FieldAssignment struct {
	FieldID string     `json:"fieldId"`
	Value   string     `json:"value"`
	Action  ActionKind `json:"action"`
}
