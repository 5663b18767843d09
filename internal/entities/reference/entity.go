package reference

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// Entity is a lookup payload of unknown shape, typically decoded JSON in the
// 5etools style (name, source, entries, plus category specific fields).
type Entity map[string]any

// Has reports whether the field is present with a non-nil value
func (e Entity) Has(field string) bool {
	v, ok := e[field]
	return ok && v != nil
}

// String returns a field rendered as a string. Numbers are formatted, other
// types report false.
func (e Entity) String(field string) (string, bool) {
	switch v := e[field].(type) {
	case string:
		return v, true
	case float64:
		return strings.TrimSuffix(fmt.Sprintf("%g", v), ".0"), true
	case int:
		return fmt.Sprintf("%d", v), true
	case int64:
		return fmt.Sprintf("%d", v), true
	case bool:
		return fmt.Sprintf("%t", v), true
	default:
		return "", false
	}
}

// Name returns the entity name or an empty string
func (e Entity) Name() string {
	name, _ := e.String("name")
	return name
}

// Source returns the entity source or an empty string
func (e Entity) Source() string {
	source, _ := e.String("source")
	return source
}

// Entries returns the free-form entries list, or nil when missing or not a list
func (e Entity) Entries() []any {
	entries, _ := e["entries"].([]any)
	return entries
}

// Result is the only shape that crosses the resolver boundary: either Entity
// is set, or Error carries a renderable message.
type Result struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Source string `json:"source,omitempty"`
	Entity Entity `json:"entity,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Found builds a successful result
func Found(entityType, name, source string, entity Entity) *Result {
	return &Result{Type: entityType, Name: name, Source: source, Entity: entity}
}

// Failed builds a structured error result
func Failed(entityType, name, source, message string) *Result {
	return &Result{Type: entityType, Name: name, Source: source, Error: message}
}

// OK reports whether the result carries an entity
func (r *Result) OK() bool {
	return r != nil && r.Error == "" && r.Entity != nil
}

// Key returns the reference key of the resolved type and name
func (r *Result) Key() Key {
	return NewKey(r.Type, r.Name)
}

// GetID returns the reference key string
func (r *Result) GetID() string {
	return r.Key().String()
}

// GetType returns the entity type that was resolved
func (r *Result) GetType() string {
	return r.Type
}

var _ core.Entity = (*Result)(nil)
