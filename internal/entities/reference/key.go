package reference

import "strings"

// Key identifies a logical entity for circular-reference detection. Source is
// not part of the key: the same spell from two books is still the same chain
// link.
type Key struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// NewKey builds a key with the name lower-cased and whitespace collapsed.
// The type is kept exactly as given.
func NewKey(entityType, name string) Key {
	return Key{
		Type: entityType,
		Name: NormalizeName(name),
	}
}

// NormalizeName lower-cases a name and collapses runs of whitespace
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// IsZero reports whether the key is unset
func (k Key) IsZero() bool {
	return k.Type == "" && k.Name == ""
}

// String renders the key as type:name
func (k Key) String() string {
	return k.Type + ":" + k.Name
}
