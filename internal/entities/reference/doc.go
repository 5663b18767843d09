// Package reference holds the value types shared by the markup, resolver,
// entity view and tooltip packages: tag tokens, reference keys, entity
// payloads and resolution results.
package reference
