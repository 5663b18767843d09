// Package markup renders the inline `{@kind field1|field2|...}` tag language
// used throughout game text.
//
// Reference tags (spell, item, creature, ...) become lazy hover anchors that
// only carry type, name and source; nothing is resolved at render time.
// Formatting tags (bold, dice, dc, ...) become plain inline HTML.
package markup
