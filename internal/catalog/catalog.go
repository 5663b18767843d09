// Package catalog serves reference entities from local data files
package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
	"github.com/KirkDiggler/rpg-lore/internal/errors"
)

// categoryAliases maps 5etools file keys and plural forms onto lookup categories
var categoryAliases = map[string]string{
	"action":           "actions",
	"actions":          "actions",
	"background":       "backgrounds",
	"backgrounds":      "backgrounds",
	"class":            "classes",
	"classes":          "classes",
	"condition":        "conditions",
	"conditions":       "conditions",
	"feat":             "feats",
	"feats":            "feats",
	"optionalfeature":  "optionalfeatures",
	"optionalfeatures": "optionalfeatures",
	"classfeature":     "optionalfeatures",
	"subclassfeature":  "optionalfeatures",
	"item":             "items",
	"items":            "items",
	"baseitem":         "items",
	"monster":          "monsters",
	"monsters":         "monsters",
	"race":             "races",
	"races":            "races",
	"skill":            "skills",
	"skills":           "skills",
	"spell":            "spells",
	"spells":           "spells",
	"variantrule":      "variantrules",
	"variantrules":     "variantrules",
}

// sourceless categories match by name alone
var sourceless = map[string]bool{
	"conditions": true,
	"skills":     true,
}

// Config holds catalog options
type Config struct {
	// Dir is scanned for *.json, *.jsonc, *.yaml and *.yml files
	Dir    string
	Logger *slog.Logger
}

// Validate checks the directory is set
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("Dir", c.Dir, vb)
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return vb.Build()
}

// Catalog is an in-memory index of entities by category and normalized name
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]map[string][]reference.Entity
	logger  *slog.Logger
}

// New creates an empty catalog
func New(logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		entries: make(map[string]map[string][]reference.Entity),
		logger:  logger,
	}
}

// Load creates a catalog from every data file in cfg.Dir
func Load(cfg *Config) (*Catalog, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := New(cfg.Logger)
	if err := c.LoadDir(cfg.Dir); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadDir adds every data file in dir. Files load in name order so later
// files win ties on source.
func (c *Catalog) LoadDir(dir string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, "failed to read catalog directory %s", dir)
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		if f.IsDir() || formatOf(f.Name()) == "" {
			continue
		}
		names = append(names, f.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		if err := c.LoadFile(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile adds the entities in one data file
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 // operator-supplied catalog path
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}
	count, err := c.LoadBytes(formatOf(path), data)
	if err != nil {
		return errors.Wrapf(err, "failed to load %s", path)
	}
	c.logger.Info("loaded catalog file", "path", path, "entities", count)
	return nil
}

// LoadBytes adds entities from an in-memory document. Format is one of
// json, jsonc or yaml.
func (c *Catalog) LoadBytes(format string, data []byte) (int, error) {
	doc, err := decode(format, data)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for key, value := range doc {
		category, ok := categoryAliases[strings.ToLower(key)]
		if !ok {
			c.logger.Debug("skipping unknown catalog key", "key", key)
			continue
		}
		list, ok := value.([]any)
		if !ok {
			return count, errors.InvalidArgumentf("catalog key %s must be a list", key)
		}
		for _, item := range list {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			entity := reference.Entity(obj)
			name := reference.NormalizeName(entity.Name())
			if name == "" {
				continue
			}
			if c.entries[category] == nil {
				c.entries[category] = make(map[string][]reference.Entity)
			}
			c.entries[category][name] = append(c.entries[category][name], entity)
			count++
		}
	}
	return count, nil
}

// Add indexes a single entity
func (c *Catalog) Add(category string, entity reference.Entity) {
	name := reference.NormalizeName(entity.Name())
	if name == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[category] == nil {
		c.entries[category] = make(map[string][]reference.Entity)
	}
	c.entries[category][name] = append(c.entries[category][name], entity)
}

// Len reports how many entities a category holds
func (c *Catalog) Len(category string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, list := range c.entries[category] {
		n += len(list)
	}
	return n
}

// Find returns the entity with the given name, preferring an exact source
// match and otherwise the first one loaded
func (c *Catalog) Find(_ context.Context, category, name, source string) (reference.Entity, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	candidates := c.entries[category][reference.NormalizeName(name)]
	if len(candidates) == 0 {
		return nil, errors.NotFoundf("%s %q not in catalog", category, name)
	}

	if !sourceless[category] && source != "" {
		for _, e := range candidates {
			if strings.EqualFold(e.Source(), source) {
				return e, nil
			}
		}
	}
	return candidates[0], nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".jsonc":
		return "jsonc"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

func decode(format string, data []byte) (map[string]any, error) {
	var doc map[string]any
	switch format {
	case "json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid json")
		}
	case "jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid jsonc")
		}
	case "yaml":
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid yaml")
		}
		normalized, _ := normalizeYAML(raw).(map[string]any)
		doc = normalized
	default:
		return nil, errors.InvalidArgumentf("unsupported catalog format %q", format)
	}
	return doc, nil
}

// normalizeYAML makes YAML values look like decoded JSON: numbers become
// float64 and maps have string keys
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeYAML(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[toString(k)] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeYAML(val)
		}
		return out
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, _ := json.Marshal(v)
	return string(data)
}
