// Package dice rolls the notation carried by roll anchors
package dice

//go:generate mockgen -destination=mock/mock_service.go -package=dicemock github.com/KirkDiggler/rpg-lore/internal/services/dice Service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-lore/internal/errors"
	"github.com/KirkDiggler/rpg-lore/internal/pkg/idgen"
)

const (
	// MaxDice caps the number of dice in one roll
	MaxDice = 100
	// MaxSides caps die size
	MaxSides = 1000
)

// Regex for notation like "2d6", "d20", "1d20+5", "8d6-1"
var diceNotationRegex = regexp.MustCompile(`^(\d*)d(\d+)([+-]\d+)?$`)

// Service rolls dice notation
type Service interface {
	Roll(ctx context.Context, notation string) (*RollResult, error)
}

// RollResult is a single evaluated roll
type RollResult struct {
	ID          string `json:"id"`
	Notation    string `json:"notation"`
	Dice        []int  `json:"dice"`
	DiceTotal   int    `json:"dice_total"`
	Modifier    int    `json:"modifier"`
	Total       int    `json:"total"`
	Description string `json:"description"`
}

// Config holds the dependencies for the dice service
type Config struct {
	// Roller defaults to the toolkit's crypto roller
	Roller      dice.Roller
	IDGenerator idgen.Generator
	Logger      *slog.Logger
}

// Validate fills defaults
func (c *Config) Validate() error {
	if c.Roller == nil {
		c.Roller = dice.DefaultRoller
	}
	if c.IDGenerator == nil {
		c.IDGenerator = idgen.NewULID("roll")
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return nil
}

type service struct {
	roller dice.Roller
	idGen  idgen.Generator
	logger *slog.Logger
}

// NewService creates a dice service
func NewService(cfg *Config) (Service, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &service{
		roller: cfg.Roller,
		idGen:  cfg.IDGenerator,
		logger: cfg.Logger,
	}, nil
}

// Notation is parsed dice notation
type Notation struct {
	Count    int
	Sides    int
	Modifier int
}

// String renders the canonical form, e.g. 1d20+5
func (n Notation) String() string {
	s := fmt.Sprintf("%dd%d", n.Count, n.Sides)
	if n.Modifier != 0 {
		s += fmt.Sprintf("%+d", n.Modifier)
	}
	return s
}

// ParseNotation parses NdS[+/-M]. Whitespace and case are ignored and a
// missing count means one die.
func ParseNotation(notation string) (Notation, error) {
	compact := strings.ToLower(strings.Join(strings.Fields(notation), ""))
	matches := diceNotationRegex.FindStringSubmatch(compact)
	if matches == nil {
		return Notation{}, errors.InvalidArgumentf("invalid dice notation: %s (expected format: NdS+M)", notation)
	}

	n := Notation{Count: 1}
	var err error
	if matches[1] != "" {
		if n.Count, err = strconv.Atoi(matches[1]); err != nil {
			return Notation{}, errors.InvalidArgumentf("invalid dice count in notation: %s", notation)
		}
	}
	if n.Sides, err = strconv.Atoi(matches[2]); err != nil {
		return Notation{}, errors.InvalidArgumentf("invalid die size in notation: %s", notation)
	}
	if matches[3] != "" {
		if n.Modifier, err = strconv.Atoi(matches[3]); err != nil {
			return Notation{}, errors.InvalidArgumentf("invalid modifier in notation: %s", notation)
		}
	}

	if n.Count <= 0 || n.Sides <= 0 {
		return Notation{}, errors.InvalidArgumentf("dice count and size must be positive: %s", notation)
	}
	if n.Count > MaxDice || n.Sides > MaxSides {
		return Notation{}, errors.InvalidArgumentf("at most %dd%d per roll: %s", MaxDice, MaxSides, notation)
	}
	return n, nil
}

// Roll evaluates the notation
func (s *service) Roll(ctx context.Context, notation string) (*RollResult, error) {
	if strings.TrimSpace(notation) == "" {
		return nil, errors.InvalidArgument("dice notation is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.GetCode(err), "roll canceled")
	}

	parsed, err := ParseNotation(notation)
	if err != nil {
		return nil, err
	}

	rolls, err := s.roller.RollN(parsed.Count, parsed.Sides)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll dice")
	}

	diceTotal := 0
	faces := make([]string, len(rolls))
	for i, r := range rolls {
		diceTotal += r
		faces[i] = strconv.Itoa(r)
	}

	result := &RollResult{
		ID:        s.idGen.Generate(),
		Notation:  parsed.String(),
		Dice:      rolls,
		DiceTotal: diceTotal,
		Modifier:  parsed.Modifier,
		Total:     diceTotal + parsed.Modifier,
	}

	description := fmt.Sprintf("%dd%d[%s]", parsed.Count, parsed.Sides, strings.Join(faces, ","))
	if parsed.Modifier != 0 {
		description += fmt.Sprintf("%+d", parsed.Modifier)
	}
	result.Description = fmt.Sprintf("%s=%d", description, result.Total)

	s.logger.Debug("dice rolled",
		"notation", result.Notation,
		"total", result.Total,
		"roll_id", result.ID)

	return result, nil
}
