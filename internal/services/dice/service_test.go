package dice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-lore/internal/errors"
	"github.com/KirkDiggler/rpg-lore/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-lore/internal/services/dice"
)

// fixedRoller returns scripted faces in order
type fixedRoller struct {
	faces []int
	next  int
}

func (r *fixedRoller) Roll(_ int) (int, error) {
	f := r.faces[r.next%len(r.faces)]
	r.next++
	return f, nil
}

func (r *fixedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		out[i], _ = r.Roll(size)
	}
	return out, nil
}

type ServiceTestSuite struct {
	suite.Suite
	roller  *fixedRoller
	service dice.Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) SetupTest() {
	s.roller = &fixedRoller{faces: []int{3, 4, 6}}
	svc, err := dice.NewService(&dice.Config{
		Roller:      s.roller,
		IDGenerator: idgen.NewSequential("roll"),
	})
	s.Require().NoError(err)
	s.service = svc
	s.ctx = context.Background()
}

func (s *ServiceTestSuite) TestRollWithModifier() {
	result, err := s.service.Roll(s.ctx, "2d6 + 1")

	s.Require().NoError(err)
	s.Equal("roll_1", result.ID)
	s.Equal("2d6+1", result.Notation)
	s.Equal([]int{3, 4}, result.Dice)
	s.Equal(7, result.DiceTotal)
	s.Equal(1, result.Modifier)
	s.Equal(8, result.Total)
	s.Equal("2d6[3,4]+1=8", result.Description)
}

func (s *ServiceTestSuite) TestNegativeModifier() {
	result, err := s.service.Roll(s.ctx, "3D6-2")

	s.Require().NoError(err)
	s.Equal("3d6-2", result.Notation)
	s.Equal(11, result.Total)
}

func (s *ServiceTestSuite) TestImplicitSingleDie() {
	result, err := s.service.Roll(s.ctx, "d20")

	s.Require().NoError(err)
	s.Equal("1d20", result.Notation)
	s.Len(result.Dice, 1)
}

func (s *ServiceTestSuite) TestInvalidNotation() {
	for _, notation := range []string{"", "banana", "2d", "0d6", "2d0", "1d20+", "101d6", "1d1001"} {
		_, err := s.service.Roll(s.ctx, notation)
		s.True(errors.IsInvalidArgument(err), notation)
	}
}

func (s *ServiceTestSuite) TestCanceled() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.service.Roll(ctx, "1d20")

	s.True(errors.IsCanceled(err))
}

func (s *ServiceTestSuite) TestDefaultRoller() {
	svc, err := dice.NewService(nil)
	s.Require().NoError(err)

	result, err := svc.Roll(s.ctx, "4d6")

	s.Require().NoError(err)
	s.Len(result.Dice, 4)
	for _, d := range result.Dice {
		s.GreaterOrEqual(d, 1)
		s.LessOrEqual(d, 6)
	}
}

func (s *ServiceTestSuite) TestParseNotation() {
	n, err := dice.ParseNotation("1d20+5")

	s.Require().NoError(err)
	s.Equal(dice.Notation{Count: 1, Sides: 20, Modifier: 5}, n)
	s.Equal("1d20+5", n.String())
}
