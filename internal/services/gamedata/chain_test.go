package gamedata_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
	"github.com/KirkDiggler/rpg-lore/internal/errors"
	"github.com/KirkDiggler/rpg-lore/internal/services/gamedata"
	gamedatamock "github.com/KirkDiggler/rpg-lore/internal/services/gamedata/mock"
)

type ChainTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	primary  *gamedatamock.MockStore
	fallback *gamedatamock.MockStore
	chain    *gamedata.Chain
	ctx      context.Context
}

func TestChainSuite(t *testing.T) {
	suite.Run(t, new(ChainTestSuite))
}

func (s *ChainTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.primary = gamedatamock.NewMockStore(s.ctrl)
	s.fallback = gamedatamock.NewMockStore(s.ctrl)
	s.chain = gamedata.NewChain(s.primary, nil, s.fallback)
	s.ctx = context.Background()
}

func (s *ChainTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ChainTestSuite) TestSkipsNilStores() {
	s.Equal(2, s.chain.Len())
}

func (s *ChainTestSuite) TestFirstHitWins() {
	entity := reference.Entity{"name": "Shield"}
	s.primary.EXPECT().Find(s.ctx, "spells", "Shield", "PHB").Return(entity, nil)

	got, err := s.chain.Find(s.ctx, "spells", "Shield", "PHB")

	s.Require().NoError(err)
	s.Equal(entity, got)
}

func (s *ChainTestSuite) TestMissFallsThrough() {
	entity := reference.Entity{"name": "Shield", "source": "SRD"}
	s.primary.EXPECT().Find(s.ctx, "spells", "Shield", "PHB").Return(nil, errors.NotFound("nope"))
	s.fallback.EXPECT().Find(s.ctx, "spells", "Shield", "PHB").Return(entity, nil)

	got, err := s.chain.Find(s.ctx, "spells", "Shield", "PHB")

	s.Require().NoError(err)
	s.Equal(entity, got)
}

func (s *ChainTestSuite) TestNilEntityFallsThrough() {
	s.primary.EXPECT().Find(s.ctx, "feats", "Alert", "PHB").Return(nil, nil)
	s.fallback.EXPECT().Find(s.ctx, "feats", "Alert", "PHB").Return(nil, errors.NotFound("nope"))

	_, err := s.chain.Find(s.ctx, "feats", "Alert", "PHB")

	s.True(errors.IsNotFound(err))
}

func (s *ChainTestSuite) TestFailureStopsTheChain() {
	s.primary.EXPECT().Find(s.ctx, "spells", "Shield", "PHB").Return(nil, errors.Unavailable("down"))

	_, err := s.chain.Find(s.ctx, "spells", "Shield", "PHB")

	s.Equal(errors.CodeUnavailable, errors.GetCode(err))
}

func (s *ChainTestSuite) TestEmptyChain() {
	_, err := gamedata.NewChain().Find(s.ctx, "spells", "Shield", "PHB")

	s.True(errors.IsNotFound(err))
}
