package gamedata_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
	"github.com/KirkDiggler/rpg-lore/internal/errors"
	referencecache "github.com/KirkDiggler/rpg-lore/internal/repositories/reference_cache"
	referencecachemock "github.com/KirkDiggler/rpg-lore/internal/repositories/reference_cache/mock"
	"github.com/KirkDiggler/rpg-lore/internal/services/gamedata"
	gamedatamock "github.com/KirkDiggler/rpg-lore/internal/services/gamedata/mock"
)

type CachedTestSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	store  *gamedatamock.MockStore
	repo   *referencecachemock.MockRepository
	cached *gamedata.Cached
	ctx    context.Context
}

func TestCachedSuite(t *testing.T) {
	suite.Run(t, new(CachedTestSuite))
}

func (s *CachedTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = gamedatamock.NewMockStore(s.ctrl)
	s.repo = referencecachemock.NewMockRepository(s.ctrl)
	s.ctx = context.Background()

	cached, err := gamedata.NewCached(&gamedata.CachedConfig{
		Store:      s.store,
		Repository: s.repo,
		TTL:        time.Hour,
		MissTTL:    time.Minute,
	})
	s.Require().NoError(err)
	s.cached = cached
}

func (s *CachedTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CachedTestSuite) key() referencecache.GetInput {
	return referencecache.GetInput{Category: "spells", Name: "Shield", Source: "PHB"}
}

func (s *CachedTestSuite) TestHitSkipsStore() {
	entity := reference.Entity{"name": "Shield"}
	s.repo.EXPECT().Get(s.ctx, s.key()).
		Return(&referencecache.GetOutput{Entry: &referencecache.Entry{Entity: entity}}, nil)

	got, err := s.cached.Find(s.ctx, "spells", "Shield", "PHB")

	s.Require().NoError(err)
	s.Equal(entity, got)
}

func (s *CachedTestSuite) TestRememberedMiss() {
	s.repo.EXPECT().Get(s.ctx, s.key()).
		Return(&referencecache.GetOutput{Entry: &referencecache.Entry{Missing: true}}, nil)

	_, err := s.cached.Find(s.ctx, "spells", "Shield", "PHB")

	s.True(errors.IsNotFound(err))
}

func (s *CachedTestSuite) TestMissLoadsAndStores() {
	entity := reference.Entity{"name": "Shield"}
	s.repo.EXPECT().Get(s.ctx, s.key()).Return(nil, errors.NotFound("miss"))
	s.store.EXPECT().Find(s.ctx, "spells", "Shield", "PHB").Return(entity, nil)
	s.repo.EXPECT().Put(s.ctx, referencecache.PutInput{
		Category: "spells",
		Name:     "Shield",
		Source:   "PHB",
		Entity:   entity,
		TTL:      time.Hour,
	}).Return(&referencecache.PutOutput{}, nil)

	got, err := s.cached.Find(s.ctx, "spells", "Shield", "PHB")

	s.Require().NoError(err)
	s.Equal(entity, got)
}

func (s *CachedTestSuite) TestStoreMissIsRemembered() {
	s.repo.EXPECT().Get(s.ctx, s.key()).Return(nil, errors.NotFound("miss"))
	s.store.EXPECT().Find(s.ctx, "spells", "Shield", "PHB").Return(nil, errors.NotFound("not found"))
	s.repo.EXPECT().Put(s.ctx, referencecache.PutInput{
		Category: "spells",
		Name:     "Shield",
		Source:   "PHB",
		Missing:  true,
		TTL:      time.Minute,
	}).Return(&referencecache.PutOutput{}, nil)

	_, err := s.cached.Find(s.ctx, "spells", "Shield", "PHB")

	s.True(errors.IsNotFound(err))
}

func (s *CachedTestSuite) TestStoreFailureIsNotCached() {
	s.repo.EXPECT().Get(s.ctx, s.key()).Return(nil, errors.NotFound("miss"))
	s.store.EXPECT().Find(s.ctx, "spells", "Shield", "PHB").Return(nil, errors.Unavailable("down"))

	_, err := s.cached.Find(s.ctx, "spells", "Shield", "PHB")

	s.Equal(errors.CodeUnavailable, errors.GetCode(err))
}

func (s *CachedTestSuite) TestBrokenCacheIsBypassed() {
	entity := reference.Entity{"name": "Shield"}
	s.repo.EXPECT().Get(s.ctx, s.key()).Return(nil, errors.Unavailable("redis down"))
	s.store.EXPECT().Find(s.ctx, "spells", "Shield", "PHB").Return(entity, nil)
	s.repo.EXPECT().Put(s.ctx, gomock.Any()).Return(nil, errors.Unavailable("redis down"))

	got, err := s.cached.Find(s.ctx, "spells", "Shield", "PHB")

	s.Require().NoError(err)
	s.Equal(entity, got)
}

func (s *CachedTestSuite) TestInvalidate() {
	s.repo.EXPECT().Delete(s.ctx, referencecache.DeleteInput{Category: "spells", Name: "Shield", Source: "PHB"}).
		Return(&referencecache.DeleteOutput{Deleted: true}, nil)

	s.NoError(s.cached.Invalidate(s.ctx, "spells", "Shield", "PHB"))
}

func (s *CachedTestSuite) TestConfigValidation() {
	_, err := gamedata.NewCached(&gamedata.CachedConfig{})

	s.True(errors.IsInvalidArgument(err))
}
