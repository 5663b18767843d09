package referencecache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
	"github.com/KirkDiggler/rpg-lore/internal/errors"
	"github.com/KirkDiggler/rpg-lore/internal/pkg/clock"
	referencecache "github.com/KirkDiggler/rpg-lore/internal/repositories/reference_cache"
	"github.com/KirkDiggler/rpg-lore/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	clock   *clock.Manual
	repo    referencecache.Repository
	ctx     context.Context
	cleanup func()
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, mr, cleanup := testutils.CreateTestRedisServer(s.T())
	s.mr = mr
	s.cleanup = cleanup
	s.clock = clock.NewManual(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ctx = context.Background()

	repo, err := referencecache.NewRedisRepository(&referencecache.Config{
		Client: client,
		Clock:  s.clock,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) TestPutThenGet() {
	entity := reference.Entity{"name": "Fireball", "source": "PHB", "level": float64(3), "school": "V"}

	put, err := s.repo.Put(s.ctx, referencecache.PutInput{
		Category: "spells",
		Name:     "Fireball",
		Source:   "PHB",
		Entity:   entity,
		TTL:      time.Minute,
	})
	s.Require().NoError(err)
	s.Equal(s.clock.Now(), put.Entry.CachedAt)

	got, err := s.repo.Get(s.ctx, referencecache.GetInput{Category: "spells", Name: "  fireBALL ", Source: "phb"})
	s.Require().NoError(err)
	s.Equal(entity, got.Entry.Entity)
	s.False(got.Entry.Missing)

	s.True(s.mr.Exists("reference:spells:phb:fireball"))
	s.Equal(time.Minute, s.mr.TTL("reference:spells:phb:fireball"))
}

func (s *RedisRepositoryTestSuite) TestGetMiss() {
	_, err := s.repo.Get(s.ctx, referencecache.GetInput{Category: "spells", Name: "Wish"})

	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestEntriesExpire() {
	_, err := s.repo.Put(s.ctx, referencecache.PutInput{
		Category: "conditions",
		Name:     "Blinded",
		Entity:   reference.Entity{"name": "Blinded"},
		TTL:      time.Minute,
	})
	s.Require().NoError(err)

	s.mr.FastForward(2 * time.Minute)

	_, err = s.repo.Get(s.ctx, referencecache.GetInput{Category: "conditions", Name: "Blinded"})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestDefaultSourceAndTTL() {
	_, err := s.repo.Put(s.ctx, referencecache.PutInput{
		Category: "spells",
		Name:     "Shield",
		Entity:   reference.Entity{"name": "Shield"},
	})
	s.Require().NoError(err)

	s.Equal(time.Hour, s.mr.TTL("reference:spells:phb:shield"))
}

func (s *RedisRepositoryTestSuite) TestMissingEntry() {
	_, err := s.repo.Put(s.ctx, referencecache.PutInput{
		Category: "feats",
		Name:     "Nonexistent",
		Missing:  true,
	})
	s.Require().NoError(err)

	got, err := s.repo.Get(s.ctx, referencecache.GetInput{Category: "feats", Name: "Nonexistent"})
	s.Require().NoError(err)
	s.True(got.Entry.Missing)
	s.Nil(got.Entry.Entity)
}

func (s *RedisRepositoryTestSuite) TestPutValidation() {
	s.Run("category required", func() {
		_, err := s.repo.Put(s.ctx, referencecache.PutInput{Name: "Fireball", Entity: reference.Entity{}})
		s.True(errors.IsInvalidArgument(err))
	})
	s.Run("name required", func() {
		_, err := s.repo.Put(s.ctx, referencecache.PutInput{Category: "spells", Name: "  ", Entity: reference.Entity{}})
		s.True(errors.IsInvalidArgument(err))
	})
	s.Run("entity or miss required", func() {
		_, err := s.repo.Put(s.ctx, referencecache.PutInput{Category: "spells", Name: "Fireball"})
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *RedisRepositoryTestSuite) TestCorruptEntryIsDropped() {
	s.Require().NoError(s.mr.Set("reference:spells:phb:fireball", "{not json"))

	_, err := s.repo.Get(s.ctx, referencecache.GetInput{Category: "spells", Name: "Fireball"})

	s.Error(err)
	s.False(s.mr.Exists("reference:spells:phb:fireball"))
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	_, err := s.repo.Put(s.ctx, referencecache.PutInput{
		Category: "spells",
		Name:     "Shield",
		Entity:   reference.Entity{"name": "Shield"},
	})
	s.Require().NoError(err)

	out, err := s.repo.Delete(s.ctx, referencecache.DeleteInput{Category: "spells", Name: "Shield"})
	s.Require().NoError(err)
	s.True(out.Deleted)

	out, err = s.repo.Delete(s.ctx, referencecache.DeleteInput{Category: "spells", Name: "Shield"})
	s.Require().NoError(err)
	s.False(out.Deleted)
}

func (s *RedisRepositoryTestSuite) TestUnavailable() {
	s.mr.Close()

	_, err := s.repo.Get(s.ctx, referencecache.GetInput{Category: "spells", Name: "Shield"})

	s.Equal(errors.CodeUnavailable, errors.GetCode(err))
}
