package worlds

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/world"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type RedisRepoTestSuite struct {
	suite.Suite
	mockClient *redis.Client
	mock       redismock.ClientMock
	repo       Repository
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.mockClient, s.mock = redismock.NewClientMock()
	s.repo = NewRedisRepository(&RedisRepoConfig{
		Client: s.mockClient,
		Now:    func() time.Time { return testNow },
	})
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) TestPutAndGet() {
	ctx := context.Background()
	w := world.New(100, testNow)
	w.Name = "Dragonspine"
	w.Level = 2
	w.MobLevel = 12
	w.RaidStreak = []bool{true, true}

	raw, err := json.Marshal(ToData(w))
	s.Require().NoError(err)

	s.mock.ExpectSet("world:100", string(raw), 0).SetVal("OK")
	s.NoError(s.repo.Put(ctx, w))

	s.mock.ExpectGet("world:100").SetVal(string(raw))
	got, err := s.repo.Get(ctx, 100)
	s.Require().NoError(err)
	s.Equal(w, got)
}

func (s *RedisRepoTestSuite) TestPutError() {
	w := world.New(100, testNow)
	raw, err := json.Marshal(ToData(w))
	s.Require().NoError(err)

	s.mock.ExpectSet("world:100", string(raw), 0).SetErr(errors.New("redis error"))
	s.Error(s.repo.Put(context.Background(), w))

	s.True(dnderr.IsInvalidArgument(s.repo.Put(context.Background(), nil)))
}

func (s *RedisRepoTestSuite) TestGetNotFound() {
	s.mock.ExpectGet("world:5").RedisNil()

	_, err := s.repo.Get(context.Background(), 5)
	s.True(dnderr.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestGetMissingLevel() {
	s.mock.ExpectGet("world:5").SetVal(`{"schema_version":1,"id":5,"mob_level":3}`)

	_, err := s.repo.Get(context.Background(), 5)
	s.True(dnderr.IsDataLoss(err))
}

func (s *RedisRepoTestSuite) TestGetClampsMobLevel() {
	s.mock.ExpectGet("world:5").SetVal(`{"schema_version":1,"id":5,"level":1,"mob_level":900}`)

	got, err := s.repo.Get(context.Background(), 5)
	s.Require().NoError(err)
	s.Equal(50, got.MobLevel)
	s.Equal(testNow, got.LastActive)
	s.Equal([]bool{}, got.RaidStreak)
}

func (s *RedisRepoTestSuite) TestDelete() {
	s.mock.ExpectDel("world:5").SetVal(1)
	s.NoError(s.repo.Delete(context.Background(), 5))

	s.mock.ExpectDel("world:5").SetVal(0)
	s.True(dnderr.IsNotFound(s.repo.Delete(context.Background(), 5)))
}
