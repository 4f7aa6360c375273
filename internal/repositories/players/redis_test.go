package players

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/character"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/equipment"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/stats"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testPlayer() *character.Player {
	p := character.NewPlayer(42, testNow)
	p.Name = "Aria"
	item := equipment.NewItem("item-1", &equipment.Template{
		Key:      "wood_stick",
		Name:     "Wood Stick",
		Category: equipment.SlotWeapon,
		Stats:    stats.Block{Str: 1},
	}, 1)
	_ = p.AddItem(item)
	_ = p.Equip("item-1")
	p.Chest = 2
	return p
}

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

func (s *RedisRepoTestSuite) encoded(p *character.Player) string {
	raw, err := json.Marshal(ToData(p))
	s.Require().NoError(err)
	return string(raw)
}

func (s *RedisRepoTestSuite) TestPut() {
	ctx := context.Background()
	p := testPlayer()

	// Happy path
	s.mock.ExpectSet("player:42", s.encoded(p), 0).SetVal("OK")
	s.mock.ExpectSAdd("players", "42").SetVal(1)

	s.NoError(s.repo.Put(ctx, p))

	// Dependency error
	s.mock.ExpectSet("player:42", s.encoded(p), 0).SetErr(errors.New("redis error"))

	s.Error(s.repo.Put(ctx, p))

	// Input validation
	err := s.repo.Put(ctx, nil)
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *RedisRepoTestSuite) TestGet() {
	ctx := context.Background()
	p := testPlayer()

	s.mock.ExpectGet("player:42").SetVal(s.encoded(p))

	got, err := s.repo.Get(ctx, 42)
	s.Require().NoError(err)
	s.Equal("Aria", got.Name)
	s.Equal(2, got.Chest)
	s.Equal("item-1", got.Equipment[equipment.SlotWeapon])
	s.Equal(p.EquipmentStats, got.EquipmentStats)
	s.Equal(p.Health, got.Health)
	s.Equal([]string{"item-1"}, got.Inventory)
}

func (s *RedisRepoTestSuite) TestGetNotFound() {
	s.mock.ExpectGet("player:7").RedisNil()

	_, err := s.repo.Get(context.Background(), 7)
	s.True(dnderr.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestGetCorruptRecord() {
	s.mock.ExpectGet("player:7").SetVal("{not json")

	_, err := s.repo.Get(context.Background(), 7)
	s.True(dnderr.IsDataLoss(err))
}

func (s *RedisRepoTestSuite) TestGetMissingCurrency() {
	s.mock.ExpectGet("player:7").SetVal(`{"schema_version":1,"id":7,"job":"novice","chest":0,"equipment":{},"inventory":[],"items":{}}`)

	_, err := s.repo.Get(context.Background(), 7)
	s.Require().Error(err)
	s.True(dnderr.IsDataLoss(err))
	s.Equal("soulshard", dnderr.GetMeta(err)["field"])
}

func (s *RedisRepoTestSuite) TestDelete() {
	ctx := context.Background()

	s.mock.ExpectDel("player:42").SetVal(1)
	s.mock.ExpectSRem("players", "42").SetVal(1)
	s.NoError(s.repo.Delete(ctx, 42))

	s.mock.ExpectDel("player:42").SetVal(0)
	s.mock.ExpectSRem("players", "42").SetVal(0)
	s.True(dnderr.IsNotFound(s.repo.Delete(ctx, 42)))
}

func (s *RedisRepoTestSuite) TestList() {
	s.mock.MatchExpectationsInOrder(false)
	p := testPlayer()

	s.mock.ExpectSMembers("players").SetVal([]string{"42", "43"})
	s.mock.ExpectGet("player:42").SetVal(s.encoded(p))
	s.mock.ExpectGet("player:43").RedisNil()

	got, err := s.repo.List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(int64(42), got[0].ID)
}
