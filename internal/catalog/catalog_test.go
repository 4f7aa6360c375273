package catalog_test

import (
	"testing"
	"testing/fstest"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/catalog"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/dice"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/character"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/equipment"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CatalogTestSuite struct {
	suite.Suite
	catalog *catalog.Catalog
}

func (s *CatalogTestSuite) SetupSuite() {
	c, err := catalog.Default()
	s.Require().NoError(err)
	s.catalog = c
}

func (s *CatalogTestSuite) TestStarterWeaponPresent() {
	t, err := s.catalog.Item(character.StarterWeaponKey)
	s.Require().NoError(err)
	s.Equal(equipment.SlotWeapon, t.Category)
}

func (s *CatalogTestSuite) TestUnknownKeysAreNotFound() {
	_, err := s.catalog.Item("excalibur")
	s.True(dnderr.IsNotFound(err))

	_, err = s.catalog.Legendary("excalibur")
	s.True(dnderr.IsNotFound(err))

	_, err = s.catalog.Monster("dragon_god")
	s.True(dnderr.IsNotFound(err))
}

func (s *CatalogTestSuite) TestEveryJobLoaded() {
	jobs := s.catalog.Jobs()
	s.Require().Len(jobs, len(character.Jobs))
	for i, j := range character.Jobs {
		s.Equal(j, jobs[i].Key)
	}

	novice, err := s.catalog.Job(character.JobNovice)
	s.Require().NoError(err)
	s.InDelta(1.5, novice.Mods.Luk, 0.0001)
}

func (s *CatalogTestSuite) TestLegendaryCoversEverySetAndSlot() {
	seen := make(map[equipment.Set]map[equipment.Slot]bool)
	for _, key := range s.catalog.LegendaryKeys() {
		t, err := s.catalog.Legendary(key)
		s.Require().NoError(err)
		if seen[t.Set] == nil {
			seen[t.Set] = make(map[equipment.Slot]bool)
		}
		seen[t.Set][t.Category] = true
	}

	for _, set := range []equipment.Set{equipment.SetBehemoth, equipment.SetLeviathan, equipment.SetTiamat} {
		s.Len(seen[set], len(equipment.Slots), "set %s", set)
	}
}

func (s *CatalogTestSuite) TestMonsterDropsResolve() {
	for _, key := range s.catalog.MonsterKeys() {
		m, err := s.catalog.Monster(key)
		s.Require().NoError(err)
		for _, drop := range m.Drops {
			_, err := s.catalog.Item(drop)
			s.NoError(err, "monster %s drop %s", key, drop)
		}
	}
}

func (s *CatalogTestSuite) TestRandomPicksAreSeedStable() {
	a := s.catalog.RandomMonster(dice.NewSeededRoller(7))
	b := s.catalog.RandomMonster(dice.NewSeededRoller(7))
	s.Equal(a.Key, b.Key)

	i := s.catalog.RandomItem(dice.NewSeededRoller(7))
	j := s.catalog.RandomItem(dice.NewSeededRoller(7))
	s.Equal(i.Key, j.Key)
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogTestSuite))
}

func TestLoadRejectsUnknownDrop(t *testing.T) {
	fsys := minimalFS()
	fsys["monsters.yaml"] = &fstest.MapFile{Data: []byte(`
monsters:
  - key: rat
    name: Rat
    mods: {str_mod: 1, dex_mod: 1, con_mod: 1, wis_mod: 1, luk_mod: 1}
    drops: [missing_item]
`)}

	_, err := catalog.Load(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing_item")
}

func TestLoadRequiresStarterWeapon(t *testing.T) {
	fsys := minimalFS()
	fsys["items.yaml"] = &fstest.MapFile{Data: []byte(`
items:
  - key: pebble
    name: Pebble
    category: weapon
    stats: {str: 1}
`)}
	fsys["monsters.yaml"] = &fstest.MapFile{Data: []byte(`
monsters:
  - key: rat
    name: Rat
    mods: {str_mod: 1, dex_mod: 1, con_mod: 1, wis_mod: 1, luk_mod: 1}
`)}

	_, err := catalog.Load(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), character.StarterWeaponKey)
}

func TestLoadMinimal(t *testing.T) {
	c, err := catalog.Load(minimalFS())
	require.NoError(t, err)

	rat, err := c.Monster("rat")
	require.NoError(t, err)
	assert.Equal(t, []string{"wood_stick"}, rat.Drops)
	assert.Empty(t, c.LegendaryKeys())
}

func minimalFS() fstest.MapFS {
	jobs := "jobs:\n"
	for _, j := range character.Jobs {
		jobs += "  - key: " + string(j) + "\n" +
			"    name: " + string(j) + "\n" +
			"    mods: {str_mod: 1, dex_mod: 1, con_mod: 1, wis_mod: 1, luk_mod: 1.5}\n"
	}

	return fstest.MapFS{
		"items.yaml": &fstest.MapFile{Data: []byte(`
items:
  - key: wood_stick
    name: Wooden Stick
    category: weapon
    stats: {str: 1}
`)},
		"legendary.yaml": &fstest.MapFile{Data: []byte("legendary: []\n")},
		"monsters.yaml": &fstest.MapFile{Data: []byte(`
monsters:
  - key: rat
    name: Rat
    mods: {str_mod: 1, dex_mod: 1, con_mod: 1, wis_mod: 1, luk_mod: 1}
    drops: [wood_stick]
`)},
		"jobs.yaml": &fstest.MapFile{Data: []byte(jobs)},
	}
}
