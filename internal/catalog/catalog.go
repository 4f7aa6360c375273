package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/dice"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/character"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/equipment"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var defaultData embed.FS

const (
	itemsFile     = "items.yaml"
	legendaryFile = "legendary.yaml"
	monstersFile  = "monsters.yaml"
	jobsFile      = "jobs.yaml"
)

type itemsDoc struct {
	Items []*equipment.Template `yaml:"items"`
}

type legendaryDoc struct {
	Legendary []*equipment.Template `yaml:"legendary"`
}

type monstersDoc struct {
	Monsters []*character.MonsterTemplate `yaml:"monsters"`
}

type jobsDoc struct {
	Jobs []*character.JobTemplate `yaml:"jobs"`
}

// Catalog is the read-only set of item, monster and job templates.
// Keys are kept in file order so random picks are reproducible for a seed.
type Catalog struct {
	items        map[string]*equipment.Template
	itemKeys     []string
	legendary    map[string]*equipment.Template
	legendaryKey []string
	monsters     map[string]*character.MonsterTemplate
	monsterKeys  []string
	jobs         map[character.Job]*character.JobTemplate
}

// Default loads the catalog compiled into the binary
func Default() (*Catalog, error) {
	sub, err := fs.Sub(defaultData, "data")
	if err != nil {
		return nil, fmt.Errorf("opening embedded catalog: %w", err)
	}
	return Load(sub)
}

// LoadDir loads a catalog from yaml files on disk
func LoadDir(dir string) (*Catalog, error) {
	return Load(os.DirFS(dir))
}

// Load parses items.yaml, legendary.yaml, monsters.yaml and jobs.yaml from fsys
// and validates cross references between them.
func Load(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{
		items:     make(map[string]*equipment.Template),
		legendary: make(map[string]*equipment.Template),
		monsters:  make(map[string]*character.MonsterTemplate),
		jobs:      make(map[character.Job]*character.JobTemplate),
	}

	var items itemsDoc
	if err := decode(fsys, itemsFile, &items); err != nil {
		return nil, err
	}
	for _, t := range items.Items {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", itemsFile, err)
		}
		if t.Set.Legendary() {
			return nil, fmt.Errorf("%s: item %q belongs to a legendary set, move it to %s", itemsFile, t.Key, legendaryFile)
		}
		if _, dup := c.items[t.Key]; dup {
			return nil, fmt.Errorf("%s: duplicate item key %q", itemsFile, t.Key)
		}
		c.items[t.Key] = t
		c.itemKeys = append(c.itemKeys, t.Key)
	}

	var legendary legendaryDoc
	if err := decode(fsys, legendaryFile, &legendary); err != nil {
		return nil, err
	}
	for _, t := range legendary.Legendary {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", legendaryFile, err)
		}
		if !t.Set.Legendary() {
			return nil, fmt.Errorf("%s: item %q has no legendary set", legendaryFile, t.Key)
		}
		if _, dup := c.legendary[t.Key]; dup {
			return nil, fmt.Errorf("%s: duplicate legendary key %q", legendaryFile, t.Key)
		}
		c.legendary[t.Key] = t
		c.legendaryKey = append(c.legendaryKey, t.Key)
	}

	var monsters monstersDoc
	if err := decode(fsys, monstersFile, &monsters); err != nil {
		return nil, err
	}
	for _, t := range monsters.Monsters {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", monstersFile, err)
		}
		for _, drop := range t.Drops {
			if _, ok := c.items[drop]; !ok {
				return nil, fmt.Errorf("%s: monster %q drops unknown item %q", monstersFile, t.Key, drop)
			}
		}
		c.monsters[t.Key] = t
		c.monsterKeys = append(c.monsterKeys, t.Key)
	}
	if len(c.monsterKeys) == 0 {
		return nil, fmt.Errorf("%s: at least one monster is required", monstersFile)
	}

	var jobs jobsDoc
	if err := decode(fsys, jobsFile, &jobs); err != nil {
		return nil, err
	}
	for _, t := range jobs.Jobs {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", jobsFile, err)
		}
		c.jobs[t.Key] = t
	}
	for _, j := range character.Jobs {
		if _, ok := c.jobs[j]; !ok {
			return nil, fmt.Errorf("%s: missing job %q", jobsFile, j)
		}
	}

	if _, ok := c.items[character.StarterWeaponKey]; !ok {
		return nil, fmt.Errorf("%s: starter weapon %q is required", itemsFile, character.StarterWeaponKey)
	}

	return c, nil
}

func decode(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// Item returns a regular item template
func (c *Catalog) Item(key string) (*equipment.Template, error) {
	t, ok := c.items[key]
	if !ok {
		return nil, dnderr.NotFoundf("item %q not found in catalog", key).
			WithMeta("key", key)
	}
	return t, nil
}

// Legendary returns a legendary set template
func (c *Catalog) Legendary(key string) (*equipment.Template, error) {
	t, ok := c.legendary[key]
	if !ok {
		return nil, dnderr.NotFoundf("legendary item %q not found in catalog", key).
			WithMeta("key", key)
	}
	return t, nil
}

// Monster returns a monster archetype
func (c *Catalog) Monster(key string) (*character.MonsterTemplate, error) {
	t, ok := c.monsters[key]
	if !ok {
		return nil, dnderr.NotFoundf("monster %q not found in catalog", key).
			WithMeta("key", key)
	}
	return t, nil
}

// Job returns the template for a job
func (c *Catalog) Job(job character.Job) (*character.JobTemplate, error) {
	t, ok := c.jobs[job]
	if !ok {
		return nil, dnderr.NotFoundf("job %q not found in catalog", job).
			WithMeta("key", string(job))
	}
	return t, nil
}

// Jobs returns every job template in advancement-menu order
func (c *Catalog) Jobs() []*character.JobTemplate {
	out := make([]*character.JobTemplate, 0, len(character.Jobs))
	for _, j := range character.Jobs {
		out = append(out, c.jobs[j])
	}
	return out
}

// ItemKeys lists regular item keys in file order
func (c *Catalog) ItemKeys() []string {
	return append([]string(nil), c.itemKeys...)
}

// LegendaryKeys lists legendary keys in file order
func (c *Catalog) LegendaryKeys() []string {
	return append([]string(nil), c.legendaryKey...)
}

// MonsterKeys lists monster keys in file order
func (c *Catalog) MonsterKeys() []string {
	return append([]string(nil), c.monsterKeys...)
}

// RandomMonster picks an archetype uniformly
func (c *Catalog) RandomMonster(r dice.Roller) *character.MonsterTemplate {
	return c.monsters[c.monsterKeys[r.Intn(len(c.monsterKeys))]]
}

// RandomItem picks a regular item template uniformly
func (c *Catalog) RandomItem(r dice.Roller) *equipment.Template {
	return c.items[c.itemKeys[r.Intn(len(c.itemKeys))]]
}
