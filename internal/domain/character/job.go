package character

import (
	"fmt"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/stats"
)

// Job is the closed set of classes a player can hold
type Job string

const (
	JobNovice    Job = "novice"
	JobPaladin   Job = "paladin"
	JobBerserker Job = "berserker"
	JobRogue     Job = "rogue"
	JobWizard    Job = "wizard"
	JobBishop    Job = "bishop"
)

// Jobs lists every job in advancement-menu order
var Jobs = []Job{JobNovice, JobPaladin, JobBerserker, JobRogue, JobWizard, JobBishop}

// ParseJob fails closed on unknown keys
func ParseJob(key string) (Job, error) {
	for _, j := range Jobs {
		if Job(key) == j {
			return j, nil
		}
	}
	return "", fmt.Errorf("unknown job %q", key)
}

// JobTemplate is the catalog entry for a job
type JobTemplate struct {
	Key         Job             `yaml:"key"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Mods        stats.Modifiers `yaml:"mods"`
}

// Validate checks the template refers to a known job with usable modifiers
func (t *JobTemplate) Validate() error {
	if _, err := ParseJob(string(t.Key)); err != nil {
		return fmt.Errorf("job template: %w", err)
	}
	if t.Name == "" {
		return fmt.Errorf("job template %q: name must not be empty", t.Key)
	}
	for _, a := range append(stats.Primaries, stats.AttributeLuck) {
		if t.Mods.Get(a) <= 0 {
			return fmt.Errorf("job template %q: %s modifier must be > 0", t.Key, a)
		}
	}
	return nil
}
