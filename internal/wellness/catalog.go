// Package wellness holds the built-in exercise catalog that cmd/seed loads
// into the store.
package wellness

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"soulsync/internal/domain/model"
)

//go:embed catalog.yaml
var catalogYAML []byte

type entry struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	Category  string `yaml:"category"`
	Content   string `yaml:"content"`
	Emoji     string `yaml:"emoji"`
	Duration  string `yaml:"duration"`
	Intensity string `yaml:"intensity"`
}

// Default parses the embedded catalog.
func Default() ([]*model.Exercise, error) {
	return Parse(catalogYAML)
}

// Parse reads a mood-keyed catalog. Positions are assigned from file order
// starting at 1, and the result is sorted by mood then position.
func Parse(data []byte) ([]*model.Exercise, error) {
	var raw map[string][]entry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse wellness catalog: %w", err)
	}
	seen := make(map[string]bool)
	var out []*model.Exercise
	for key, list := range raw {
		mood, err := model.ParseDailyMood(key)
		if err != nil {
			return nil, fmt.Errorf("wellness catalog: unknown mood %q", key)
		}
		for i, e := range list {
			if strings.TrimSpace(e.ID) == "" || strings.TrimSpace(e.Title) == "" || strings.TrimSpace(e.Content) == "" {
				return nil, fmt.Errorf("wellness catalog: %s[%d] needs id, title and content", key, i)
			}
			if seen[e.ID] {
				return nil, fmt.Errorf("wellness catalog: duplicate id %q", e.ID)
			}
			seen[e.ID] = true
			out = append(out, &model.Exercise{
				ID:        e.ID,
				Mood:      mood,
				Title:     e.Title,
				Category:  e.Category,
				Content:   e.Content,
				Emoji:     e.Emoji,
				Duration:  e.Duration,
				Intensity: e.Intensity,
				Order:     i + 1,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mood != out[j].Mood {
			return out[i].Mood.Score() < out[j].Mood.Score()
		}
		return out[i].Order < out[j].Order
	})
	return out, nil
}
