package wellness

import (
	"strings"
	"testing"

	"soulsync/internal/domain/model"
)

func TestDefault_CoversEveryMood(t *testing.T) {
	list, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	per := make(map[model.DailyMood]int)
	for _, e := range list {
		per[e.Mood]++
		if e.Order < 1 {
			t.Errorf("%s has order %d", e.ID, e.Order)
		}
	}
	for _, m := range model.DailyMoods {
		if per[m] < 3 {
			t.Errorf("mood %s has %d exercises, want at least 3", m, per[m])
		}
	}
	if list[0].Mood != model.MoodVeryBad || list[0].Title != "Box Breathing" {
		t.Errorf("first entry = %s/%s", list[0].Mood, list[0].Title)
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown mood": "ecstatic:\n  - {id: a, title: t, content: c}\n",
		"missing id":   "good:\n  - {title: t, content: c}\n",
		"duplicate id": "good:\n  - {id: a, title: t, content: c}\nbad:\n  - {id: a, title: t, content: c}\n",
		"bad yaml":     "good: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
	if _, err := Parse([]byte(strings.TrimSpace("good: []"))); err != nil {
		t.Errorf("empty mood list: %v", err)
	}
}
