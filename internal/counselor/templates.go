package counselor

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"soulsync/internal/domain/model"

	"gopkg.in/yaml.v3"
)

//go:embed templates
var TemplatesFS embed.FS

// Voice holds the two persona renditions of one reply.
type Voice struct {
	Boy  string `yaml:"boy"`
	Girl string `yaml:"girl"`
}

// For picks the variant for p; anything but girl gets the boy voice.
func (v Voice) For(p model.Persona) string {
	if p == model.PersonaGirl {
		return v.Girl
	}
	return v.Boy
}

func (v Voice) complete() bool { return v.Boy != "" && v.Girl != "" }

// Table is the reply content, keyed by topic and case.
type Table struct {
	Crisis   string                     `yaml:"crisis"`
	Topics   map[Topic]map[string]Voice `yaml:"topics"`
	Fallback map[string]Voice           `yaml:"fallback"`
}

type moodLine struct {
	Emoji string `yaml:"emoji"`
	Name  string `yaml:"name"`
	Voice `yaml:",inline"`
}

// Greeting is the content of the welcome message and quick replies.
type Greeting struct {
	Greetings struct {
		Morning   string `yaml:"morning"`
		Afternoon string `yaml:"afternoon"`
		Evening   string `yaml:"evening"`
	} `yaml:"greetings"`
	Moods        map[model.ChatMood]moodLine `yaml:"moods"`
	Intro        Voice                       `yaml:"intro"`
	Life         map[model.Level]Voice       `yaml:"life"`
	QuickReplies struct {
		Low     []string `yaml:"low"`
		High    []string `yaml:"high"`
		Default []string `yaml:"default"`
	} `yaml:"quick_replies"`
}

// LoadTable parses templates/replies.yaml from fsys.
func LoadTable(fsys fs.FS) (*Table, error) {
	var t Table
	if err := readYAML(fsys, "replies.yaml", &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadGreeting parses templates/greeting.yaml from fsys.
func LoadGreeting(fsys fs.FS) (*Greeting, error) {
	var g Greeting
	if err := readYAML(fsys, "greeting.yaml", &g); err != nil {
		return nil, err
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

func readYAML(fsys fs.FS, name string, out interface{}) error {
	p := path.Join("templates", name)
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return fmt.Errorf("failed to read template file %s: %w", p, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse template file %s: %w", p, err)
	}
	return nil
}

// validate checks that every key the rules can produce has both voices.
func (t *Table) validate() error {
	if t.Crisis == "" {
		return fmt.Errorf("template table: crisis reply is empty")
	}
	for i := range rules {
		r := &rules[i]
		cases := t.Topics[r.topic]
		for _, k := range r.keys() {
			if !cases[k].complete() {
				return fmt.Errorf("template table: %s/%s is missing a persona variant", r.topic, k)
			}
		}
	}
	for _, k := range fallbackKeys {
		if !t.Fallback[k].complete() {
			return fmt.Errorf("template table: fallback/%s is missing a persona variant", k)
		}
	}
	return nil
}

func (g *Greeting) validate() error {
	if g.Greetings.Morning == "" || g.Greetings.Afternoon == "" || g.Greetings.Evening == "" {
		return fmt.Errorf("greeting: time-of-day greetings are incomplete")
	}
	for _, m := range []model.ChatMood{model.ChatVerySad, model.ChatSad, model.ChatNeutral, model.ChatHappy, model.ChatVeryHappy} {
		l := g.Moods[m]
		if l.Emoji == "" || l.Name == "" || !l.complete() {
			return fmt.Errorf("greeting: mood %s is incomplete", m)
		}
	}
	if !g.Intro.complete() || !g.Life[model.LevelCollege].complete() || !g.Life[model.LevelSchool].complete() {
		return fmt.Errorf("greeting: intro frame is incomplete")
	}
	if len(g.QuickReplies.Low) == 0 || len(g.QuickReplies.High) == 0 || len(g.QuickReplies.Default) == 0 {
		return fmt.Errorf("greeting: quick replies are incomplete")
	}
	return nil
}
