// Package counselor implements the rule-based companion: keyword topics,
// mood-gated reply tracks and persona voices over an embedded template table.
package counselor

import (
	"math/rand"
	"strings"
	"time"

	"soulsync/internal/domain/model"
)

// Input is one user utterance plus the context that shapes the reply.
type Input struct {
	Text    string
	Mood    model.ChatMood
	Persona model.Persona
	Level   model.Level
}

// Reply is the selected template and the rule that produced it.
type Reply struct {
	Text  string
	Topic Topic
	Case  string
}

// Engine selects replies. It is immutable once built and safe for concurrent use.
type Engine struct {
	table    *Table
	greeting *Greeting
}

// NewEngine validates both tables; a table with a gap is rejected so Reply
// never returns an empty text.
func NewEngine(table *Table, greeting *Greeting) (*Engine, error) {
	if err := table.validate(); err != nil {
		return nil, err
	}
	if err := greeting.validate(); err != nil {
		return nil, err
	}
	return &Engine{table: table, greeting: greeting}, nil
}

// NewDefaultEngine builds an engine from the embedded templates.
func NewDefaultEngine() (*Engine, error) {
	t, err := LoadTable(TemplatesFS)
	if err != nil {
		return nil, err
	}
	g, err := LoadGreeting(TemplatesFS)
	if err != nil {
		return nil, err
	}
	return NewEngine(t, g)
}

func (e *Engine) Reply(in Input) Reply {
	lower := strings.ToLower(in.Text)

	if IsCrisis(lower) {
		return Reply{Text: e.table.Crisis, Topic: TopicCrisis, Case: CaseCrisis}
	}

	if r := classify(lower); r != nil {
		key := r.pick(lower, in.Mood, in.Level)
		return Reply{Text: e.table.Topics[r.topic][key].For(in.Persona), Topic: r.topic, Case: key}
	}

	key := CaseOpen
	switch in.Mood {
	case model.ChatVerySad, model.ChatSad, model.ChatHappy, model.ChatVeryHappy:
		key = string(in.Mood)
	default:
		if strings.Contains(lower, "thank") {
			key = CaseThanks
		}
	}
	return Reply{Text: e.table.Fallback[key].For(in.Persona), Topic: TopicNone, Case: key}
}

// QuickReplies returns suggested openers for the mood band.
func (e *Engine) QuickReplies(mood model.ChatMood) []string {
	var src []string
	switch {
	case mood.IsLow():
		src = e.greeting.QuickReplies.Low
	case mood.IsHigh():
		src = e.greeting.QuickReplies.High
	default:
		src = e.greeting.QuickReplies.Default
	}
	return append([]string(nil), src...)
}

// IntroInput describes the user the welcome message is addressed to.
type IntroInput struct {
	Name          string
	Mood          model.ChatMood
	Persona       model.Persona
	Level         model.Level
	ClassOrCourse string
	Now           time.Time
}

// Intro renders the welcome message. An unknown mood is greeted as neutral.
func (e *Engine) Intro(in IntroInput) string {
	mood := in.Mood
	if _, ok := e.greeting.Moods[mood]; !ok {
		mood = model.ChatNeutral
	}
	line := e.greeting.Moods[mood]

	owner := "your"
	if f := strings.Fields(in.Name); len(f) > 0 {
		owner = f[0] + "'s"
	}
	course := strings.TrimSpace(in.ClassOrCourse)
	if course == "" {
		course = "college"
	}
	level := model.LevelSchool
	if in.Level == model.LevelCollege {
		level = model.LevelCollege
	}
	life := strings.ReplaceAll(e.greeting.Life[level].For(in.Persona), "{course}", course)

	return strings.NewReplacer(
		"{greeting}", e.timeGreeting(in.Now),
		"{emoji}", line.Emoji,
		"{owner}", owner,
		"{mood}", line.Name,
		"{mood_line}", line.For(in.Persona),
		"{life}", life,
	).Replace(e.greeting.Intro.For(in.Persona))
}

func (e *Engine) timeGreeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return e.greeting.Greetings.Morning
	case h < 17:
		return e.greeting.Greetings.Afternoon
	}
	return e.greeting.Greetings.Evening
}

// TypingDelay is the client-side "thinking" pause, between 1.5s and 2.5s.
func TypingDelay(r *rand.Rand) time.Duration {
	return 1500*time.Millisecond + time.Duration(r.Int63n(int64(time.Second)))
}
