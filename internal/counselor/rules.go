package counselor

import (
	"regexp"
	"strings"

	"soulsync/internal/domain/model"
)

// Topic is a conversation subject recognized by the keyword rules.
type Topic string

const (
	TopicNone          Topic = ""
	TopicCrisis        Topic = "crisis"
	TopicCareer        Topic = "career"
	TopicRelationships Topic = "relationships"
	TopicAcademics     Topic = "academics"
	TopicFriendship    Topic = "friendship"
	TopicMentalHealth  Topic = "mental_health"
	TopicFamily        Topic = "family"
	TopicGoals         Topic = "goals"
	TopicHobbies       Topic = "hobbies"
)

// Cases emitted by the mood-only fallback.
const (
	CaseCrisis  = "crisis"
	CaseThanks  = "thanks"
	CaseOpen    = "open"
	CaseDefault = "default"
)

var (
	crisisPhrases = []string{
		"suicide", "suicidal", "kill myself", "hurt myself", "end life", "end my life",
		"no reason to live", "want to die", "wanna die",
	}
	// "die" only as a whole word, so "studied" or "diet" stay harmless.
	crisisWord = regexp.MustCompile(`\bdie\b`)
)

// IsCrisis reports whether the text contains a self-harm trigger.
func IsCrisis(text string) bool {
	lower := strings.ToLower(text)
	return containsAny(lower, crisisPhrases) || crisisWord.MatchString(lower)
}

// branch is one sub-condition of a topic. It fires when any of "any" matches,
// every group in "also" matches, and the level requirement (if set) holds.
type branch struct {
	key   string
	any   []string
	also  [][]string
	level model.Level
}

func (b branch) match(lower string, level model.Level) bool {
	if b.level != "" && b.level != level {
		return false
	}
	if !containsAny(lower, b.any) {
		return false
	}
	for _, g := range b.also {
		if !containsAny(lower, g) {
			return false
		}
	}
	return true
}

// track is an ordered branch list with a fallback key.
type track struct {
	fallback string
	branches []branch
}

func (t *track) pick(lower string, level model.Level) string {
	for _, b := range t.branches {
		if b.match(lower, level) {
			return b.key
		}
	}
	return t.fallback
}

func (t *track) keys() []string {
	out := []string{t.fallback}
	for _, b := range t.branches {
		out = append(out, b.key)
	}
	return out
}

type topicRule struct {
	topic    Topic
	triggers []string
	low      *track // mood very_sad / sad
	high     *track // mood happy / very_happy; nil when the topic has none
	normal   track
}

func (r *topicRule) pick(lower string, mood model.ChatMood, level model.Level) string {
	switch {
	case mood.IsLow() && r.low != nil:
		return r.low.pick(lower, level)
	case mood.IsHigh() && r.high != nil:
		return r.high.pick(lower, level)
	}
	return r.normal.pick(lower, level)
}

func (r *topicRule) keys() []string {
	out := r.normal.keys()
	if r.low != nil {
		out = append(out, r.low.keys()...)
	}
	if r.high != nil {
		out = append(out, r.high.keys()...)
	}
	return out
}

// Sub-condition vocabularies reused by several tracks.
var (
	relCrush    = []string{"crush", "like a", "pasand hai", "acha lagta"}
	relPropose  = []string{"propose", "confess", "tell her", "tell him", "batau"}
	relScared   = []string{"scared", "dar", "fear", "nervous", "shake", "hichak", "hesitate"}
	relRejected = []string{"reject", "mana", "no", "na", "refuse", "inkar", "thukra"}
	relAccepted = []string{"yes", "haan", "accept", "mana liya", "han kar di", "agreed"}
	relBreakup  = []string{"breakup", "chhod", "tut", "separate", "alag", "chhut", "khatam"}
	relCheating = []string{"cheat", "dhokha", "third", "someone else", "other person", "bewafa"}

	acExam   = []string{"exam", "test", "paper", "stress", "pressure", "tension"}
	acFail   = []string{"fail", "back", "supply", "arrear", "fear", "pass nahi"}
	acResult = []string{"result", "percentage", "grade", "cgpa", "marksheet"}

	frLonely  = []string{"lonely", "alone", "akela", "single", "tanha"}
	frLeftOut = []string{"left out", "ignore", "cold", "include", "shamil"}
	frSocial  = []string{"instagram", "social media", "follow", "like", "post"}
	frBest    = []string{"best friend", "bff", "close friend"}

	mhDepressed = []string{"depress", "hopeless", "worthless", "empty", "meaningless"}
	mhAnxiety   = []string{"anxiety", "overthink", "panic", "nervous", "heart racing"}

	famFight   = []string{"fight", "argument", "ladai", "disagree", "dispute"}
	famMissing = []string{"miss", "yaad", "away", "ghar yaad"}

	goalMotivation = []string{"motivation", "inspire", "discipline"}
	goalDream      = []string{"dream", "want to become", "aspire"}
)

// rules is evaluated in order; the first topic whose triggers match wins.
var rules = []topicRule{
	{
		topic: TopicCareer,
		triggers: []string{
			"career", "future", "job", "placement", "earning", "salary", "kya karun", "kya kare",
			"confused about future", "aim", "goal", "laxya", "ban na chahta", "ban na chahti",
			"kya banu", "kya bane", "tension about future", "scope", "options", "field", "stream",
			"which course", "kaunsa subject", "branch", "upsc", "ssc", "bank", "government job",
			"private job", "internship", "fresher", "experienced", "switch job", "resign",
		},
		low:  &track{fallback: "low"},
		high: &track{fallback: "high"},
		normal: track{fallback: CaseDefault, branches: []branch{
			{key: "confused", any: []string{"confuse", "samajh nahi aata", "pata nahi", "sure nahi"}},
			{key: "job", any: []string{"job", "placement", "salary", "earning", "internship"}},
			{key: "govt", any: []string{"government", "upsc", "ssc", "bank", "civil services"}},
			{key: "switch", any: []string{"switch", "change job", "resign", "quit"}},
			{key: "stream_scope", any: []string{
				"stream", "branch", "course", "subject", "scope", "future", "opportunity",
			}},
		}},
	},
	{
		topic: TopicRelationships,
		triggers: []string{
			"love", "crush", "like a girl", "like a boy", "girl in my class", "boy in my class",
			"propose", "confess", "relationship", "gf", "bf", "girlfriend", "boyfriend", "ex",
			"breakup", "single", "dating", "date", "marry", "shaadi", "wedding", "husband", "wife",
			"partner", "soulmate", "true love", "first love", "love at first sight", "affair",
			"flirt", "fling", "casual", "serious relationship",
		},
		low: &track{fallback: "low", branches: []branch{
			{key: "low_breakup", any: relBreakup},
			{key: "low_rejected", any: relRejected},
			{key: "low_cheating", any: relCheating},
		}},
		high: &track{fallback: "high", branches: []branch{
			{key: "high_accepted", any: relAccepted},
			{key: "high_crush", any: relCrush},
		}},
		normal: track{fallback: CaseDefault, branches: []branch{
			{key: "breakup", any: relBreakup},
			{key: "cheating", any: relCheating},
			{key: "long_distance", any: []string{"long distance", "door", "far", "ldr", "different city"}},
			{key: "ex", any: []string{"ex", "puran", "old relationship", "bhul"}},
			{key: "parents", any: []string{"parents", "maa baap", "ghar wale", "family", "home"}},
			{key: "first_love", any: []string{"first love", "pehla pyaar", "first time"}},
			{key: "marriage", any: []string{"marry", "shaadi", "wedding", "future together"}},
			{key: "rejected", any: relRejected},
			{key: "accepted", any: relAccepted},
			{key: "propose_scared", any: relPropose, also: [][]string{relScared}},
			{key: "propose", any: relPropose},
			{key: "crush", any: relCrush},
			{key: "confused", any: []string{"confuse", "samajh nahi", "pata nahi", "suggest", "advice"}},
		}},
	},
	{
		topic: TopicAcademics,
		triggers: []string{
			"exam", "test", "paper", "study", "padhai", "marks", "percentage", "fail", "pass",
			"result", "grade", "cgpa", "back", "supply", "arrear", "teacher", "professor",
			"subject", "assignment", "project", "homework", "class", "lecture", "college",
			"school", "university", "degree", "semester", "internal", "external", "practical",
			"viva", "presentation", "attendance", "shortage", "detain", "promotion", "exam fear",
			"exam pressure",
		},
		low: &track{fallback: "low", branches: []branch{
			{key: "low_fail", any: acFail},
			{key: "low_exam", any: acExam},
		}},
		high: &track{fallback: "high", branches: []branch{
			{key: "high_result", any: acResult},
			{key: "high_exam", any: acExam},
		}},
		normal: track{fallback: CaseDefault, branches: []branch{
			{key: "fail", any: acFail},
			{key: "exam_college", any: acExam, level: model.LevelCollege},
			{key: "exam", any: acExam},
			{key: "result", any: acResult},
			{key: "assignment", any: []string{"assignment", "project", "homework", "deadline", "submission"}},
			{key: "attendance", any: []string{"attendance", "shortage", "detain", "present"}},
			{key: "practical", any: []string{"practical", "viva", "lab", "experiment"}},
		}},
	},
	{
		topic: TopicFriendship,
		triggers: []string{
			"friend", "lonely", "alone", "group", "gang", "social", "party", "gathering", "meet",
			"instagram", "social media", "follow", "popular", "ignore", "left out", "include",
			"invite", "cold", "best friend", "bff", "yaar", "dost", "friendship",
			"fight with friend", "argument with friend", "trust", "betray", "fake friends",
			"true friends",
		},
		low: &track{fallback: "low", branches: []branch{
			{key: "low_lonely", any: frLonely},
			{key: "low_left_out", any: frLeftOut},
		}},
		high: &track{fallback: "high", branches: []branch{
			{key: "high_best_friend", any: frBest},
			{key: "high_social_media", any: frSocial},
		}},
		normal: track{fallback: CaseDefault, branches: []branch{
			{key: "lonely", any: frLonely},
			{key: "left_out", any: frLeftOut},
			{key: "social_media", any: frSocial},
			{key: "friendship_issue", any: []string{"fight", "argument", "trust", "betray", "fake"}},
		}},
	},
	{
		topic: TopicMentalHealth,
		triggers: []string{
			"stress", "anxiety", "nervous", "tension", "pressure", "overthink", "worry", "scared",
			"fear", "depress", "sad", "cry", "mental health", "therapy", "help", "suicide", "hurt",
			"pain", "worthless", "hopeless", "empty", "panic", "attack", "breathing", "tired",
			"exhausted", "thak", "sleep", "insomnia", "neend", "relax", "calm", "peace",
		},
		low: &track{fallback: "low", branches: []branch{
			{key: "low_depressed", any: mhDepressed},
			{key: "low_anxiety", any: mhAnxiety},
		}},
		normal: track{fallback: CaseDefault, branches: []branch{
			{key: "depressed", any: mhDepressed},
			{key: "anxiety", any: mhAnxiety},
			{key: "stress", any: []string{"stress", "tension", "pressure", "overwhelm"}},
			{key: "tired", any: []string{"tired", "exhausted", "thak", "sleep", "insomnia"}},
		}},
	},
	{
		topic: TopicFamily,
		triggers: []string{
			"parents", "mother", "father", "maa", "papa", "mom", "dad", "sibling", "brother",
			"sister", "bhai", "behen", "family", "ghar", "home", "expectation",
			"pressure from home", "maa baap", "parental", "house", "hostel", "room", "roommate",
			"flat", "pg", "rent",
		},
		low: &track{fallback: "low", branches: []branch{
			{key: "low_missing", any: famMissing},
			{key: "low_fight", any: famFight},
		}},
		normal: track{fallback: CaseDefault, branches: []branch{
			{key: "expectation", any: []string{"expectation", "pressure from home", "comparison", "tulna", "hope"}},
			{key: "fight", any: famFight},
			{key: "missing", any: famMissing},
			{key: "hostel", any: []string{"hostel", "pg", "roommate", "flat"}},
		}},
	},
	{
		topic: TopicGoals,
		triggers: []string{
			"goal", "dream", "aspire", "plan", "aim", "motivation", "inspire", "success",
			"achieve", "want to become", "skill", "learn", "improve", "grow", "develop",
			"better version", "habit", "routine", "discipline", "focus", "concentrate",
			"procrastinate", "productivity", "time management", "schedule",
		},
		low: &track{fallback: "low", branches: []branch{
			{key: "low_motivation", any: goalMotivation},
			{key: "low_dream", any: goalDream},
		}},
		high: &track{fallback: "high", branches: []branch{
			{key: "high_motivation", any: goalMotivation},
			{key: "high_dream", any: goalDream},
		}},
		normal: track{fallback: CaseDefault, branches: []branch{
			{key: "motivation", any: []string{"motivation", "inspire"}},
			{key: "dream", any: []string{"dream", "want to become"}},
			{key: "improve", any: []string{"improve", "skill", "learn"}},
			{key: "procrastinate", any: []string{"procrastinate", "delay", "focus", "concentrate"}},
		}},
	},
	{
		topic: TopicHobbies,
		triggers: []string{
			"hobby", "interest", "passion", "music", "song", "movie", "film", "web series",
			"netflix", "game", "gaming", "cricket", "football", "sport", "dance", "sing", "draw",
			"write", "book", "read", "travel", "trip", "weekend", "timepass", "bike", "car",
			"drive", "photography", "camera", "photo", "cooking", "food", "baking", "painting",
			"art", "craft", "yoga", "meditation", "gym", "workout", "fitness", "health",
		},
		low:  &track{fallback: "low"},
		high: &track{fallback: "high"},
		normal: track{fallback: CaseDefault, branches: []branch{
			{key: "movie", any: []string{"movie", "film", "web series", "netflix", "prime", "hotstar"}},
			{key: "game", any: []string{"game", "gaming", "cricket", "football", "sport", "player"}},
			{key: "music", any: []string{"music", "song", "sing", "guitar", "piano", "instrument"}},
			{key: "travel", any: []string{"travel", "trip", "weekend", "holiday", "vacation"}},
			{key: "art", any: []string{"draw", "paint", "art", "craft", "sketch"}},
			{key: "food", any: []string{"cook", "food", "bake", "recipe", "kitchen"}},
			{key: "fitness", any: []string{"gym", "workout", "yoga", "fitness", "exercise"}},
		}},
	},
}

// Classify returns the first topic whose triggers occur in text, or TopicNone.
func Classify(text string) Topic {
	if r := classify(strings.ToLower(text)); r != nil {
		return r.topic
	}
	return TopicNone
}

func classify(lower string) *topicRule {
	for i := range rules {
		if containsAny(lower, rules[i].triggers) {
			return &rules[i]
		}
	}
	return nil
}

// fallbackKeys are the mood-only cases, in the order the moods are checked.
var fallbackKeys = []string{
	string(model.ChatVerySad), string(model.ChatSad), string(model.ChatHappy),
	string(model.ChatVeryHappy), CaseThanks, CaseOpen,
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
