package ai

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"soulsync/internal/domain/ports/adapter"
)

// perMessageOverhead approximates the role and separator tokens the chat
// format adds around each message.
const perMessageOverhead = 4

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
)

// TokenCounter estimates prompt size with the cl100k_base encoding, falling
// back to a rune heuristic when the encoding cannot be loaded.
type TokenCounter struct{}

func NewTokenCounter() *TokenCounter {
	encOnce.Do(func() {
		if e, err := tiktoken.GetEncoding("cl100k_base"); err == nil {
			enc = e
		}
	})
	return &TokenCounter{}
}

func (c *TokenCounter) Count(text string) int {
	if enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return estimate(text)
}

func (c *TokenCounter) CountMessages(msgs []adapter.Message) int {
	n := 0
	for _, m := range msgs {
		n += perMessageOverhead + c.Count(m.Content)
	}
	return n
}

func estimate(text string) int {
	t := strings.TrimSpace(text)
	if t == "" {
		return 0
	}
	n := len([]rune(t)) / 4
	if w := len(strings.Fields(t)); n < w {
		n = w
	}
	return n
}
