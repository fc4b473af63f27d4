package chunking

import (
	"github.com/pkoukk/tiktoken-go"
)

// UnitCounter measures text in the unit the chunker budgets by. The chunking
// algorithm itself is unit-agnostic.
type UnitCounter interface {
	Count(text string) int
	// Tokens reports whether counts are token counts (vs characters).
	Tokens() bool
}

// TokenCounter counts BPE tokens with the cl100k_base encoding.
type TokenCounter struct {
	encoding *tiktoken.Tiktoken
}

func NewTokenCounter() (*TokenCounter, error) {
	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, err
	}
	return &TokenCounter{encoding: encoding}, nil
}

func (c *TokenCounter) Count(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}

func (c *TokenCounter) Tokens() bool { return true }

// RuneCounter counts characters. Fallback when the token encoding is
// unavailable.
type RuneCounter struct{}

func (RuneCounter) Count(text string) int {
	return len([]rune(text))
}

func (RuneCounter) Tokens() bool { return false }
