// Package tokenizer resolves token counters for the semchunk package, either
// from a tiktoken model/encoding name or from the heuristic Unicode
// segmentation counters.
package tokenizer

import (
	"errors"
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// ErrResolve is returned when a tokenizer name matches neither a known model
// nor a known encoding.
var ErrResolve = errors.New("tokenizer: unknown model or encoding")

// Tokenizer counts tokens using a tiktoken encoding.
type Tokenizer struct {
	name string
	tke  *tiktoken.Tiktoken
}

// Resolve looks the name up as a tiktoken model first (e.g. "gpt-4o"), then
// as an encoding (e.g. "cl100k_base").
func Resolve(name string) (*Tokenizer, error) {
	tke, err := tiktoken.EncodingForModel(name)
	if err != nil {
		tke, err = tiktoken.GetEncoding(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrResolve, name)
		}
	}
	return &Tokenizer{name: name, tke: tke}, nil
}

// Name returns the name the Tokenizer was resolved from.
func (t *Tokenizer) Name() string { return t.name }

// Count returns the number of tokens in the text according to the resolved
// encoding.
func (t *Tokenizer) Count(text string) int {
	return len(t.tke.Encode(text, nil, nil))
}
