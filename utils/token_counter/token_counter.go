package token_counter

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// tokenCounterImpl estimates token counts for prompts and generated text.
type tokenCounterImpl struct {
	encoder *tiktoken.Tiktoken
}

var encodingBase = "cl100k_base"

// NewTokenCounter creates a new TokenCounter instance
func NewTokenCounter() (*tokenCounterImpl, error) {
	// Use cl100k_base encoding (used by GPT-4, GPT-3.5-turbo, and text-embedding-ada-002)
	encoder, err := tiktoken.GetEncoding(encodingBase)
	if err != nil {
		return nil, fmt.Errorf("failed to get tiktoken encoding: %w", err)
	}

	return &tokenCounterImpl{
		encoder: encoder,
	}, nil
}

// CountTextTokens counts tokens in plain text using tiktoken
func (tc *tokenCounterImpl) CountTextTokens(text string) int {
	tokens := tc.encoder.Encode(text, nil, nil)
	return len(tokens)
}

// EstimatePromptTokens estimates the total token cost of a prompt including
// a 20% overhead for response tokens
func (tc *tokenCounterImpl) EstimatePromptTokens(prompt string) int {
	count := tc.CountTextTokens(prompt)
	return count + (count * 20 / 100)
}
