package validate

import (
	"fmt"
	"strings"
)

// genericPhrases is the fixed list of marketing-boilerplate phrases that flag
// low-effort output. Matching is case-insensitive; each phrase counts once no
// matter how many times it appears.
var genericPhrases = []string{
	"tailored to your needs",
	"suitable for any business",
	"customized solution",
	"this product is ideal",
	"our solution",
	"product or service",
	"your company",
	"your business",
	"specific market",
}

// defaultMinLength applies to component types without an explicit threshold.
const defaultMinLength = 200

// minUniqueTokenRatio is the minimum distinct-token to total-token ratio
// before text is considered too repetitive.
const minUniqueTokenRatio = 0.3

// Validator scores generated text as acceptable or not, independent of which
// provider produced it. The zero value is not usable; use NewValidator.
type Validator struct {
	minLengths map[string]int
}

// NewValidator creates a validator with the given per-component minimum
// lengths. Component types absent from the map use the 200-character default.
func NewValidator(minLengths map[string]int) *Validator {
	lengths := make(map[string]int, len(minLengths))
	for component, min := range minLengths {
		lengths[component] = min
	}

	return &Validator{minLengths: lengths}
}

// MinLength returns the minimum acceptable content length for a component type.
func (v *Validator) MinLength(componentType string) int {
	if min, ok := v.minLengths[componentType]; ok {
		return min
	}
	return defaultMinLength
}

// Validate checks generated text against the quality rules in order: empty
// input, minimum length, generic-phrase density, and token repetition. The
// first failing rule determines the rejection reason. Validate is pure and has
// no side effects.
func (v *Validator) Validate(text string, componentType string) (bool, string) {
	if strings.TrimSpace(text) == "" {
		return false, "content is empty"
	}

	minLength := v.MinLength(componentType)
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minLength {
		return false, fmt.Sprintf("content too short: %d < %d", len(trimmed), minLength)
	}

	lowered := strings.ToLower(text)
	genericCount := 0
	for _, phrase := range genericPhrases {
		if strings.Contains(lowered, phrase) {
			genericCount++
		}
	}
	if genericCount > 3 {
		return false, fmt.Sprintf("content too generic: %d boilerplate phrases found", genericCount)
	}

	tokens := strings.Fields(lowered)
	if len(tokens) > 0 {
		distinct := make(map[string]struct{}, len(tokens))
		for _, token := range tokens {
			distinct[token] = struct{}{}
		}

		ratio := float64(len(distinct)) / float64(len(tokens))
		if ratio < minUniqueTokenRatio {
			return false, fmt.Sprintf("content too repetitive: %.0f%% unique tokens", ratio*100)
		}
	}

	return true, "content is valid"
}
