package validate

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func variedText(minLength int) string {
	var b strings.Builder
	for i := 0; b.Len() < minLength; i++ {
		fmt.Fprintf(&b, "segment%d insight%d detail%d ", i, i*3, i*7)
	}
	return b.String()
}

func TestValidate_EmptyContent(t *testing.T) {
	v := NewValidator(nil)

	valid, reason := v.Validate("", "general")
	assert.False(t, valid)
	assert.Equal(t, "content is empty", reason)

	valid, reason = v.Validate("   \n\t  ", "general")
	assert.False(t, valid)
	assert.Equal(t, "content is empty", reason)
}

func TestValidate_TooShort(t *testing.T) {
	v := NewValidator(nil)

	valid, reason := v.Validate("short but real content", "general")
	assert.False(t, valid)
	assert.Contains(t, reason, "content too short")
}

func TestValidate_PerComponentMinLengths(t *testing.T) {
	v := NewValidator(map[string]int{
		"mental_drivers": 500,
		"visual_proofs":  300,
	})

	// 350 chars of varied text: enough for visual_proofs, not for
	// mental_drivers.
	text := variedText(350)

	valid, _ := v.Validate(text, "visual_proofs")
	assert.True(t, valid)

	valid, reason := v.Validate(text, "mental_drivers")
	assert.False(t, valid)
	assert.Contains(t, reason, "content too short")
}

func TestMinLength_DefaultsTo200(t *testing.T) {
	v := NewValidator(map[string]int{"visual_proofs": 300})

	assert.Equal(t, 300, v.MinLength("visual_proofs"))
	assert.Equal(t, 200, v.MinLength("anything_else"))
}

func TestValidate_TooGeneric(t *testing.T) {
	v := NewValidator(nil)

	// Four distinct boilerplate phrases pushes past the threshold of three.
	text := variedText(200) +
		" This offering is tailored to your needs and suitable for any business." +
		" As a customized solution it will grow your company over time."

	valid, reason := v.Validate(text, "general")
	assert.False(t, valid)
	assert.Contains(t, reason, "content too generic")
}

func TestValidate_ThreeGenericPhrasesStillPass(t *testing.T) {
	v := NewValidator(nil)

	text := variedText(200) +
		" This is tailored to your needs, a customized solution for your company."

	valid, _ := v.Validate(text, "general")
	assert.True(t, valid)
}

func TestValidate_TooRepetitive(t *testing.T) {
	v := NewValidator(nil)

	text := strings.TrimSpace(strings.Repeat("buy now ", 50))

	valid, reason := v.Validate(text, "general")
	assert.False(t, valid)
	assert.Contains(t, reason, "content too repetitive")
}

func TestValidate_AcceptsGoodContent(t *testing.T) {
	v := NewValidator(nil)

	valid, reason := v.Validate(variedText(400), "general")
	assert.True(t, valid)
	assert.Equal(t, "content is valid", reason)
}

func TestValidate_RulesApplyInOrder(t *testing.T) {
	v := NewValidator(nil)

	// Short AND repetitive: the length rule fires first.
	valid, reason := v.Validate("same same same same", "general")
	assert.False(t, valid)
	assert.Contains(t, reason, "content too short")
}
