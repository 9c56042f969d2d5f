// Package rate_limit enforces short-horizon per-minute budgets on provider
// traffic. It complements the daily quota tracking: the quota package answers
// "how many requests are left today", this package answers "can we send one
// right now without tripping the provider's per-minute caps".
package rate_limit

// RateLimit defines token per minute (TPM) and request per minute (RPM) limits
type RateLimit struct {
	RPM int // Requests per minute
	TPM int // Tokens per minute
}

// DefaultLimits holds conservative per-minute caps for the known providers,
// each with a 10% buffer to stay under the published limit.
var DefaultLimits = map[string]RateLimit{
	"gemini":      {RPM: 15, TPM: 1_000_000 * 9 / 10},
	"openai":      {RPM: 10 * 1000, TPM: 10_000_000 * 9 / 10},
	"groq":        {RPM: 30, TPM: 6_000 * 9 / 10},
	"huggingface": {RPM: 60, TPM: 100_000 * 9 / 10},
}
