package token_counter

type TokenCounterInterface interface {
	CountTextTokens(text string) int
	EstimatePromptTokens(prompt string) int
}
