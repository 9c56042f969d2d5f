package aimanager

import (
	"context"
	"fmt"

	"github.com/arqlabs/aimanager/clients/gemini"
	"github.com/arqlabs/aimanager/clients/groq"
	"github.com/arqlabs/aimanager/clients/huggingface"
	openai "github.com/openai/openai-go/v2"
)

// OpenAIInvoker adapts the official OpenAI client.
type OpenAIInvoker struct {
	Client *openai.Client
}

var _ Invoker = (*OpenAIInvoker)(nil)

func (i *OpenAIInvoker) Invoke(ctx context.Context, prompt string, model string, opts Options) (string, error) {
	completion, err := i.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(int64(opts.MaxTokens)),
		Temperature: openai.Float(opts.Temperature),
		TopP:        openai.Float(opts.TopP),
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai response has no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

// GroqInvoker adapts the Groq chat-completions client.
type GroqInvoker struct {
	Client groq.GroqClientInterface
}

var _ Invoker = (*GroqInvoker)(nil)

func (i *GroqInvoker) Invoke(ctx context.Context, prompt string, model string, opts Options) (string, error) {
	content := prompt
	response, err := i.Client.ChatCompletion(ctx, groq.ChatCompletionRequest{
		Model: model,
		Messages: []groq.ChatMessage{
			{Role: groq.MessageRoleUser, Content: &content},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		TopP:        opts.TopP,
	})
	if err != nil {
		return "", err
	}
	if len(response.Choices) == 0 || response.Choices[0].Message.Content == nil {
		return "", fmt.Errorf("groq response has no choices")
	}
	return *response.Choices[0].Message.Content, nil
}

// GeminiInvoker adapts the Gemini REST client.
type GeminiInvoker struct {
	Client gemini.GeminiClientInterface
}

var _ Invoker = (*GeminiInvoker)(nil)

func (i *GeminiInvoker) Invoke(ctx context.Context, prompt string, model string, opts Options) (string, error) {
	return i.Client.GenerateContent(ctx, model, prompt, gemini.GenerationConfig{
		Temperature:     opts.Temperature,
		TopP:            opts.TopP,
		TopK:            opts.TopK,
		MaxOutputTokens: opts.MaxTokens,
	})
}

// HFInvoker adapts the HuggingFace inference client.
type HFInvoker struct {
	Client huggingface.HFClientInterface
}

var _ Invoker = (*HFInvoker)(nil)

func (i *HFInvoker) Invoke(ctx context.Context, prompt string, model string, opts Options) (string, error) {
	return i.Client.Generate(ctx, model, prompt, opts.MaxTokens)
}
