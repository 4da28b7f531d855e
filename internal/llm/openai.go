package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ModelGPT4oMini is the default OpenAI model.
const ModelGPT4oMini = "gpt-4o-mini"

type openaiProvider struct {
	opts  []option.RequestOption
	model string
}

// newOpenAIProvider resolves the API key (config first, then
// OPENAI_API_KEY). Missing credential is a construction error.
func newOpenAIProvider(cfg Config) (*openaiProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
	}

	model := cfg.Model
	if model == "" {
		model = ModelGPT4oMini
	}

	return &openaiProvider{
		opts:  []option.RequestOption{option.WithAPIKey(apiKey)},
		model: model,
	}, nil
}

func (p *openaiProvider) Name() string  { return "openai" }
func (p *openaiProvider) Model() string { return p.model }

func (p *openaiProvider) Complete(ctx context.Context, prompt string, maxTokens int) (*Completion, error) {
	client := openai.NewClient(p.opts...)

	response, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(p.model),
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai API call failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return &Completion{
		Text:         response.Choices[0].Message.Content,
		InputTokens:  response.Usage.PromptTokens,
		OutputTokens: response.Usage.CompletionTokens,
	}, nil
}
