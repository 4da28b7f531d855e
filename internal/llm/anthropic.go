package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ModelClaudeSonnet is the default Anthropic model. Release-note
// categorization is a judgment task, so it defaults to the reasoning tier
// rather than the cheap tier.
const ModelClaudeSonnet = "claude-sonnet-4-5-20250929"

type anthropicProvider struct {
	client *anthropic.Client
	model  string
}

// newAnthropicProvider resolves the API key (config first, then
// ANTHROPIC_API_KEY) and builds the client. A missing credential is a
// construction error; callers degrade to rule-based generation.
func newAnthropicProvider(cfg Config) (*anthropicProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
	}

	model := cfg.Model
	if model == "" {
		model = ModelClaudeSonnet
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &anthropicProvider{client: &client, model: model}, nil
}

func (p *anthropicProvider) Name() string  { return "anthropic" }
func (p *anthropicProvider) Model() string { return p.model }

func (p *anthropicProvider) Complete(ctx context.Context, prompt string, maxTokens int) (*Completion, error) {
	response, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	var text string
	for _, block := range response.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return &Completion{
		Text:         text,
		InputTokens:  response.Usage.InputTokens,
		OutputTokens: response.Usage.OutputTokens,
	}, nil
}
