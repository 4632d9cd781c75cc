package persona

import (
	"context"
	"encoding/json"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/pkg/errors"

	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/config"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/instance"
)

const systemInstruction = "You are a persona generator. Always answer with " +
	"valid JSON only, no additional text."

// defaultPrompt is the fixed prompt sent to the generator. The model is
// told the exact keys so the response maps straight onto the record.
const defaultPrompt = `Generate a realistic Brazilian persona for a messaging
profile. Respond with a single JSON object with exactly these keys:
"name" (full name), "age" (number between 22 and 45), "city" (a Brazilian
city), "profession" (a common profession), "bio" (a short friendly bio in
Portuguese, at most 139 characters). Vary the personas between calls.`

const generationTemperature = 0.9

// Generator produces a persona record.
type Generator interface {
	Generate(ctx context.Context) (instance.Persona, error)
}

// ChatGenerator calls an OpenAI-compatible chat-completion endpoint.
type ChatGenerator struct {
	client *openai.Client
	model  string
	prompt string
}

// NewChatGenerator builds a generator from the configured endpoint.
func NewChatGenerator(cfg config.Generator) *ChatGenerator {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &ChatGenerator{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		prompt: defaultPrompt,
	}
}

// Generate requests one persona and parses the JSON response.
func (g *ChatGenerator) Generate(ctx context.Context) (instance.Persona, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: generationTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: g.prompt},
		},
	})
	if err != nil {
		return instance.Persona{}, errors.Wrap(err, "generator request failed")
	}

	if len(resp.Choices) == 0 {
		return instance.Persona{}, errors.Wrap(ErrGeneration, "generator returned no choices")
	}

	return Parse(resp.Choices[0].Message.Content)
}

// Parse turns generator output into a persona, stripping an optional
// Markdown code fence first. A malformed document is ErrGeneration.
func Parse(content string) (instance.Persona, error) {
	var p instance.Persona

	if err := json.Unmarshal([]byte(stripFences(content)), &p); err != nil {
		return instance.Persona{}, errors.Wrapf(ErrGeneration, "malformed generator output: %v", err)
	}

	if p.Name == "" {
		return instance.Persona{}, errors.Wrap(ErrGeneration, "generator output has no name")
	}

	return p, nil
}

func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")

	if idx := strings.Index(content, "```"); idx >= 0 {
		content = content[:idx]
	}

	return strings.TrimSpace(content)
}
