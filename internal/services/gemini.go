package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiOpener opens strategist chats on the Gemini API. Each handle owns its
// own client, so dropping a handle also drops the connection.
type GeminiOpener struct {
	APIKey string
}

var _ ChatOpener = (*GeminiOpener)(nil)

func NewGeminiOpener(apiKey string) *GeminiOpener {
	return &GeminiOpener{APIKey: apiKey}
}

func (o *GeminiOpener) OpenChat(ctx context.Context, cfg ChatConfig) (ChatHandle, error) {
	if o.APIKey == "" {
		return nil, ErrMissingCredential
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(o.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	if cfg.SystemInstruction != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(cfg.SystemInstruction)},
		}
	}

	return &geminiChat{
		client:  client,
		session: model.StartChat(),
	}, nil
}

type geminiChat struct {
	client  *genai.Client
	session *genai.ChatSession
}

func (g *geminiChat) Send(ctx context.Context, text string) (string, error) {
	resp, err := g.session.SendMessage(ctx, genai.Text(text))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	return extractText(resp), nil
}

func (g *geminiChat) Close() error {
	return g.client.Close()
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
