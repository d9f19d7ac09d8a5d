package translate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/officialai/aggregator/internal/retry"
)

// Gemini translates via Google's generative API. It is the primary provider.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, model: "gemini-1.5-flash"}, nil
}

func (g *Gemini) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

const geminiPrompt = `Translate the following tech news headline or summary into professional Arabic. Keep technical terms (like GPT-4, API, Python) in English if common in industry usage. Output ONLY the translation.

Text: %q`

func (g *Gemini) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	model := g.client.GenerativeModel(g.model)

	var out string
	err := retry.Do(ctx, retry.Config{MaxAttempts: 3, Delay: 2 * time.Second, Backoff: true}, func() error {
		resp, err := model.GenerateContent(ctx, genai.Text(fmt.Sprintf(geminiPrompt, text)))
		if err != nil {
			return fmt.Errorf("generate content: %w", err)
		}
		out = responseText(resp)
		if out == "" {
			return fmt.Errorf("empty response")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}
