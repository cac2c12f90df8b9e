package enrich

import (
	"context"

	"google.golang.org/genai"
)

// gemini calls the Gemini API through the GenAI SDK. The client is created
// lazily on first use so constructing an Enricher never needs the network.
type gemini struct {
	apiKey string
	model  string
	client *genai.Client
}

func (g *gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if g.client == nil {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			Backend: genai.BackendGeminiAPI,
			APIKey:  g.apiKey,
		})
		if err != nil {
			return "", err
		}
		g.client = client
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
