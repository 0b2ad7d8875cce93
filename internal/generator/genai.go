package generator

import (
	"context"
	"errors"
	"net/http"
	"time"

	"google.golang.org/genai"
)

const (
	defaultModelName = "gemini-2.5-flash"

	// generationTimeout caps a single generation round trip.
	generationTimeout = 120 * time.Second
)

var (
	errMissingAPIKey  = errors.New("generator: api key is required")
	errEmptyModelText = errors.New("generator: model returned no text")
)

// GenAIModelConfig configures the Gemini-backed text model.
type GenAIModelConfig struct {
	APIKey     string
	ModelName  string
	HTTPClient *http.Client
}

// GenAIModel generates constrained JSON through the Google GenAI API.
type GenAIModel struct {
	client    *genai.Client
	modelName string
}

// NewGenAIModel constructs the production text model.
func NewGenAIModel(ctx context.Context, cfg GenAIModelConfig) (*GenAIModel, error) {
	if cfg.APIKey == "" {
		return nil, errMissingAPIKey
	}

	modelName := cfg.ModelName
	if modelName == "" {
		modelName = defaultModelName
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: generationTimeout}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, err
	}

	return &GenAIModel{client: client, modelName: modelName}, nil
}

// GenerateJSON sends the prompt with a strict response schema and returns the
// raw JSON text of the first candidate.
func (m *GenAIModel) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	response, err := m.client.Models.GenerateContent(ctx, m.modelName, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return "", err
	}

	text := response.Text()
	if text == "" {
		return "", errEmptyModelText
	}
	return text, nil
}
