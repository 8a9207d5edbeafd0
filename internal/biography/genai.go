package biography

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// contentGenerator is the subset of *genai.Models the drafter needs.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GenAIDrafter drafts biographies with Google's Gemini API using a structured `{"bio"}` response.
type GenAIDrafter struct {
	models  contentGenerator
	model   string
	timeout time.Duration
}

// NewGenAIDrafter creates a Gemini backed drafter.
func NewGenAIDrafter(ctx context.Context, apiKey, model string, timeout time.Duration) (*GenAIDrafter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return newGenAIDrafter(client.Models, model, timeout), nil
}

func newGenAIDrafter(models contentGenerator, model string, timeout time.Duration) *GenAIDrafter {
	if model == "" {
		model = defaultModel
	}

	return &GenAIDrafter{models: models, model: model, timeout: timeout}
}

type draftOutput struct {
	Bio string `json:"bio"`
}

// Draft sends one generation request. Every failure is reported as ErrGenerationFailed.
func (d *GenAIDrafter) Draft(ctx context.Context, in Input) (string, error) {
	prompt, err := Prompt(in)
	if err != nil {
		return "", fmt.Errorf("%w: render prompt: %w", ErrGenerationFailed, err)
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	resp, err := d.models.GenerateContent(ctx, d.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.7),
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"bio": {Type: genai.TypeString, Description: "A generated biography for the employee."},
			},
			Required: []string{"bio"},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if resp == nil {
		return "", fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}

	var out draftOutput
	if err = json.Unmarshal([]byte(strings.TrimSpace(resp.Text())), &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrGenerationFailed, err)
	}

	bio := PlainText(out.Bio)
	if bio == "" {
		return "", fmt.Errorf("%w: model returned an empty bio", ErrGenerationFailed)
	}

	return bio, nil
}
