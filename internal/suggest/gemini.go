package suggest

import (
	"context"
	"fmt"
	"time"

	"fjacquet/charity-mergers/internal/logging"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// Options configures the Gemini suggester.
type Options struct {
	APIKey            string
	Model             string
	RequestsPerMinute int
	Timeout           time.Duration
}

// GeminiSuggester implements Suggester with the Gemini API.
type GeminiSuggester struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	limiter *rate.Limiter
	timeout time.Duration
	logger  logging.Logger
}

// NewGeminiSuggester creates a client for opts.Model.
func NewGeminiSuggester(ctx context.Context, opts Options, logger logging.Logger) (*GeminiSuggester, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY required for suggestions")
	}
	if opts.Model == "" {
		opts.Model = "gemini-2.0-flash"
	}
	if opts.RequestsPerMinute < 1 {
		opts.RequestsPerMinute = 10
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel(opts.Model)
	model.SetTemperature(0)

	return &GeminiSuggester{
		client:  client,
		model:   model,
		limiter: newLimiter(opts.RequestsPerMinute),
		timeout: opts.Timeout,
		logger:  logger.WithField("component", "GeminiSuggester"),
	}, nil
}

func newLimiter(requestsPerMinute int) *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
}

// Suggest asks the model for the category of raw.
func (g *GeminiSuggester) Suggest(ctx context.Context, raw string) (Suggestion, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return Suggestion{}, fmt.Errorf("rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, genai.Text(BuildPrompt(raw)))
	if err != nil {
		return Suggestion{}, fmt.Errorf("Gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Suggestion{}, fmt.Errorf("no response from Gemini API")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	suggestion, err := ParseResponse(responseText)
	if err != nil {
		return Suggestion{}, err
	}

	g.logger.Debug("Gemini suggested category",
		logging.Field{Key: logging.FieldRaw, Value: raw},
		logging.Field{Key: logging.FieldCategory, Value: string(suggestion.Category)})
	return suggestion, nil
}

// Close releases the underlying client.
func (g *GeminiSuggester) Close() error {
	return g.client.Close()
}
