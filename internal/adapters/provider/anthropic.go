package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/teamplan/alloc/pkg/logger"
	"github.com/teamplan/alloc/pkg/metrics"
)

const (
	defaultMaxTokens = 4096
	defaultTimeout   = 30 * time.Second

	// systemPrompt frames every decomposition call.
	systemPrompt = "You are a project planning assistant. You break feature requests " +
		"into team-level and member-level subtasks. Respond with exactly the JSON " +
		"structure requested and nothing else."
)

// AnthropicConfig configures the Anthropic-backed generator.
type AnthropicConfig struct {
	// Model names the model, e.g. "claude-sonnet-4-20250514".
	Model string
	// APIKey overrides the ANTHROPIC_API_KEY environment variable.
	APIKey string
	// MaxTokens caps output size per call.
	MaxTokens int
	// Timeout bounds a single Generate call.
	Timeout time.Duration
	// UseBedrock routes calls through AWS Bedrock; AWSRegion and AWSProfile
	// apply only then.
	UseBedrock bool
	AWSRegion  string
	AWSProfile string
}

// Anthropic implements Generator against the Anthropic Messages API.
type Anthropic struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
	timeout   time.Duration
	log       logger.Logger
}

// NewAnthropic creates a generator from cfg. Credential resolution follows
// the configured mode: direct API key or the ambient AWS credential chain.
func NewAnthropic(cfg AnthropicConfig) (*Anthropic, error) {
	var opts []option.RequestOption

	if cfg.UseBedrock {
		var loadOpts []func(*awsconfig.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.AWSProfile))
		}
		opts = append(opts, bedrock.WithLoadDefaultConfig(context.Background(), loadOpts...))
	} else {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY is not set", ErrCall)
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	model := anthropic.Model(cfg.Model)
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}

	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
		log:       logger.Named("provider"),
	}, nil
}

// Generate sends one message and returns the concatenated text blocks of the
// response.
func (a *Anthropic) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	elapsed := time.Since(start)
	metrics.RecordProviderCallLatency(float64(elapsed.Milliseconds()))

	if err != nil {
		classified := classify(err)
		metrics.RecordProviderCall(Outcome(classified))
		a.log.Warn(ctx, "provider call failed",
			logger.Duration("elapsed", elapsed),
			logger.Error(err),
		)
		return "", classified
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(variant.Text)
		}
	}
	if text.Len() == 0 {
		metrics.RecordProviderCall("error")
		return "", ErrEmpty
	}

	metrics.RecordProviderCall("ok")
	a.log.Debug(ctx, "provider call completed",
		logger.Duration("elapsed", elapsed),
		logger.Int("chars", text.Len()),
	)
	return text.String(), nil
}

// classify maps transport errors onto the package sentinels so callers and
// metrics can tell timeouts and quota exhaustion apart from plain failures.
func classify(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case isQuota(err):
		return fmt.Errorf("%w: %w", ErrQuota, err)
	default:
		return fmt.Errorf("%w: %w", ErrCall, err)
	}
}

func isQuota(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit")
}
