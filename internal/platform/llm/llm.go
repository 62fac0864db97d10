package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	gemini "github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"
)

// Config represents the configuration for the extraction-model integration
type Config struct {
	Provider string `json:"provider"` // only "gemini" is wired
	APIKey   string `json:"api_key"`
	Model    string `json:"model"`
}

// Service wraps the chat model used for event extraction. A Service built
// without an API key reports Available() == false and callers degrade to
// their non-LLM fallbacks instead of erroring.
type Service struct {
	config       Config
	chatModel    model.BaseChatModel
	geminiClient *genai.Client
}

// TokenUsage represents token usage information
type TokenUsage struct {
	InputTokens  int32 `json:"input_tokens"`
	OutputTokens int32 `json:"output_tokens"`
	TotalTokens  int32 `json:"total_tokens"`
}

func NewService(config Config) (*Service, error) {
	service := &Service{config: config}
	if config.APIKey == "" {
		return service, nil
	}
	if err := service.initializeChatModel(); err != nil {
		return nil, fmt.Errorf("failed to initialize chat model: %w", err)
	}
	return service, nil
}

// NewServiceWithModel creates a Service around a pre-configured chat model.
// Used by tests to substitute a stub model.
func NewServiceWithModel(config Config, chatModel model.BaseChatModel) *Service {
	return &Service{config: config, chatModel: chatModel}
}

func (s *Service) Available() bool { return s.chatModel != nil }

func (s *Service) initializeChatModel() error {
	switch strings.ToLower(s.config.Provider) {
	case "gemini":
		return s.initializeGeminiModel()
	default:
		return fmt.Errorf("unsupported provider: %s. Supported: gemini", s.config.Provider)
	}
}

func (s *Service) initializeGeminiModel() error {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: s.config.APIKey,
	})
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}
	s.geminiClient = client

	geminiModel, err := gemini.NewChatModel(context.Background(), &gemini.Config{
		Client: client,
		Model:  s.config.Model,
	})
	if err != nil {
		return fmt.Errorf("failed to create Gemini chat model: %w", err)
	}

	s.chatModel = geminiModel
	return nil
}

// Generate invokes the chat model with the given messages and options.
func (s *Service) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	if s.chatModel == nil {
		return nil, fmt.Errorf("chat model not initialized")
	}
	return s.chatModel.Generate(ctx, messages, options...)
}

// GenerateWithTokenUsage generates a response and reports token usage. When
// the provider does not surface usage metadata the counts fall back to the
// documented ~4 chars/token estimate.
func (s *Service) GenerateWithTokenUsage(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, *TokenUsage, error) {
	response, err := s.Generate(ctx, messages, options...)
	if err != nil {
		return nil, nil, err
	}

	usage := &TokenUsage{}
	if response.ResponseMeta != nil && response.ResponseMeta.Usage != nil {
		usage.InputTokens = int32(response.ResponseMeta.Usage.PromptTokens)
		usage.OutputTokens = int32(response.ResponseMeta.Usage.CompletionTokens)
		usage.TotalTokens = int32(response.ResponseMeta.Usage.TotalTokens)
	}
	if usage.TotalTokens == 0 {
		usage.InputTokens = CountTokensInText(s.messagesToText(messages))
		usage.OutputTokens = CountTokensInText(response.Content)
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}

	return response, usage, nil
}

// CountTokensInText counts tokens in any text string using character estimation
func CountTokensInText(text string) int32 {
	return int32(len(text) / 4)
}

func (s *Service) messagesToText(messages []*schema.Message) string {
	var text strings.Builder
	for _, msg := range messages {
		text.WriteString(msg.Content)
		text.WriteString("\n")
	}
	return text.String()
}

// CleanJSONResponse strips markdown code fences the model sometimes wraps
// around its JSON output.
func CleanJSONResponse(response string) string {
	cleaned := strings.TrimSpace(response)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
	}
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}
