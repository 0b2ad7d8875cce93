package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emberwords/backend/internal/words"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

var (
	errMissingModel      = errors.New("text model is required")
	errMissingWordSaver  = errors.New("word saver is required")
	errMissingTheme      = errors.New("generator: theme is required")
	errMissingWordInput  = errors.New("generator: word and country are required")
	errMissingPerson     = errors.New("generator: recipient is required")
	errMissingMemoryText = errors.New("generator: memory text is required")
	errMissingEventName  = errors.New("generator: event name is required")
	noOpLogger           = zap.NewNop()
)

// TextModel produces schema-constrained JSON for a prompt. The production
// implementation is GenAIModel; tests substitute a scripted fake.
type TextModel interface {
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
}

// WordSaver persists a generated word card.
type WordSaver interface {
	Save(ctx context.Context, card words.WordCard) error
}

// ServiceError wraps a failure with a dotted operation code.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

func (e *ServiceError) Code() string {
	return e.code
}

const (
	opServiceNew   = "generator.service.new"
	opGenerateCard = "generator.generate_card"
	opGenerateDive = "generator.generate_deep_dive"
	opGenerateGift = "generator.generate_gift"
)

func newServiceError(operation, reason string, cause error) error {
	return &ServiceError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// ServiceConfig describes the dependencies of the generation service.
type ServiceConfig struct {
	Model  TextModel
	Words  WordSaver
	Clock  func() time.Time
	Logger *zap.Logger
}

// Service turns themes and memories into word cards and gift words.
type Service struct {
	model  TextModel
	words  WordSaver
	clock  func() time.Time
	logger *zap.Logger
}

// NewService constructs the generation service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Model == nil {
		return nil, newServiceError(opServiceNew, "missing_model", errMissingModel)
	}
	if cfg.Words == nil {
		return nil, newServiceError(opServiceNew, "missing_word_saver", errMissingWordSaver)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{model: cfg.Model, words: cfg.Words, clock: clock, logger: logger}, nil
}

type cardPayload struct {
	Word            string `json:"word"`
	Country         string `json:"country"`
	Pronunciation   string `json:"pronunciation"`
	ShortDefinition string `json:"shortDefinition"`
	Question        string `json:"question"`
}

type deepDivePayload struct {
	CulturalContext      string `json:"culturalContext"`
	PhilosophicalInsight string `json:"philosophicalInsight"`
	ExampleUsage         string `json:"exampleUsage"`
}

type giftPayload struct {
	Word          string `json:"word"`
	Translation   string `json:"translation"`
	Explanation   string `json:"explanation"`
	Country       string `json:"country"`
	Pronunciation string `json:"pronunciation"`
	Meaning       string `json:"meaning"`
	Poem          string `json:"poem"`
}

// GiftWord is the unsaved result of a gift generation. Persistence is a
// separate explicit step so the caller can preview before saving.
type GiftWord struct {
	Word          string `json:"word"`
	Translation   string `json:"translation"`
	Explanation   string `json:"explanation"`
	Country       string `json:"country"`
	Pronunciation string `json:"pronunciation,omitempty"`
	Meaning       string `json:"meaning"`
	Poem          string `json:"poem,omitempty"`
}

// GenerateWordCard invents a word card for a free-text theme and persists
// it. The dependent deep-dive call runs second; when it fails the card is
// still saved and returned without the deep dive.
func (s *Service) GenerateWordCard(ctx context.Context, theme string) (words.WordCard, error) {
	if strings.TrimSpace(theme) == "" {
		return words.WordCard{}, newServiceError(opGenerateCard, "invalid_theme", errMissingTheme)
	}

	text, err := s.model.GenerateJSON(ctx, buildCardPrompt(theme), cardSchema())
	if err != nil {
		s.logError(opGenerateCard, "model_failed", err)
		return words.WordCard{}, newServiceError(opGenerateCard, "model_failed", err)
	}

	var payload cardPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		s.logError(opGenerateCard, "parse_failed", err)
		return words.WordCard{}, newServiceError(opGenerateCard, "parse_failed", err)
	}
	if payload.Word == "" {
		s.logError(opGenerateCard, "incomplete_payload", nil)
		return words.WordCard{}, newServiceError(opGenerateCard, "incomplete_payload", nil)
	}

	card := words.WordCard{
		ID:              fmt.Sprintf("gen-%d", s.clock().UTC().UnixMilli()),
		Word:            payload.Word,
		Country:         payload.Country,
		Pronunciation:   payload.Pronunciation,
		ShortDefinition: payload.ShortDefinition,
		Question:        payload.Question,
	}

	deepDive, err := s.GenerateDeepDive(ctx, payload.Word, payload.Country)
	if err != nil {
		// Partial success: the base card survives a failed elaboration.
		s.logger.Warn("deep dive generation failed, saving card without it",
			zap.String("word", payload.Word), zap.Error(err))
	} else {
		card.DeepDive = deepDive
	}

	if err := s.words.Save(ctx, card); err != nil {
		s.logError(opGenerateCard, "save_failed", err, zap.String("card_id", card.ID))
		return words.WordCard{}, newServiceError(opGenerateCard, "save_failed", err)
	}
	return card, nil
}

// GenerateDeepDive elaborates an existing word with cultural context.
func (s *Service) GenerateDeepDive(ctx context.Context, word, country string) (*words.DeepDive, error) {
	if word == "" || country == "" {
		return nil, newServiceError(opGenerateDive, "invalid_input", errMissingWordInput)
	}

	text, err := s.model.GenerateJSON(ctx, buildDeepDivePrompt(word, country), deepDiveSchema())
	if err != nil {
		return nil, newServiceError(opGenerateDive, "model_failed", err)
	}

	var payload deepDivePayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, newServiceError(opGenerateDive, "parse_failed", err)
	}
	return &words.DeepDive{
		CulturalContext:      payload.CulturalContext,
		PhilosophicalInsight: payload.PhilosophicalInsight,
		ExampleUsage:         payload.ExampleUsage,
	}, nil
}

// GenerateGiftWord builds a personal gift word for a shared memory, biased
// toward the dialect of the given place. The result is not persisted.
func (s *Service) GenerateGiftWord(ctx context.Context, withPerson, memory, locationName string) (GiftWord, error) {
	if strings.TrimSpace(withPerson) == "" {
		return GiftWord{}, newServiceError(opGenerateGift, "invalid_person", errMissingPerson)
	}
	if strings.TrimSpace(memory) == "" {
		return GiftWord{}, newServiceError(opGenerateGift, "invalid_memory", errMissingMemoryText)
	}

	return s.generateGift(ctx, buildPersonPrompt(withPerson, memory, locationName), personSchema())
}

// GenerateEventWord is the event-page variant: the reader is addressed
// directly and no poem is produced.
func (s *Service) GenerateEventWord(ctx context.Context, eventName, eventDescription, eventLocation, memory string) (GiftWord, error) {
	if strings.TrimSpace(eventName) == "" {
		return GiftWord{}, newServiceError(opGenerateGift, "invalid_event", errMissingEventName)
	}
	if strings.TrimSpace(memory) == "" {
		return GiftWord{}, newServiceError(opGenerateGift, "invalid_memory", errMissingMemoryText)
	}

	return s.generateGift(ctx, buildEventPrompt(eventName, eventDescription, eventLocation, memory), eventSchema())
}

func (s *Service) generateGift(ctx context.Context, prompt string, schema *genai.Schema) (GiftWord, error) {
	text, err := s.model.GenerateJSON(ctx, prompt, schema)
	if err != nil {
		s.logError(opGenerateGift, "model_failed", err)
		return GiftWord{}, newServiceError(opGenerateGift, "model_failed", err)
	}

	var payload giftPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		s.logError(opGenerateGift, "parse_failed", err)
		return GiftWord{}, newServiceError(opGenerateGift, "parse_failed", err)
	}
	if payload.Word == "" {
		s.logError(opGenerateGift, "incomplete_payload", nil)
		return GiftWord{}, newServiceError(opGenerateGift, "incomplete_payload", nil)
	}

	return GiftWord{
		Word:          payload.Word,
		Translation:   payload.Translation,
		Explanation:   payload.Explanation,
		Country:       payload.Country,
		Pronunciation: payload.Pronunciation,
		Meaning:       payload.Meaning,
		// Some models escape newlines inside the JSON string twice.
		Poem: strings.ReplaceAll(payload.Poem, `\n`, "\n"),
	}, nil
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Error("generator service error", attrs...)
}
