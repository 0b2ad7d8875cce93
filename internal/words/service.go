package words

import (
	"context"
	"errors"
	"fmt"

	"github.com/emberwords/backend/internal/store"
	"go.uber.org/zap"
)

var (
	errMissingStore = errors.New("document store is required")
	noOpLogger      = zap.NewNop()
)

// ServiceError wraps a failure with a dotted operation code for callers and
// log correlation.
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
	opServiceNew = "words.service.new"
	opList       = "words.list"
	opGet        = "words.get"
	opSave       = "words.save"
	opDelete     = "words.delete"
)

func newServiceError(operation, reason string, cause error) error {
	return &ServiceError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// ServiceConfig describes the dependencies of the word card service.
type ServiceConfig struct {
	Store  store.Store
	Logger *zap.Logger
}

// Service provides CRUD over the words collection.
type Service struct {
	store  store.Store
	logger *zap.Logger
}

// NewService constructs the word card service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, newServiceError(opServiceNew, "missing_store", errMissingStore)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{store: cfg.Store, logger: logger}, nil
}

// List returns all word cards ordered lexicographically by word.
func (s *Service) List(ctx context.Context) ([]WordCard, error) {
	documents, err := s.store.Query(ctx, wordsCollection, store.Query{
		OrderBy:   "word",
		Direction: store.Ascending,
	})
	if err != nil {
		s.logError(opList, "query_failed", err)
		return nil, newServiceError(opList, "query_failed", err)
	}

	cards := make([]WordCard, 0, len(documents))
	for _, document := range documents {
		card, err := decodeCard(document.ID, document.Data)
		if err != nil {
			s.logError(opList, "malformed_document", err, zap.String("card_id", document.ID))
			continue
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// Get returns a single word card by id.
func (s *Service) Get(ctx context.Context, id string) (WordCard, error) {
	if id == "" {
		return WordCard{}, newServiceError(opGet, "invalid_card_id", ErrInvalidCardID)
	}

	data, err := s.store.Get(ctx, wordsCollection, id)
	if errors.Is(err, store.ErrNotFound) {
		return WordCard{}, newServiceError(opGet, "not_found", err)
	}
	if err != nil {
		s.logError(opGet, "read_failed", err, zap.String("card_id", id))
		return WordCard{}, newServiceError(opGet, "read_failed", err)
	}

	card, err := decodeCard(id, data)
	if err != nil {
		s.logError(opGet, "malformed_document", err, zap.String("card_id", id))
		return WordCard{}, newServiceError(opGet, "malformed_document", err)
	}
	return card, nil
}

// Save writes the full card document, replacing any existing fields.
func (s *Service) Save(ctx context.Context, card WordCard) error {
	if err := card.validate(); err != nil {
		return newServiceError(opSave, "invalid_card", err)
	}

	if err := s.store.Set(ctx, wordsCollection, card.ID, encodeCard(card)); err != nil {
		s.logError(opSave, "write_failed", err, zap.String("card_id", card.ID))
		return newServiceError(opSave, "write_failed", err)
	}
	return nil
}

// Delete removes the card document. Deleting an absent card succeeds.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return newServiceError(opDelete, "invalid_card_id", ErrInvalidCardID)
	}

	if err := s.store.Delete(ctx, wordsCollection, id); err != nil {
		s.logError(opDelete, "delete_failed", err, zap.String("card_id", id))
		return newServiceError(opDelete, "delete_failed", err)
	}
	return nil
}

// IsNotFound reports whether err represents a missing document.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
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
	s.logger.Error("words service error", attrs...)
}
