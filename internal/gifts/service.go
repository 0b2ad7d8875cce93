package gifts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emberwords/backend/internal/store"
	"go.uber.org/zap"
)

var (
	errMissingStore = errors.New("document store is required")
	noOpLogger      = zap.NewNop()
)

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
	opServiceNew   = "gifts.service.new"
	opSave         = "gifts.save"
	opGet          = "gifts.get"
	opListByPerson = "gifts.list_by_person"
	opSetHidden    = "gifts.set_hidden"
	opDelete       = "gifts.delete"
)

func newServiceError(operation, reason string, cause error) error {
	return &ServiceError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// ServiceConfig describes the dependencies of the gift service.
type ServiceConfig struct {
	Store  store.Store
	Clock  func() time.Time
	Logger *zap.Logger
}

// Service provides CRUD over the gifts collection.
type Service struct {
	store  store.Store
	clock  func() time.Time
	logger *zap.Logger
}

// NewService constructs the gift service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, newServiceError(opServiceNew, "missing_store", errMissingStore)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{store: cfg.Store, clock: clock, logger: logger}, nil
}

// Save persists a generated gift and returns its identifier. Gifts start
// visible; hiding is a later admin action.
func (s *Service) Save(ctx context.Context, request SaveRequest) (string, error) {
	if err := request.validate(); err != nil {
		return "", newServiceError(opSave, "invalid_gift", err)
	}

	now := s.clock().UTC()
	id := fmt.Sprintf("gift-%d", now.UnixMilli())
	if err := s.store.Set(ctx, giftsCollection, id, encodeGift(request, now.UnixMilli())); err != nil {
		s.logError(opSave, "write_failed", err, zap.String("gift_id", id))
		return "", newServiceError(opSave, "write_failed", err)
	}
	return id, nil
}

// Get returns a single gift by id.
func (s *Service) Get(ctx context.Context, id string) (Gift, error) {
	if id == "" {
		return Gift{}, newServiceError(opGet, "invalid_gift_id", ErrInvalidGiftID)
	}

	data, err := s.store.Get(ctx, giftsCollection, id)
	if errors.Is(err, store.ErrNotFound) {
		return Gift{}, newServiceError(opGet, "not_found", err)
	}
	if err != nil {
		s.logError(opGet, "read_failed", err, zap.String("gift_id", id))
		return Gift{}, newServiceError(opGet, "read_failed", err)
	}
	return decodeGift(id, data), nil
}

// ListByPerson returns the gifts of one page, newest first. Hidden gifts are
// fetched regardless and filtered here after the query, mirroring the
// store's lack of a second composite index on (personId, hidden).
func (s *Service) ListByPerson(ctx context.Context, personID string, includeHidden bool) ([]Gift, error) {
	if personID == "" {
		return nil, newServiceError(opListByPerson, "invalid_person_id", ErrInvalidGiftID)
	}

	documents, err := s.store.Query(ctx, giftsCollection, store.Query{
		Filters:   []store.Filter{{Field: "personId", Value: personID}},
		OrderBy:   "timestamp",
		Direction: store.Descending,
	})
	if err != nil {
		s.logError(opListByPerson, "query_failed", err, zap.String("person_id", personID))
		return nil, newServiceError(opListByPerson, "query_failed", err)
	}

	results := make([]Gift, 0, len(documents))
	for _, document := range documents {
		gift := decodeGift(document.ID, document.Data)
		if gift.Hidden && !includeHidden {
			continue
		}
		results = append(results, gift)
	}
	return results, nil
}

// SetHidden toggles the visibility flag with a partial update, leaving the
// rest of the document untouched.
func (s *Service) SetHidden(ctx context.Context, id string, hidden bool) error {
	if id == "" {
		return newServiceError(opSetHidden, "invalid_gift_id", ErrInvalidGiftID)
	}

	err := s.store.Merge(ctx, giftsCollection, id, map[string]any{"hidden": hidden})
	if errors.Is(err, store.ErrNotFound) {
		return newServiceError(opSetHidden, "not_found", err)
	}
	if err != nil {
		s.logError(opSetHidden, "update_failed", err, zap.String("gift_id", id))
		return newServiceError(opSetHidden, "update_failed", err)
	}
	return nil
}

// Delete removes a gift. Deleting an absent gift succeeds.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return newServiceError(opDelete, "invalid_gift_id", ErrInvalidGiftID)
	}
	if err := s.store.Delete(ctx, giftsCollection, id); err != nil {
		s.logError(opDelete, "delete_failed", err, zap.String("gift_id", id))
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
	s.logger.Error("gifts service error", attrs...)
}
