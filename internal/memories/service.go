package memories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/emberwords/backend/internal/store"
	"go.uber.org/zap"
)

var (
	errMissingStore      = errors.New("document store is required")
	errMissingIDProvider = errors.New("id provider is required")
	noOpLogger           = zap.NewNop()
)

// IDProvider issues identifiers for store generated documents.
type IDProvider interface {
	NewID() (string, error)
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
	opServiceNew      = "memories.service.new"
	opCreate          = "memories.create"
	opListByCard      = "memories.list_by_card"
	opListAll         = "memories.list_all"
	opGet             = "memories.get"
	opAddComment      = "memories.add_comment"
	opListComments    = "memories.list_comments"
	opListAllComments = "memories.list_all_comments"
	opDeleteMemory    = "memories.delete_memory"
	opDeleteComment   = "memories.delete_comment"
)

func newServiceError(operation, reason string, cause error) error {
	return &ServiceError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// ServiceConfig describes the dependencies of the memory service.
type ServiceConfig struct {
	Store      store.Store
	Clock      func() time.Time
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Service provides CRUD over the memories and comments collections.
// Timestamps are assigned from the service clock at write time, never taken
// from the caller.
type Service struct {
	store      store.Store
	clock      func() time.Time
	idProvider IDProvider
	logger     *zap.Logger
}

// NewService constructs the memory service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, newServiceError(opServiceNew, "missing_store", errMissingStore)
	}
	if cfg.IDProvider == nil {
		return nil, newServiceError(opServiceNew, "missing_id_provider", errMissingIDProvider)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{store: cfg.Store, clock: clock, idProvider: cfg.IDProvider, logger: logger}, nil
}

// Create stores a new memory and returns its identifier.
func (s *Service) Create(ctx context.Context, request CreateRequest) (string, error) {
	if err := request.validate(); err != nil {
		return "", newServiceError(opCreate, "invalid_memory", err)
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opCreate, "id_generation_failed", err)
		return "", newServiceError(opCreate, "id_generation_failed", err)
	}

	timestamp := s.clock().UTC().UnixMilli()
	if err := s.store.Set(ctx, memoriesCollection, id, encodeMemory(request, timestamp)); err != nil {
		s.logError(opCreate, "write_failed", err, zap.String("card_id", request.CardID))
		return "", newServiceError(opCreate, "write_failed", err)
	}
	return id, nil
}

// ListByCard returns the memories of one word card, newest first.
func (s *Service) ListByCard(ctx context.Context, cardID string) ([]Memory, error) {
	if cardID == "" {
		return nil, newServiceError(opListByCard, "invalid_card_id", ErrInvalidCardID)
	}

	documents, err := s.store.Query(ctx, memoriesCollection, store.Query{
		Filters:   []store.Filter{{Field: "cardId", Value: cardID}},
		OrderBy:   "timestamp",
		Direction: store.Descending,
	})
	if err != nil {
		s.logError(opListByCard, "query_failed", err, zap.String("card_id", cardID))
		return nil, newServiceError(opListByCard, "query_failed", err)
	}
	return s.decodeMemories(opListByCard, documents), nil
}

// ListAll returns every memory, newest first. Unbounded: intended for the
// map and stories views.
func (s *Service) ListAll(ctx context.Context) ([]Memory, error) {
	documents, err := s.store.Query(ctx, memoriesCollection, store.Query{
		OrderBy:   "timestamp",
		Direction: store.Descending,
	})
	if err != nil {
		s.logError(opListAll, "query_failed", err)
		return nil, newServiceError(opListAll, "query_failed", err)
	}
	return s.decodeMemories(opListAll, documents), nil
}

// Get returns a single memory by id.
func (s *Service) Get(ctx context.Context, id string) (Memory, error) {
	if id == "" {
		return Memory{}, newServiceError(opGet, "invalid_memory_id", ErrInvalidMemoryID)
	}

	data, err := s.store.Get(ctx, memoriesCollection, id)
	if errors.Is(err, store.ErrNotFound) {
		return Memory{}, newServiceError(opGet, "not_found", err)
	}
	if err != nil {
		s.logError(opGet, "read_failed", err, zap.String("memory_id", id))
		return Memory{}, newServiceError(opGet, "read_failed", err)
	}

	memory, err := decodeMemory(id, data)
	if err != nil {
		s.logError(opGet, "malformed_document", err, zap.String("memory_id", id))
		return Memory{}, newServiceError(opGet, "malformed_document", err)
	}
	return memory, nil
}

// AddComment attaches a comment to a memory. The referenced memory is not
// checked for existence; the store has no foreign keys.
func (s *Service) AddComment(ctx context.Context, memoryID, userName, text string) (string, error) {
	if memoryID == "" {
		return "", newServiceError(opAddComment, "invalid_memory_id", ErrInvalidMemoryID)
	}
	if userName == "" {
		return "", newServiceError(opAddComment, "invalid_user_name", ErrInvalidUserName)
	}
	if text == "" {
		return "", newServiceError(opAddComment, "invalid_text", ErrInvalidText)
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opAddComment, "id_generation_failed", err)
		return "", newServiceError(opAddComment, "id_generation_failed", err)
	}

	timestamp := s.clock().UTC().UnixMilli()
	if err := s.store.Set(ctx, commentsCollection, id, encodeComment(memoryID, userName, text, timestamp)); err != nil {
		s.logError(opAddComment, "write_failed", err, zap.String("memory_id", memoryID))
		return "", newServiceError(opAddComment, "write_failed", err)
	}
	return id, nil
}

// ListComments returns the comments of a memory in ascending timestamp
// order. The query is equality-only and the sort happens here, so the store
// needs no composite index on the comments collection.
func (s *Service) ListComments(ctx context.Context, memoryID string) ([]Comment, error) {
	if memoryID == "" {
		return nil, newServiceError(opListComments, "invalid_memory_id", ErrInvalidMemoryID)
	}

	documents, err := s.store.Query(ctx, commentsCollection, store.Query{
		Filters: []store.Filter{{Field: "memoryId", Value: memoryID}},
	})
	if err != nil {
		s.logError(opListComments, "query_failed", err, zap.String("memory_id", memoryID))
		return nil, newServiceError(opListComments, "query_failed", err)
	}

	comments := s.decodeComments(opListComments, documents)
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Timestamp < comments[j].Timestamp
	})
	return comments, nil
}

// ListAllComments returns every comment, unordered. Admin overview only.
func (s *Service) ListAllComments(ctx context.Context) ([]Comment, error) {
	documents, err := s.store.Query(ctx, commentsCollection, store.Query{})
	if err != nil {
		s.logError(opListAllComments, "query_failed", err)
		return nil, newServiceError(opListAllComments, "query_failed", err)
	}
	return s.decodeComments(opListAllComments, documents), nil
}

// DeleteMemory removes a memory. Its comments are left in place.
func (s *Service) DeleteMemory(ctx context.Context, id string) error {
	if id == "" {
		return newServiceError(opDeleteMemory, "invalid_memory_id", ErrInvalidMemoryID)
	}
	if err := s.store.Delete(ctx, memoriesCollection, id); err != nil {
		s.logError(opDeleteMemory, "delete_failed", err, zap.String("memory_id", id))
		return newServiceError(opDeleteMemory, "delete_failed", err)
	}
	return nil
}

// DeleteComment removes a comment.
func (s *Service) DeleteComment(ctx context.Context, id string) error {
	if id == "" {
		return newServiceError(opDeleteComment, "invalid_comment_id", ErrInvalidMemoryID)
	}
	if err := s.store.Delete(ctx, commentsCollection, id); err != nil {
		s.logError(opDeleteComment, "delete_failed", err, zap.String("comment_id", id))
		return newServiceError(opDeleteComment, "delete_failed", err)
	}
	return nil
}

// IsNotFound reports whether err represents a missing document.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

func (s *Service) decodeMemories(operation string, documents []store.Document) []Memory {
	results := make([]Memory, 0, len(documents))
	for _, document := range documents {
		memory, err := decodeMemory(document.ID, document.Data)
		if err != nil {
			s.logError(operation, "malformed_document", err, zap.String("memory_id", document.ID))
			continue
		}
		results = append(results, memory)
	}
	return results
}

func (s *Service) decodeComments(operation string, documents []store.Document) []Comment {
	results := make([]Comment, 0, len(documents))
	for _, document := range documents {
		comment, err := decodeComment(document.ID, document.Data)
		if err != nil {
			s.logError(operation, "malformed_document", err, zap.String("comment_id", document.ID))
			continue
		}
		results = append(results, comment)
	}
	return results
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
	s.logger.Error("memories service error", attrs...)
}
