package persons

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
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
	opServiceNew  = "persons.service.new"
	opCreate      = "persons.create"
	opGet         = "persons.get"
	opVerifyToken = "persons.verify_token"
	opList        = "persons.list"
)

func newServiceError(operation, reason string, cause error) error {
	return &ServiceError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// ServiceConfig describes the dependencies of the person page service.
type ServiceConfig struct {
	Store  store.Store
	Clock  func() time.Time
	Logger *zap.Logger
}

// Service manages shareable person and event pages and their admin tokens.
type Service struct {
	store  store.Store
	clock  func() time.Time
	logger *zap.Logger
}

// NewService constructs the person page service.
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

// Create stores a new page and returns its id together with the freshly
// generated admin token. The token is never disclosed again; the caller is
// responsible for persisting it, typically inside a shared URL.
func (s *Service) Create(ctx context.Context, request CreateRequest) (CreateResult, error) {
	if err := request.validate(); err != nil {
		return CreateResult{}, newServiceError(opCreate, "invalid_person", err)
	}

	adminToken, err := newAdminToken()
	if err != nil {
		s.logError(opCreate, "token_generation_failed", err)
		return CreateResult{}, newServiceError(opCreate, "token_generation_failed", err)
	}

	now := s.clock().UTC()
	id := fmt.Sprintf("person-%d", now.UnixMilli())
	if err := s.store.Set(ctx, personsCollection, id, encodePerson(request, adminToken, now.UnixMilli())); err != nil {
		s.logError(opCreate, "write_failed", err, zap.String("person_id", id))
		return CreateResult{}, newServiceError(opCreate, "write_failed", err)
	}

	return CreateResult{ID: id, AdminToken: adminToken}, nil
}

// Get returns a single page by id.
func (s *Service) Get(ctx context.Context, id string) (Person, error) {
	if id == "" {
		return Person{}, newServiceError(opGet, "invalid_person_id", ErrInvalidPersonID)
	}

	data, err := s.store.Get(ctx, personsCollection, id)
	if errors.Is(err, store.ErrNotFound) {
		return Person{}, newServiceError(opGet, "not_found", err)
	}
	if err != nil {
		s.logError(opGet, "read_failed", err, zap.String("person_id", id))
		return Person{}, newServiceError(opGet, "read_failed", err)
	}
	return decodePerson(id, data), nil
}

// VerifyToken reports whether the presented token matches the page's stored
// admin token. A missing page or a mismatch both yield false without a
// distinct signal; backend failures surface as errors.
func (s *Service) VerifyToken(ctx context.Context, personID, token string) (bool, error) {
	if personID == "" || token == "" {
		return false, nil
	}

	data, err := s.store.Get(ctx, personsCollection, personID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		s.logError(opVerifyToken, "read_failed", err, zap.String("person_id", personID))
		return false, newServiceError(opVerifyToken, "read_failed", err)
	}

	stored := stringField(data, "adminToken")
	return stored != "" && stored == token, nil
}

// List returns every page, newest first. Admin overview only.
func (s *Service) List(ctx context.Context) ([]Person, error) {
	documents, err := s.store.Query(ctx, personsCollection, store.Query{
		OrderBy:   "timestamp",
		Direction: store.Descending,
	})
	if err != nil {
		s.logError(opList, "query_failed", err)
		return nil, newServiceError(opList, "query_failed", err)
	}

	pages := make([]Person, 0, len(documents))
	for _, document := range documents {
		pages = append(pages, decodePerson(document.ID, document.Data))
	}
	return pages, nil
}

// IsNotFound reports whether err represents a missing document.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

const (
	base36Alphabet   = "0123456789abcdefghijklmnopqrstuvwxyz"
	tokenHalfLength  = 13
	tokenHalvesCount = 2
)

// newAdminToken builds an opaque bearer secret from two concatenated random
// base-36 strings. The scheme has no expiry or rotation; a leaked token
// grants indefinite admin control over the page's gifts.
func newAdminToken() (string, error) {
	token := make([]byte, 0, tokenHalfLength*tokenHalvesCount)
	alphabetSize := big.NewInt(int64(len(base36Alphabet)))
	for i := 0; i < tokenHalfLength*tokenHalvesCount; i++ {
		index, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		token = append(token, base36Alphabet[index.Int64()])
	}
	return string(token), nil
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
	s.logger.Error("persons service error", attrs...)
}
