package persons

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/emberwords/backend/internal/memories"
	"github.com/emberwords/backend/internal/store"
)

type tickingClock struct {
	current time.Time
}

func (c *tickingClock) now() time.Time {
	c.current = c.current.Add(time.Second)
	return c.current
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	clock := &tickingClock{current: time.UnixMilli(1700000000000)}
	service, err := NewService(ServiceConfig{
		Store: store.NewMemoryStore(),
		Clock: clock.now,
	})
	if err != nil {
		t.Fatalf("failed to construct service: %v", err)
	}
	return service
}

func TestCreateReturnsIDAndAdminToken(t *testing.T) {
	service := newTestService(t)

	result, err := service.Create(context.Background(), CreateRequest{
		Name:         "Oma",
		CreatorEmail: "eva@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if !strings.HasPrefix(result.ID, "person-") {
		t.Fatalf("unexpected id format: %s", result.ID)
	}
	if len(result.AdminToken) != 26 {
		t.Fatalf("expected 26 character token, got %d", len(result.AdminToken))
	}
	for _, char := range result.AdminToken {
		if !strings.ContainsRune(base36Alphabet, char) {
			t.Fatalf("token contains non base-36 character %q", char)
		}
	}
}

func TestVerifyTokenAcceptsOnlyTheIssuedToken(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	first, err := service.Create(ctx, CreateRequest{Name: "Oma"})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	second, err := service.Create(ctx, CreateRequest{Name: "Opa"})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}

	ok, err := service.VerifyToken(ctx, first.ID, first.AdminToken)
	if err != nil || !ok {
		t.Fatalf("expected issued token to verify, got ok=%v err=%v", ok, err)
	}

	ok, err = service.VerifyToken(ctx, first.ID, "wrong")
	if err != nil || ok {
		t.Fatalf("expected wrong token to fail, got ok=%v err=%v", ok, err)
	}

	ok, err = service.VerifyToken(ctx, first.ID, "")
	if err != nil || ok {
		t.Fatalf("expected empty token to fail, got ok=%v err=%v", ok, err)
	}

	// Another page's valid token must not transfer.
	ok, err = service.VerifyToken(ctx, first.ID, second.AdminToken)
	if err != nil || ok {
		t.Fatalf("expected foreign token to fail, got ok=%v err=%v", ok, err)
	}
}

func TestVerifyTokenForMissingPageIsFalseNotError(t *testing.T) {
	service := newTestService(t)

	ok, err := service.VerifyToken(context.Background(), "person-404", "token")
	if err != nil {
		t.Fatalf("unexpected verify error: %v", err)
	}
	if ok {
		t.Fatalf("expected verification against a missing page to fail")
	}
}

func TestGetNeverExposesTokenInJSON(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	result, err := service.Create(ctx, CreateRequest{Name: "Oma", Description: "Voor haar verjaardag"})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}

	person, err := service.Get(ctx, result.ID)
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if person.AdminToken != result.AdminToken {
		t.Fatalf("expected token to be readable in-process")
	}
	if person.Name != "Oma" || person.Description != "Voor haar verjaardag" {
		t.Fatalf("unexpected person: %#v", person)
	}
	if person.Type != PageTypePerson {
		t.Fatalf("expected type to default to person, got %s", person.Type)
	}
}

func TestCreateEventPageKeepsLocation(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	result, err := service.Create(ctx, CreateRequest{
		Name:          "Festival Nacht van de Poëzie",
		Type:          PageTypeEvent,
		EventLocation: &memories.Location{Lat: 52.09, Lng: 5.12, Name: "Utrecht"},
	})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}

	person, err := service.Get(ctx, result.ID)
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if person.Type != PageTypeEvent {
		t.Fatalf("expected event type, got %s", person.Type)
	}
	if person.EventLocation == nil || person.EventLocation.Name != "Utrecht" {
		t.Fatalf("expected event location to round trip, got %#v", person.EventLocation)
	}
}

func TestCreateRejectsEmptyName(t *testing.T) {
	service := newTestService(t)

	_, err := service.Create(context.Background(), CreateRequest{Name: "  "})
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected invalid name error, got %v", err)
	}
}

func TestListReturnsNewestFirst(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Oma", "Opa", "Tante"} {
		if _, err := service.Create(ctx, CreateRequest{Name: name}); err != nil {
			t.Fatalf("unexpected create error: %v", err)
		}
	}

	pages, err := service.List(ctx)
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	if pages[0].Name != "Tante" {
		t.Fatalf("expected newest page first, got %s", pages[0].Name)
	}
}
