package words

import (
	"context"
	"errors"
	"testing"

	"github.com/emberwords/backend/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	service, err := NewService(ServiceConfig{Store: store.NewMemoryStore()})
	if err != nil {
		t.Fatalf("failed to construct service: %v", err)
	}
	return service
}

func TestNewServiceRequiresStore(t *testing.T) {
	_, err := NewService(ServiceConfig{})
	if err == nil {
		t.Fatalf("expected construction without store to fail")
	}
}

func TestSaveAndGetRoundTripsAllFields(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	card := WordCard{
		ID:              "gen-1700000000000",
		Word:            "Saudade",
		Country:         "Portugal",
		ShortDefinition: "Een verlangen naar iets dat er niet meer is.",
		Question:        "Waar verlang jij naar terug?",
		Pronunciation:   "sau-DA-de",
		DeepDive: &DeepDive{
			CulturalContext:      "Fado en de zee.",
			PhilosophicalInsight: "Gemis als vorm van liefde.",
			ExampleUsage:         "Tenho saudades tuas.",
		},
	}
	if err := service.Save(ctx, card); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	loaded, err := service.Get(ctx, card.ID)
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if loaded.DeepDive == nil || *loaded.DeepDive != *card.DeepDive {
		t.Fatalf("deep dive did not round trip: %#v", loaded.DeepDive)
	}
	loaded.DeepDive = nil
	card.DeepDive = nil
	if loaded != card {
		t.Fatalf("card did not round trip: %#v", loaded)
	}
}

func TestSaveNormalizesAbsentOptionalFields(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	card := WordCard{
		ID:              "w1",
		Word:            "Hygge",
		Country:         "Denemarken",
		ShortDefinition: "Warme gezelligheid.",
		Question:        "Wanneer voelde jij je laatst geborgen?",
	}
	if err := service.Save(ctx, card); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	loaded, err := service.Get(ctx, "w1")
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if loaded.Pronunciation != "" {
		t.Fatalf("expected empty pronunciation, got %q", loaded.Pronunciation)
	}
	if loaded.DeepDive != nil {
		t.Fatalf("expected nil deep dive, got %#v", loaded.DeepDive)
	}
}

func TestSaveIsFullOverwriteNotMerge(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	withDive := WordCard{
		ID:              "w1",
		Word:            "Ubuntu",
		Country:         "Zuid-Afrika",
		ShortDefinition: "Ik ben omdat wij zijn.",
		Question:        "Wie maakt jou wie je bent?",
		DeepDive:        &DeepDive{CulturalContext: "Gemeenschap"},
	}
	if err := service.Save(ctx, withDive); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	withDive.DeepDive = nil
	if err := service.Save(ctx, withDive); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	loaded, err := service.Get(ctx, "w1")
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if loaded.DeepDive != nil {
		t.Fatalf("expected overwrite to clear deep dive, got %#v", loaded.DeepDive)
	}
}

func TestListOrdersByWordAscending(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	for id, word := range map[string]string{
		"w1": "Saudade",
		"w2": "Hygge",
		"w3": "Wabi-sabi",
		"w4": "Ubuntu",
	} {
		card := WordCard{ID: id, Word: word, Country: "x", ShortDefinition: "d", Question: "q"}
		if err := service.Save(ctx, card); err != nil {
			t.Fatalf("unexpected save error: %v", err)
		}
	}

	cards, err := service.List(ctx)
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(cards) != 4 {
		t.Fatalf("expected 4 cards, got %d", len(cards))
	}
	for i := 1; i < len(cards); i++ {
		if cards[i-1].Word > cards[i].Word {
			t.Fatalf("expected non-decreasing order, got %s before %s", cards[i-1].Word, cards[i].Word)
		}
	}
}

func TestListSkipsMalformedDocuments(t *testing.T) {
	memoryStore := store.NewMemoryStore()
	service, err := NewService(ServiceConfig{Store: memoryStore})
	if err != nil {
		t.Fatalf("failed to construct service: %v", err)
	}
	ctx := context.Background()

	if err := memoryStore.Set(ctx, "words", "broken", map[string]any{"country": "nergens"}); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}
	if err := service.Save(ctx, WordCard{ID: "w1", Word: "Hygge", Country: "Denemarken", ShortDefinition: "d", Question: "q"}); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	cards, err := service.List(ctx)
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(cards) != 1 || cards[0].ID != "w1" {
		t.Fatalf("expected only the valid card, got %#v", cards)
	}
}

func TestGetMissingCardReturnsNotFound(t *testing.T) {
	service := newTestService(t)

	_, err := service.Get(context.Background(), "missing")
	if err == nil || !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	var serviceErr *ServiceError
	if !errors.As(err, &serviceErr) || serviceErr.Code() != "words.get.not_found" {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	card := WordCard{ID: "w1", Word: "Hygge", Country: "Denemarken", ShortDefinition: "d", Question: "q"}
	if err := service.Save(ctx, card); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	if err := service.Delete(ctx, "w1"); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}
	if err := service.Delete(ctx, "w1"); err != nil {
		t.Fatalf("expected repeated delete to succeed, got %v", err)
	}
	if _, err := service.Get(ctx, "w1"); !IsNotFound(err) {
		t.Fatalf("expected card to be gone, got %v", err)
	}
}

func TestSaveRejectsInvalidCards(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	if err := service.Save(ctx, WordCard{Word: "Hygge"}); !errors.Is(err, ErrInvalidCardID) {
		t.Fatalf("expected invalid card id error, got %v", err)
	}
	if err := service.Save(ctx, WordCard{ID: "w1"}); !errors.Is(err, ErrInvalidWord) {
		t.Fatalf("expected invalid word error, got %v", err)
	}
}
