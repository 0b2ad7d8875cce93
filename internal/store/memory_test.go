package store

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreGetReturnsNotFoundForMissingDocument(t *testing.T) {
	memoryStore := NewMemoryStore()

	_, err := memoryStore.Get(context.Background(), "words", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreSetOverwritesFullDocument(t *testing.T) {
	memoryStore := NewMemoryStore()
	ctx := context.Background()

	if err := memoryStore.Set(ctx, "words", "w1", map[string]any{"word": "saudade", "pronunciation": "sau-da-de"}); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}
	if err := memoryStore.Set(ctx, "words", "w1", map[string]any{"word": "hygge"}); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}

	data, err := memoryStore.Get(ctx, "words", "w1")
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if data["word"] != "hygge" {
		t.Fatalf("expected overwritten word, got %v", data["word"])
	}
	if _, ok := data["pronunciation"]; ok {
		t.Fatalf("expected pronunciation to be dropped by full overwrite")
	}
}

func TestMemoryStoreMergeUpdatesOnlyProvidedFields(t *testing.T) {
	memoryStore := NewMemoryStore()
	ctx := context.Background()

	if err := memoryStore.Set(ctx, "gifts", "g1", map[string]any{"word": "plezant", "hidden": false}); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}
	if err := memoryStore.Merge(ctx, "gifts", "g1", map[string]any{"hidden": true}); err != nil {
		t.Fatalf("unexpected merge error: %v", err)
	}

	data, err := memoryStore.Get(ctx, "gifts", "g1")
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if data["hidden"] != true {
		t.Fatalf("expected hidden to flip, got %v", data["hidden"])
	}
	if data["word"] != "plezant" {
		t.Fatalf("expected untouched field to survive merge, got %v", data["word"])
	}
}

func TestMemoryStoreMergeMissingDocumentReturnsNotFound(t *testing.T) {
	memoryStore := NewMemoryStore()

	err := memoryStore.Merge(context.Background(), "gifts", "missing", map[string]any{"hidden": true})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreDeleteIsIdempotent(t *testing.T) {
	memoryStore := NewMemoryStore()
	ctx := context.Background()

	if err := memoryStore.Set(ctx, "words", "w1", map[string]any{"word": "ubuntu"}); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}
	if err := memoryStore.Delete(ctx, "words", "w1"); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}
	if err := memoryStore.Delete(ctx, "words", "w1"); err != nil {
		t.Fatalf("expected repeated delete to succeed, got %v", err)
	}
	if _, err := memoryStore.Get(ctx, "words", "w1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected document to be gone, got %v", err)
	}
}

func TestMemoryStoreQueryFiltersAndOrdersDescending(t *testing.T) {
	memoryStore := NewMemoryStore()
	ctx := context.Background()

	seed := []struct {
		id        string
		cardID    string
		timestamp int64
	}{
		{"m1", "w1", 100},
		{"m2", "w2", 200},
		{"m3", "w1", 300},
		{"m4", "w1", 200},
	}
	for _, memory := range seed {
		err := memoryStore.Set(ctx, "memories", memory.id, map[string]any{
			"cardId":    memory.cardID,
			"timestamp": memory.timestamp,
		})
		if err != nil {
			t.Fatalf("unexpected set error: %v", err)
		}
	}

	documents, err := memoryStore.Query(ctx, "memories", Query{
		Filters:   []Filter{{Field: "cardId", Value: "w1"}},
		OrderBy:   "timestamp",
		Direction: Descending,
	})
	if err != nil {
		t.Fatalf("unexpected query error: %v", err)
	}
	if len(documents) != 3 {
		t.Fatalf("expected 3 filtered documents, got %d", len(documents))
	}
	expectedOrder := []string{"m3", "m4", "m1"}
	for i, expected := range expectedOrder {
		if documents[i].ID != expected {
			t.Fatalf("expected document %s at position %d, got %s", expected, i, documents[i].ID)
		}
	}
}

func TestMemoryStoreQueryOrdersStringsAscending(t *testing.T) {
	memoryStore := NewMemoryStore()
	ctx := context.Background()

	for id, word := range map[string]string{"w1": "saudade", "w2": "hygge", "w3": "ubuntu"} {
		if err := memoryStore.Set(ctx, "words", id, map[string]any{"word": word}); err != nil {
			t.Fatalf("unexpected set error: %v", err)
		}
	}

	documents, err := memoryStore.Query(ctx, "words", Query{OrderBy: "word"})
	if err != nil {
		t.Fatalf("unexpected query error: %v", err)
	}
	for i := 1; i < len(documents); i++ {
		previous := documents[i-1].Data["word"].(string)
		current := documents[i].Data["word"].(string)
		if previous > current {
			t.Fatalf("expected non-decreasing word order, got %s before %s", previous, current)
		}
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	memoryStore := NewMemoryStore()
	ctx := context.Background()

	original := map[string]any{"userLocation": map[string]any{"name": "Utrecht"}}
	if err := memoryStore.Set(ctx, "memories", "m1", original); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}

	original["userLocation"].(map[string]any)["name"] = "mutated"

	data, err := memoryStore.Get(ctx, "memories", "m1")
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	location := data["userLocation"].(map[string]any)
	if location["name"] != "Utrecht" {
		t.Fatalf("expected stored document to be isolated from caller mutation, got %v", location["name"])
	}

	location["name"] = "mutated again"
	reread, err := memoryStore.Get(ctx, "memories", "m1")
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if reread["userLocation"].(map[string]any)["name"] != "Utrecht" {
		t.Fatalf("expected returned document to be a copy")
	}
}
