// Package store provides the document persistence boundary for Emberwords.
// Documents are schemaless string-keyed maps grouped into named collections;
// shape is enforced by the owning service packages, never by the backend.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound indicates the requested document does not exist in the collection.
var ErrNotFound = errors.New("store: document not found")

// Direction controls the sort order of a query.
type Direction int

const (
	// Ascending sorts query results from lowest to highest order key.
	Ascending Direction = iota
	// Descending sorts query results from highest to lowest order key.
	Descending
)

// Filter narrows a query to documents whose field equals the given value.
// Equality is the only supported operator.
type Filter struct {
	Field string
	Value any
}

// Query describes an equality-filtered, optionally ordered collection scan.
type Query struct {
	Filters   []Filter
	OrderBy   string
	Direction Direction
}

// Document pairs a document identifier with its raw field map.
type Document struct {
	ID   string
	Data map[string]any
}

// Store is the document-store contract shared by all backends. Set replaces
// the full document, Merge updates only the provided fields, and Delete is
// idempotent: removing an absent document is not an error.
type Store interface {
	Get(ctx context.Context, collection, id string) (map[string]any, error)
	Set(ctx context.Context, collection, id string, data map[string]any) error
	Merge(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection string, query Query) ([]Document, error)
	Close() error
}

// AsInt64 normalizes the numeric encodings the backends produce for integer
// fields. JSON round-trips yield float64, Firestore yields int64.
func AsInt64(value any) (int64, bool) {
	switch typed := value.(type) {
	case int64:
		return typed, true
	case int:
		return int64(typed), true
	case float64:
		return int64(typed), true
	}
	return 0, false
}

// AsFloat64 normalizes the numeric encodings the backends produce for
// floating point fields such as coordinates.
func AsFloat64(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case int64:
		return float64(typed), true
	case int:
		return float64(typed), true
	}
	return 0, false
}

func compareValues(left, right any) int {
	if leftNum, ok := AsFloat64(left); ok {
		rightNum, ok := AsFloat64(right)
		if !ok {
			return -1
		}
		switch {
		case leftNum < rightNum:
			return -1
		case leftNum > rightNum:
			return 1
		default:
			return 0
		}
	}

	leftText := fmt.Sprintf("%v", left)
	rightText := fmt.Sprintf("%v", right)
	switch {
	case leftText < rightText:
		return -1
	case leftText > rightText:
		return 1
	default:
		return 0
	}
}

func valuesEqual(left, right any) bool {
	if leftNum, ok := AsFloat64(left); ok {
		rightNum, ok := AsFloat64(right)
		return ok && leftNum == rightNum
	}
	return left == right
}
