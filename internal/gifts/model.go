package gifts

import (
	"errors"
	"strings"

	"github.com/emberwords/backend/internal/memories"
	"github.com/emberwords/backend/internal/store"
)

const giftsCollection = "gifts"

var (
	// ErrInvalidGiftID indicates an empty gift identifier.
	ErrInvalidGiftID = errors.New("gifts: invalid gift id")
	// ErrInvalidWord indicates a gift without its central word.
	ErrInvalidWord = errors.New("gifts: invalid word")
	// ErrInvalidRecipient indicates a gift without a recipient name.
	ErrInvalidRecipient = errors.New("gifts: invalid recipient")
)

// Gift is a generated word wrapped in a personal narrative, shown on a
// person or event page. Hidden is a soft visibility flag toggled by the page
// admin; it is the only mutable field after creation.
type Gift struct {
	ID            string            `json:"id"`
	WithPerson    string            `json:"withPerson"`
	AuthorName    string            `json:"authorName,omitempty"`
	Memory        string            `json:"memory"`
	Location      memories.Location `json:"location"`
	Word          string            `json:"word"`
	Translation   string            `json:"translation,omitempty"`
	Explanation   string            `json:"explanation,omitempty"`
	Country       string            `json:"country"`
	Pronunciation string            `json:"pronunciation,omitempty"`
	Meaning       string            `json:"meaning"`
	Poem          string            `json:"poem,omitempty"`
	Timestamp     int64             `json:"timestamp"`
	PersonID      string            `json:"personId,omitempty"`
	Hidden        bool              `json:"hidden"`
}

// SaveRequest carries the fields of a gift about to be persisted. The
// identifier and timestamp are assigned by the service.
type SaveRequest struct {
	WithPerson    string
	AuthorName    string
	Memory        string
	Location      memories.Location
	Word          string
	Translation   string
	Explanation   string
	Country       string
	Pronunciation string
	Meaning       string
	Poem          string
	PersonID      string
}

func (r SaveRequest) validate() error {
	if strings.TrimSpace(r.WithPerson) == "" {
		return ErrInvalidRecipient
	}
	if strings.TrimSpace(r.Word) == "" {
		return ErrInvalidWord
	}
	return nil
}

func encodeGift(request SaveRequest, timestamp int64) map[string]any {
	data := map[string]any{
		"withPerson":    request.WithPerson,
		"authorName":    nil,
		"memory":        request.Memory,
		"location":      map[string]any{"lat": request.Location.Lat, "lng": request.Location.Lng, "name": request.Location.Name},
		"word":          request.Word,
		"translation":   nil,
		"explanation":   nil,
		"country":       request.Country,
		"pronunciation": nil,
		"meaning":       request.Meaning,
		"poem":          nil,
		"timestamp":     timestamp,
		"personId":      nil,
		"hidden":        false,
	}
	if request.AuthorName != "" {
		data["authorName"] = request.AuthorName
	}
	if request.Translation != "" {
		data["translation"] = request.Translation
	}
	if request.Explanation != "" {
		data["explanation"] = request.Explanation
	}
	if request.Pronunciation != "" {
		data["pronunciation"] = request.Pronunciation
	}
	if request.Poem != "" {
		data["poem"] = request.Poem
	}
	if request.PersonID != "" {
		data["personId"] = request.PersonID
	}
	return data
}

func decodeGift(id string, data map[string]any) Gift {
	gift := Gift{
		ID:            id,
		WithPerson:    stringField(data, "withPerson"),
		AuthorName:    stringField(data, "authorName"),
		Memory:        stringField(data, "memory"),
		Word:          stringField(data, "word"),
		Translation:   stringField(data, "translation"),
		Explanation:   stringField(data, "explanation"),
		Country:       stringField(data, "country"),
		Pronunciation: stringField(data, "pronunciation"),
		Meaning:       stringField(data, "meaning"),
		Poem:          stringField(data, "poem"),
		PersonID:      stringField(data, "personId"),
	}
	if timestamp, ok := store.AsInt64(data["timestamp"]); ok {
		gift.Timestamp = timestamp
	}
	if hidden, ok := data["hidden"].(bool); ok {
		gift.Hidden = hidden
	}
	if location, ok := data["location"].(map[string]any); ok {
		if lat, ok := store.AsFloat64(location["lat"]); ok {
			gift.Location.Lat = lat
		}
		if lng, ok := store.AsFloat64(location["lng"]); ok {
			gift.Location.Lng = lng
		}
		gift.Location.Name = stringField(location, "name")
	}
	return gift
}

func stringField(data map[string]any, field string) string {
	value, _ := data[field].(string)
	return value
}
