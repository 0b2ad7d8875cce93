package persons

import (
	"errors"
	"strings"

	"github.com/emberwords/backend/internal/memories"
	"github.com/emberwords/backend/internal/store"
)

const personsCollection = "persons"

// PageType distinguishes a person page from an event page.
type PageType string

const (
	PageTypePerson PageType = "person"
	PageTypeEvent  PageType = "event"
)

var (
	// ErrInvalidPersonID indicates an empty person identifier.
	ErrInvalidPersonID = errors.New("persons: invalid person id")
	// ErrInvalidName indicates an empty page name.
	ErrInvalidName = errors.New("persons: invalid name")
)

// Person is a shareable collection page for gifts, representing either a
// person or an event. The admin token is the sole access control: whoever
// holds the string may hide and delete the page's gifts. It is disclosed
// exactly once, at creation, and never serialized into API responses.
type Person struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description,omitempty"`
	CreatorEmail  string             `json:"creatorEmail,omitempty"`
	AdminToken    string             `json:"-"`
	Timestamp     int64              `json:"timestamp"`
	Type          PageType           `json:"type"`
	EventLocation *memories.Location `json:"eventLocation,omitempty"`
}

// CreateRequest carries the caller supplied fields of a new page.
type CreateRequest struct {
	Name          string
	Description   string
	CreatorEmail  string
	Type          PageType
	EventLocation *memories.Location
}

// CreateResult is returned once per page; the admin token is not
// recoverable afterwards.
type CreateResult struct {
	ID         string `json:"id"`
	AdminToken string `json:"adminToken"`
}

func (r CreateRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	return nil
}

func normalizePageType(pageType PageType) PageType {
	if pageType == PageTypeEvent {
		return PageTypeEvent
	}
	return PageTypePerson
}

func encodePerson(request CreateRequest, adminToken string, timestamp int64) map[string]any {
	data := map[string]any{
		"name":          request.Name,
		"description":   nil,
		"creatorEmail":  request.CreatorEmail,
		"adminToken":    adminToken,
		"timestamp":     timestamp,
		"type":          string(normalizePageType(request.Type)),
		"eventLocation": nil,
	}
	if request.Description != "" {
		data["description"] = request.Description
	}
	if request.EventLocation != nil {
		data["eventLocation"] = map[string]any{
			"lat":  request.EventLocation.Lat,
			"lng":  request.EventLocation.Lng,
			"name": request.EventLocation.Name,
		}
	}
	return data
}

func decodePerson(id string, data map[string]any) Person {
	person := Person{
		ID:           id,
		Name:         stringField(data, "name"),
		Description:  stringField(data, "description"),
		CreatorEmail: stringField(data, "creatorEmail"),
		AdminToken:   stringField(data, "adminToken"),
		Type:         normalizePageType(PageType(stringField(data, "type"))),
	}
	if timestamp, ok := store.AsInt64(data["timestamp"]); ok {
		person.Timestamp = timestamp
	}
	if location, ok := data["eventLocation"].(map[string]any); ok {
		decoded := &memories.Location{Name: stringField(location, "name")}
		if lat, ok := store.AsFloat64(location["lat"]); ok {
			decoded.Lat = lat
		}
		if lng, ok := store.AsFloat64(location["lng"]); ok {
			decoded.Lng = lng
		}
		person.EventLocation = decoded
	}
	return person
}

func stringField(data map[string]any, field string) string {
	value, _ := data[field].(string)
	return value
}
