package memories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emberwords/backend/internal/store"
)

const (
	memoriesCollection = "memories"
	commentsCollection = "comments"
)

// MediaType enumerates the media attachments a memory supports.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeText  MediaType = "text"
	MediaTypeNone  MediaType = "none"
)

var (
	// ErrInvalidCardID indicates a memory without a word card reference.
	ErrInvalidCardID = errors.New("memories: invalid card id")
	// ErrInvalidMemoryID indicates an empty memory identifier.
	ErrInvalidMemoryID = errors.New("memories: invalid memory id")
	// ErrInvalidUserName indicates an empty submitter name.
	ErrInvalidUserName = errors.New("memories: invalid user name")
	// ErrInvalidText indicates an empty story text.
	ErrInvalidText = errors.New("memories: invalid text")
	// ErrMalformedDocument indicates a stored document fails shape validation.
	ErrMalformedDocument = errors.New("memories: malformed document")
)

// Location is a point with an optional human readable name.
type Location struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Name string  `json:"name,omitempty"`
}

// Memory is a user submitted story tied to a word card and a location.
// Memories are immutable after creation except for deletion.
type Memory struct {
	ID           string    `json:"id"`
	CardID       string    `json:"cardId"`
	UserName     string    `json:"userName"`
	Text         string    `json:"text"`
	UserLocation Location  `json:"userLocation"`
	MediaURL     string    `json:"mediaUrl,omitempty"`
	MediaType    MediaType `json:"mediaType"`
	Timestamp    int64     `json:"timestamp"`
}

// Comment is a short reaction attached to a memory. Deleting a memory does
// not cascade, so comments can outlive their memory.
type Comment struct {
	ID        string `json:"id"`
	MemoryID  string `json:"memoryId"`
	UserName  string `json:"userName"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// CreateRequest carries the caller supplied fields of a new memory. The
// identifier and timestamp are assigned by the service at write time.
type CreateRequest struct {
	CardID       string
	UserName     string
	Text         string
	UserLocation Location
	MediaURL     string
	MediaType    MediaType
}

func (r CreateRequest) validate() error {
	if strings.TrimSpace(r.CardID) == "" {
		return ErrInvalidCardID
	}
	if strings.TrimSpace(r.UserName) == "" {
		return ErrInvalidUserName
	}
	if strings.TrimSpace(r.Text) == "" {
		return ErrInvalidText
	}
	return nil
}

func normalizeMediaType(mediaType MediaType) MediaType {
	switch mediaType {
	case MediaTypeImage, MediaTypeVideo, MediaTypeText:
		return mediaType
	default:
		return MediaTypeNone
	}
}

func encodeMemory(request CreateRequest, timestamp int64) map[string]any {
	location := map[string]any{
		"lat":  request.UserLocation.Lat,
		"lng":  request.UserLocation.Lng,
		"name": nil,
	}
	if request.UserLocation.Name != "" {
		location["name"] = request.UserLocation.Name
	}

	data := map[string]any{
		"cardId":       request.CardID,
		"userName":     request.UserName,
		"text":         request.Text,
		"userLocation": location,
		"mediaUrl":     nil,
		"mediaType":    string(normalizeMediaType(request.MediaType)),
		"timestamp":    timestamp,
	}
	if request.MediaURL != "" {
		data["mediaUrl"] = request.MediaURL
	}
	return data
}

func decodeMemory(id string, data map[string]any) (Memory, error) {
	memory := Memory{
		ID:        id,
		CardID:    stringField(data, "cardId"),
		UserName:  stringField(data, "userName"),
		Text:      stringField(data, "text"),
		MediaURL:  stringField(data, "mediaUrl"),
		MediaType: normalizeMediaType(MediaType(stringField(data, "mediaType"))),
	}
	if memory.CardID == "" {
		return Memory{}, fmt.Errorf("%w: memory %s has no card id", ErrMalformedDocument, id)
	}
	if timestamp, ok := store.AsInt64(data["timestamp"]); ok {
		memory.Timestamp = timestamp
	}
	if location, ok := data["userLocation"].(map[string]any); ok {
		if lat, ok := store.AsFloat64(location["lat"]); ok {
			memory.UserLocation.Lat = lat
		}
		if lng, ok := store.AsFloat64(location["lng"]); ok {
			memory.UserLocation.Lng = lng
		}
		memory.UserLocation.Name = stringField(location, "name")
	}
	return memory, nil
}

func encodeComment(memoryID, userName, text string, timestamp int64) map[string]any {
	return map[string]any{
		"memoryId":  memoryID,
		"userName":  userName,
		"text":      text,
		"timestamp": timestamp,
	}
}

func decodeComment(id string, data map[string]any) (Comment, error) {
	comment := Comment{
		ID:       id,
		MemoryID: stringField(data, "memoryId"),
		UserName: stringField(data, "userName"),
		Text:     stringField(data, "text"),
	}
	if comment.MemoryID == "" {
		return Comment{}, fmt.Errorf("%w: comment %s has no memory id", ErrMalformedDocument, id)
	}
	if timestamp, ok := store.AsInt64(data["timestamp"]); ok {
		comment.Timestamp = timestamp
	}
	return comment, nil
}

func stringField(data map[string]any, field string) string {
	value, _ := data[field].(string)
	return value
}
