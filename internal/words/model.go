package words

import (
	"errors"
	"fmt"
	"strings"
)

const wordsCollection = "words"

var (
	// ErrInvalidCardID indicates that a word card identifier is empty.
	ErrInvalidCardID = errors.New("words: invalid card id")
	// ErrInvalidWord indicates the card is missing the word itself.
	ErrInvalidWord = errors.New("words: invalid word")
	// ErrMalformedDocument indicates a stored document fails shape validation.
	ErrMalformedDocument = errors.New("words: malformed document")
)

// DeepDive is the supplementary generated content of a word card.
type DeepDive struct {
	CulturalContext      string `json:"culturalContext"`
	PhilosophicalInsight string `json:"philosophicalInsight"`
	ExampleUsage         string `json:"exampleUsage"`
}

// WordCard is a culturally specific word with its definition and an optional
// deep dive. Pronunciation and DeepDive are optional; on write they are
// normalized to explicit nulls so absent and empty are indistinguishable.
type WordCard struct {
	ID              string    `json:"id"`
	Word            string    `json:"word"`
	Country         string    `json:"country"`
	ShortDefinition string    `json:"shortDefinition"`
	Question        string    `json:"question"`
	Pronunciation   string    `json:"pronunciation,omitempty"`
	DeepDive        *DeepDive `json:"deepDive,omitempty"`
}

func (c WordCard) validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrInvalidCardID
	}
	if strings.TrimSpace(c.Word) == "" {
		return ErrInvalidWord
	}
	return nil
}

func encodeCard(card WordCard) map[string]any {
	data := map[string]any{
		"word":            card.Word,
		"country":         card.Country,
		"shortDefinition": card.ShortDefinition,
		"question":        card.Question,
		"pronunciation":   nil,
		"deepDive":        nil,
	}
	if card.Pronunciation != "" {
		data["pronunciation"] = card.Pronunciation
	}
	if card.DeepDive != nil {
		data["deepDive"] = map[string]any{
			"culturalContext":      card.DeepDive.CulturalContext,
			"philosophicalInsight": card.DeepDive.PhilosophicalInsight,
			"exampleUsage":         card.DeepDive.ExampleUsage,
		}
	}
	return data
}

func decodeCard(id string, data map[string]any) (WordCard, error) {
	card := WordCard{
		ID:              id,
		Word:            stringField(data, "word"),
		Country:         stringField(data, "country"),
		ShortDefinition: stringField(data, "shortDefinition"),
		Question:        stringField(data, "question"),
		Pronunciation:   stringField(data, "pronunciation"),
	}
	if card.Word == "" {
		return WordCard{}, fmt.Errorf("%w: document %s has no word", ErrMalformedDocument, id)
	}

	if nested, ok := data["deepDive"].(map[string]any); ok {
		card.DeepDive = &DeepDive{
			CulturalContext:      stringField(nested, "culturalContext"),
			PhilosophicalInsight: stringField(nested, "philosophicalInsight"),
			ExampleUsage:         stringField(nested, "exampleUsage"),
		}
	}
	return card, nil
}

func stringField(data map[string]any, field string) string {
	value, _ := data[field].(string)
	return value
}
