package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emberwords/backend/internal/gifts"
	"github.com/emberwords/backend/internal/media"
	"github.com/emberwords/backend/internal/memories"
	"github.com/emberwords/backend/internal/persons"
	"github.com/emberwords/backend/internal/words"
)

func (h *httpHandler) handleListWords(c *gin.Context) {
	cards, err := h.words.List(c.Request.Context())
	if err != nil {
		h.respondInternal(c, "words_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (h *httpHandler) handleGetWord(c *gin.Context) {
	card, err := h.words.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if words.IsNotFound(err) {
			respondNotFound(c)
			return
		}
		h.respondInternal(c, "words_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *httpHandler) handleSaveWord(c *gin.Context) {
	var card words.WordCard
	if err := c.ShouldBindJSON(&card); err != nil {
		respondInvalidRequest(c)
		return
	}
	card.ID = c.Param("id")
	if strings.TrimSpace(card.Word) == "" {
		respondInvalidRequest(c)
		return
	}

	if err := h.words.Save(c.Request.Context(), card); err != nil {
		h.respondInternal(c, "words_save_failed", err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *httpHandler) handleDeleteWord(c *gin.Context) {
	if err := h.words.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondInternal(c, "words_delete_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

type memoryPayload struct {
	CardID       string            `json:"cardId"`
	UserName     string            `json:"userName"`
	Text         string            `json:"text"`
	UserLocation memories.Location `json:"userLocation"`
	MediaURL     string            `json:"mediaUrl"`
	MediaType    string            `json:"mediaType"`
}

func (h *httpHandler) handleCreateMemory(c *gin.Context) {
	var request memoryPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		respondInvalidRequest(c)
		return
	}
	if strings.TrimSpace(request.CardID) == "" ||
		strings.TrimSpace(request.UserName) == "" ||
		strings.TrimSpace(request.Text) == "" {
		respondInvalidRequest(c)
		return
	}

	id, err := h.memories.Create(c.Request.Context(), memories.CreateRequest{
		CardID:       request.CardID,
		UserName:     request.UserName,
		Text:         request.Text,
		UserLocation: request.UserLocation,
		MediaURL:     request.MediaURL,
		MediaType:    memories.MediaType(request.MediaType),
	})
	if err != nil {
		h.respondInternal(c, "memories_create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *httpHandler) handleListAllMemories(c *gin.Context) {
	items, err := h.memories.ListAll(c.Request.Context())
	if err != nil {
		h.respondInternal(c, "memories_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *httpHandler) handleListCardMemories(c *gin.Context) {
	items, err := h.memories.ListByCard(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondInternal(c, "memories_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *httpHandler) handleGetMemory(c *gin.Context) {
	memory, err := h.memories.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if memories.IsNotFound(err) {
			respondNotFound(c)
			return
		}
		h.respondInternal(c, "memories_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, memory)
}

func (h *httpHandler) handleDeleteMemory(c *gin.Context) {
	if err := h.memories.DeleteMemory(c.Request.Context(), c.Param("id")); err != nil {
		h.respondInternal(c, "memories_delete_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

type commentPayload struct {
	UserName string `json:"userName"`
	Text     string `json:"text"`
}

func (h *httpHandler) handleAddComment(c *gin.Context) {
	var request commentPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		respondInvalidRequest(c)
		return
	}
	if strings.TrimSpace(request.UserName) == "" || strings.TrimSpace(request.Text) == "" {
		respondInvalidRequest(c)
		return
	}

	id, err := h.memories.AddComment(c.Request.Context(), c.Param("id"), request.UserName, request.Text)
	if err != nil {
		h.respondInternal(c, "comments_create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *httpHandler) handleListComments(c *gin.Context) {
	items, err := h.memories.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondInternal(c, "comments_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *httpHandler) handleListAllComments(c *gin.Context) {
	items, err := h.memories.ListAllComments(c.Request.Context())
	if err != nil {
		h.respondInternal(c, "comments_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *httpHandler) handleDeleteComment(c *gin.Context) {
	if err := h.memories.DeleteComment(c.Request.Context(), c.Param("id")); err != nil {
		h.respondInternal(c, "comments_delete_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

type personPayload struct {
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	CreatorEmail  string             `json:"creatorEmail"`
	Type          string             `json:"type"`
	EventLocation *memories.Location `json:"eventLocation"`
}

func (h *httpHandler) handleCreatePerson(c *gin.Context) {
	var request personPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.Name) == "" {
		respondInvalidRequest(c)
		return
	}

	result, err := h.persons.Create(c.Request.Context(), persons.CreateRequest{
		Name:          request.Name,
		Description:   request.Description,
		CreatorEmail:  request.CreatorEmail,
		Type:          persons.PageType(request.Type),
		EventLocation: request.EventLocation,
	})
	if err != nil {
		h.respondInternal(c, "persons_create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *httpHandler) handleListPersons(c *gin.Context) {
	pages, err := h.persons.List(c.Request.Context())
	if err != nil {
		h.respondInternal(c, "persons_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, pages)
}

func (h *httpHandler) handleGetPerson(c *gin.Context) {
	page, err := h.persons.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if persons.IsNotFound(err) {
			respondNotFound(c)
			return
		}
		h.respondInternal(c, "persons_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *httpHandler) handleListPersonGifts(c *gin.Context) {
	personID := c.Param("id")
	includeHidden := isTruthy(c.Query("include_hidden"))

	if includeHidden {
		allowed, err := h.persons.VerifyToken(c.Request.Context(), personID, c.Query("beheer"))
		if err != nil {
			h.respondInternal(c, "persons_verify_failed", err)
			return
		}
		if !allowed {
			respondForbidden(c)
			return
		}
	}

	items, err := h.gifts.ListByPerson(c.Request.Context(), personID, includeHidden)
	if err != nil {
		h.respondInternal(c, "gifts_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

type giftPayload struct {
	WithPerson    string            `json:"withPerson"`
	AuthorName    string            `json:"authorName"`
	Memory        string            `json:"memory"`
	Location      memories.Location `json:"location"`
	Word          string            `json:"word"`
	Translation   string            `json:"translation"`
	Explanation   string            `json:"explanation"`
	Country       string            `json:"country"`
	Pronunciation string            `json:"pronunciation"`
	Meaning       string            `json:"meaning"`
	Poem          string            `json:"poem"`
	PersonID      string            `json:"personId"`
}

func (h *httpHandler) handleSaveGift(c *gin.Context) {
	var request giftPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		respondInvalidRequest(c)
		return
	}
	if strings.TrimSpace(request.WithPerson) == "" || strings.TrimSpace(request.Word) == "" {
		respondInvalidRequest(c)
		return
	}

	id, err := h.gifts.Save(c.Request.Context(), gifts.SaveRequest{
		WithPerson:    request.WithPerson,
		AuthorName:    request.AuthorName,
		Memory:        request.Memory,
		Location:      request.Location,
		Word:          request.Word,
		Translation:   request.Translation,
		Explanation:   request.Explanation,
		Country:       request.Country,
		Pronunciation: request.Pronunciation,
		Meaning:       request.Meaning,
		Poem:          request.Poem,
		PersonID:      request.PersonID,
	})
	if err != nil {
		h.respondInternal(c, "gifts_save_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *httpHandler) handleGetGift(c *gin.Context) {
	gift, err := h.gifts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if gifts.IsNotFound(err) {
			respondNotFound(c)
			return
		}
		h.respondInternal(c, "gifts_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, gift)
}

// authorizeGiftAdmin resolves the gift's owning page and checks the beheer
// token against it. A gift without a page cannot be administered.
func (h *httpHandler) authorizeGiftAdmin(c *gin.Context) (gifts.Gift, bool) {
	gift, err := h.gifts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if gifts.IsNotFound(err) {
			respondNotFound(c)
			return gifts.Gift{}, false
		}
		h.respondInternal(c, "gifts_get_failed", err)
		return gifts.Gift{}, false
	}

	if gift.PersonID == "" {
		respondForbidden(c)
		return gifts.Gift{}, false
	}
	allowed, err := h.persons.VerifyToken(c.Request.Context(), gift.PersonID, c.Query("beheer"))
	if err != nil {
		h.respondInternal(c, "persons_verify_failed", err)
		return gifts.Gift{}, false
	}
	if !allowed {
		respondForbidden(c)
		return gifts.Gift{}, false
	}
	return gift, true
}

type hiddenPayload struct {
	Hidden *bool `json:"hidden"`
}

func (h *httpHandler) handleSetGiftHidden(c *gin.Context) {
	var request hiddenPayload
	if err := c.ShouldBindJSON(&request); err != nil || request.Hidden == nil {
		respondInvalidRequest(c)
		return
	}

	gift, ok := h.authorizeGiftAdmin(c)
	if !ok {
		return
	}

	if err := h.gifts.SetHidden(c.Request.Context(), gift.ID, *request.Hidden); err != nil {
		if gifts.IsNotFound(err) {
			respondNotFound(c)
			return
		}
		h.respondInternal(c, "gifts_hide_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": gift.ID, "hidden": *request.Hidden})
}

func (h *httpHandler) handleDeleteGift(c *gin.Context) {
	gift, ok := h.authorizeGiftAdmin(c)
	if !ok {
		return
	}

	if err := h.gifts.Delete(c.Request.Context(), gift.ID); err != nil {
		h.respondInternal(c, "gifts_delete_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

type generateCardPayload struct {
	Theme string `json:"theme"`
}

func (h *httpHandler) handleGenerateCard(c *gin.Context) {
	if h.generator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "generation_unavailable"})
		return
	}

	var request generateCardPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.Theme) == "" {
		respondInvalidRequest(c)
		return
	}

	card, err := h.generator.GenerateWordCard(c.Request.Context(), request.Theme)
	if err != nil {
		h.respondInternal(c, "generation_failed", err)
		return
	}
	c.JSON(http.StatusOK, card)
}

type generateWordPayload struct {
	Type             string `json:"type"`
	WithPerson       string `json:"withPerson"`
	Memory           string `json:"memory"`
	LocationName     string `json:"locationName"`
	EventName        string `json:"eventName"`
	EventDescription string `json:"eventDescription"`
	EventLocation    string `json:"eventLocation"`
}

func (h *httpHandler) handleGenerateWord(c *gin.Context) {
	if h.generator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "generation_unavailable"})
		return
	}

	var request generateWordPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.Memory) == "" {
		respondInvalidRequest(c)
		return
	}

	switch request.Type {
	case "event":
		if strings.TrimSpace(request.EventName) == "" {
			respondInvalidRequest(c)
			return
		}
		gift, err := h.generator.GenerateEventWord(c.Request.Context(),
			request.EventName, request.EventDescription, request.EventLocation, request.Memory)
		if err != nil {
			h.respondInternal(c, "generation_failed", err)
			return
		}
		c.JSON(http.StatusOK, gift)
	case "person", "":
		if strings.TrimSpace(request.WithPerson) == "" {
			respondInvalidRequest(c)
			return
		}
		gift, err := h.generator.GenerateGiftWord(c.Request.Context(),
			request.WithPerson, request.Memory, request.LocationName)
		if err != nil {
			h.respondInternal(c, "generation_failed", err)
			return
		}
		c.JSON(http.StatusOK, gift)
	default:
		respondInvalidRequest(c)
	}
}

type mediaPayload struct {
	DataURL  string `json:"data_url"`
	MemoryID string `json:"memory_id"`
}

func (h *httpHandler) handleUploadMedia(c *gin.Context) {
	if h.media == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media_unavailable"})
		return
	}

	var request mediaPayload
	if err := c.ShouldBindJSON(&request); err != nil ||
		strings.TrimSpace(request.DataURL) == "" ||
		strings.TrimSpace(request.MemoryID) == "" {
		respondInvalidRequest(c)
		return
	}

	path := media.MemoryImagePath(request.MemoryID, h.clock())
	url, err := h.media.UploadDataURL(c.Request.Context(), request.DataURL, path)
	if err != nil {
		if errors.Is(err, media.ErrInvalidDataURL) {
			respondInvalidRequest(c)
			return
		}
		h.respondInternal(c, "media_upload_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *httpHandler) handleReverseGeocode(c *gin.Context) {
	if h.geocoder == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "geocode_unavailable"})
		return
	}

	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		respondInvalidRequest(c)
		return
	}

	location, err := h.geocoder.Reverse(c.Request.Context(), lat, lng)
	if err != nil {
		h.respondInternal(c, "geocode_failed", err)
		return
	}
	c.JSON(http.StatusOK, location)
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
