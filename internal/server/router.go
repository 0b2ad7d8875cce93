// Package server exposes the HTTP API over the domain services.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emberwords/backend/internal/generator"
	"github.com/emberwords/backend/internal/geo"
	"github.com/emberwords/backend/internal/gifts"
	"github.com/emberwords/backend/internal/memories"
	"github.com/emberwords/backend/internal/persons"
	"github.com/emberwords/backend/internal/words"
)

var (
	errMissingWordsService    = errors.New("words service dependency required")
	errMissingMemoriesService = errors.New("memories service dependency required")
	errMissingPersonsService  = errors.New("persons service dependency required")
	errMissingGiftsService    = errors.New("gifts service dependency required")
)

// WordGenerator produces cards and gift words. Nil disables the
// /generate routes.
type WordGenerator interface {
	GenerateWordCard(ctx context.Context, theme string) (words.WordCard, error)
	GenerateGiftWord(ctx context.Context, withPerson, memory, locationName string) (generator.GiftWord, error)
	GenerateEventWord(ctx context.Context, eventName, eventDescription, eventLocation, memory string) (generator.GiftWord, error)
}

// MediaUploader stores data URLs as objects. Nil disables the /media route.
type MediaUploader interface {
	UploadDataURL(ctx context.Context, dataURL, path string) (string, error)
}

// ReverseGeocoder resolves coordinates into place names. Nil disables the
// /geo routes.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (geo.Location, error)
}

type Dependencies struct {
	Words     *words.Service
	Memories  *memories.Service
	Persons   *persons.Service
	Gifts     *gifts.Service
	Generator WordGenerator
	Media     MediaUploader
	Geocoder  ReverseGeocoder
	Clock     func() time.Time
	Logger    *zap.Logger
}

func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Words == nil {
		return nil, errMissingWordsService
	}
	if deps.Memories == nil {
		return nil, errMissingMemoriesService
	}
	if deps.Persons == nil {
		return nil, errMissingPersonsService
	}
	if deps.Gifts == nil {
		return nil, errMissingGiftsService
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		words:     deps.Words,
		memories:  deps.Memories,
		persons:   deps.Persons,
		gifts:     deps.Gifts,
		generator: deps.Generator,
		media:     deps.Media,
		geocoder:  deps.Geocoder,
		clock:     clock,
		logger:    logger,
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	api.GET("/words", handler.handleListWords)
	api.GET("/words/:id", handler.handleGetWord)
	api.PUT("/words/:id", handler.handleSaveWord)
	api.DELETE("/words/:id", handler.handleDeleteWord)
	api.GET("/words/:id/memories", handler.handleListCardMemories)

	api.POST("/memories", handler.handleCreateMemory)
	api.GET("/memories", handler.handleListAllMemories)
	api.GET("/memories/:id", handler.handleGetMemory)
	api.DELETE("/memories/:id", handler.handleDeleteMemory)
	api.POST("/memories/:id/comments", handler.handleAddComment)
	api.GET("/memories/:id/comments", handler.handleListComments)
	api.GET("/comments", handler.handleListAllComments)
	api.DELETE("/comments/:id", handler.handleDeleteComment)

	api.POST("/persons", handler.handleCreatePerson)
	api.GET("/persons", handler.handleListPersons)
	api.GET("/persons/:id", handler.handleGetPerson)
	api.GET("/persons/:id/gifts", handler.handleListPersonGifts)

	api.POST("/gifts", handler.handleSaveGift)
	api.GET("/gifts/:id", handler.handleGetGift)
	api.PATCH("/gifts/:id/hidden", handler.handleSetGiftHidden)
	api.DELETE("/gifts/:id", handler.handleDeleteGift)

	api.POST("/generate/card", handler.handleGenerateCard)
	api.POST("/generate/word", handler.handleGenerateWord)

	api.POST("/media", handler.handleUploadMedia)

	api.GET("/geo/reverse", handler.handleReverseGeocode)

	return router, nil
}

type httpHandler struct {
	words     *words.Service
	memories  *memories.Service
	persons   *persons.Service
	gifts     *gifts.Service
	generator WordGenerator
	media     MediaUploader
	geocoder  ReverseGeocoder
	clock     func() time.Time
	logger    *zap.Logger
}

func respondInvalidRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
}

func respondNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
}

func respondForbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
}

func (h *httpHandler) respondInternal(c *gin.Context, code string, err error) {
	h.logger.Error("request failed", zap.String("code", code), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": code})
}
