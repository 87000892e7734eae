package controllers

import (
	"errors"
	"net/http"
	"strings"

	"academic-management-api/config"
	"academic-management-api/models"
	"academic-management-api/repository"
	"academic-management-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PublicationKeywordRequest struct {
	KeywordID   *string `json:"keyword_id"`
	KeywordText *string `json:"keyword_text"`
}

type PublicationKeywordBatchRequest struct {
	Keywords []PublicationKeywordRequest `json:"keywords"`
}

// KeywordItemResult reports the outcome of one entry of a batch.
type KeywordItemResult struct {
	Outcome   services.ItemOutcome `json:"outcome"`
	KeywordID *uuid.UUID           `json:"keyword_id,omitempty"`
	Name      string               `json:"name,omitempty"`
	Reason    string               `json:"reason,omitempty"`
}

func GetPublicationKeywords(c *gin.Context) {
	pubID, ok := requirePublication(c)
	if !ok {
		return
	}
	var links []models.PublicationKeyword
	err := config.DB.WithContext(c.Request.Context()).
		Preload("Keyword").
		Where("publication_id = ? AND is_active = ?", pubID, true).
		Order("created_at ASC").
		Find(&links).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch publication keywords"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": links})
}

var (
	errKeywordMissing   = errors.New("Field keyword_id or keyword_text is required")
	errInvalidKeywordID = errors.New("Invalid keyword_id")
)

// attachKeyword resolves the request to a keyword and links it inside tx.
func attachKeyword(c *gin.Context, tx *gorm.DB, pubID uuid.UUID, req PublicationKeywordRequest) (*models.PublicationKeyword, *models.Keyword, error) {
	ctx := c.Request.Context()
	var kw *models.Keyword
	switch {
	case hasText(req.KeywordID):
		id, err := uuid.Parse(strings.TrimSpace(*req.KeywordID))
		if err != nil {
			return nil, nil, errInvalidKeywordID
		}
		kw, err = repository.New[models.Keyword](tx).FindActive(ctx, id)
		if err != nil {
			return nil, nil, err
		}
	case hasText(req.KeywordText):
		var err error
		kw, err = services.EnsureKeyword(ctx, tx, *req.KeywordText)
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, errKeywordMissing
	}
	link, err := services.AttachKeyword(ctx, tx, pubID, kw.ID)
	return link, kw, err
}

func AddPublicationKeyword(c *gin.Context) {
	pubID, ok := requirePublication(c)
	if !ok {
		return
	}
	var req PublicationKeywordRequest
	if !bindJSON(c, &req) {
		return
	}

	var link *models.PublicationKeyword
	var kw *models.Keyword
	err := config.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var err error
		link, kw, err = attachKeyword(c, tx, pubID, req)
		return err
	})
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Keyword not found"})
		return
	case errors.Is(err, services.ErrKeywordAlreadyLinked):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Keyword is already linked to this publication"})
		return
	case errors.Is(err, errKeywordMissing), errors.Is(err, errInvalidKeywordID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add keyword: " + err.Error()})
		return
	}

	link.Keyword = kw
	c.JSON(http.StatusCreated, gin.H{"message": "Keyword added to publication", "data": link})
}

// AddPublicationKeywordsBatch links several keywords. Each entry succeeds or
// fails on its own.
func AddPublicationKeywordsBatch(c *gin.Context) {
	pubID, ok := requirePublication(c)
	if !ok {
		return
	}
	var req PublicationKeywordBatchRequest
	if !bindJSON(c, &req) {
		return
	}
	if len(req.Keywords) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Field keywords is required"})
		return
	}

	results := make([]KeywordItemResult, 0, len(req.Keywords))
	var stats services.SyncStats
	for _, item := range req.Keywords {
		var kw *models.Keyword
		err := config.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			var err error
			_, kw, err = attachKeyword(c, tx, pubID, item)
			return err
		})

		res := KeywordItemResult{Outcome: services.OutcomeAdded}
		switch {
		case err == nil:
		case errors.Is(err, services.ErrKeywordAlreadyLinked):
			res.Outcome = services.OutcomeSkipped
			res.Reason = err.Error()
		default:
			res.Outcome = services.OutcomeFailed
			res.Reason = err.Error()
		}
		if kw != nil {
			res.KeywordID = &kw.ID
			res.Name = kw.Name
		}
		stats.Record(services.ItemResult{Outcome: res.Outcome})
		results = append(results, res)
	}

	c.JSON(http.StatusOK, gin.H{"data": results, "stats": stats})
}

func RemovePublicationKeyword(c *gin.Context) {
	pubID, ok := requirePublication(c)
	if !ok {
		return
	}
	keywordID, ok := parseUUIDParam(c, "keyword_id")
	if !ok {
		return
	}
	links := repository.New[models.PublicationKeyword](config.DB)
	link, err := links.FindActiveWhere(c.Request.Context(), nil, "publication_id = ? AND keyword_id = ?", pubID, keywordID)
	if err == nil {
		err = links.SoftDelete(c.Request.Context(), link.ID)
	}
	if err != nil {
		respondError(c, err, "Keyword is not linked to this publication")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Keyword removed from publication"})
}
