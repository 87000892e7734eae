package controllers

import (
	"errors"
	"net/http"

	"academic-management-api/config"
	"academic-management-api/models"
	"academic-management-api/repository"
	"academic-management-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PublicationAuthorRequest struct {
	AuthorID        *string `json:"author_id"`
	IsCorresponding *bool   `json:"is_corresponding"`
	AuthorOrder     *int    `json:"author_order"`
}

type ReorderRequest struct {
	IDs []string `json:"ids"`
}

var errUnknownLink = errors.New("list must contain exactly the linked items")

func GetPublicationAuthors(c *gin.Context) {
	pubID, ok := requirePublication(c)
	if !ok {
		return
	}
	var links []models.PublicationAuthor
	err := config.DB.WithContext(c.Request.Context()).
		Preload("Author").
		Where("publication_id = ? AND is_active = ?", pubID, true).
		Order("author_order ASC").
		Find(&links).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch publication authors"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": links})
}

// AddPublicationAuthor links an author. Without author_order the author is
// appended after every order ever used on the publication.
func AddPublicationAuthor(c *gin.Context) {
	pubID, ok := requirePublication(c)
	if !ok {
		return
	}
	var req PublicationAuthorRequest
	if !bindJSON(c, &req) {
		return
	}
	if !checkRequired(c, field("author_id", hasText(req.AuthorID))) {
		return
	}
	authorID, ok := resolveReference[models.Author](c, "author_id", "Author not found", req.AuthorID)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	links := repository.New[models.PublicationAuthor](config.DB)
	exists, err := links.ExistsActive(ctx, "publication_id = ? AND author_id = ?", pubID, *authorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Author is already linked to this publication"})
		return
	}

	var link *models.PublicationAuthor
	err = config.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		link, _, err = services.Linker{}.Link(ctx, tx, pubID, *authorID)
		if err != nil {
			return err
		}
		updates := map[string]interface{}{}
		if req.AuthorOrder != nil {
			updates["author_order"] = *req.AuthorOrder
		}
		if req.IsCorresponding != nil {
			updates["is_corresponding"] = *req.IsCorresponding
		}
		return links.WithTx(tx).Update(ctx, link, updates)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to link author: " + err.Error()})
		return
	}

	config.DB.WithContext(ctx).Preload("Author").First(link, "id = ?", link.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "Author added to publication", "data": link})
}

func findAuthorLink(c *gin.Context, pubID uuid.UUID) (*models.PublicationAuthor, bool) {
	authorID, ok := parseUUIDParam(c, "author_id")
	if !ok {
		return nil, false
	}
	link, err := repository.New[models.PublicationAuthor](config.DB).
		FindActiveWhere(c.Request.Context(), nil, "publication_id = ? AND author_id = ?", pubID, authorID)
	if err != nil {
		respondError(c, err, "Author is not linked to this publication")
		return nil, false
	}
	return link, true
}

func UpdatePublicationAuthor(c *gin.Context) {
	pubID, ok := requirePublication(c)
	if !ok {
		return
	}
	link, ok := findAuthorLink(c, pubID)
	if !ok {
		return
	}
	var req PublicationAuthorRequest
	if !bindJSON(c, &req) {
		return
	}

	updates := map[string]interface{}{}
	if req.AuthorOrder != nil {
		if *req.AuthorOrder < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "author_order must be positive"})
			return
		}
		updates["author_order"] = *req.AuthorOrder
	}
	if req.IsCorresponding != nil {
		updates["is_corresponding"] = *req.IsCorresponding
	}
	if err := repository.New[models.PublicationAuthor](config.DB).Update(c.Request.Context(), link, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update publication author"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Publication author updated", "data": link})
}

func RemovePublicationAuthor(c *gin.Context) {
	pubID, ok := requirePublication(c)
	if !ok {
		return
	}
	link, ok := findAuthorLink(c, pubID)
	if !ok {
		return
	}
	if err := repository.New[models.PublicationAuthor](config.DB).SoftDelete(c.Request.Context(), link.ID); err != nil {
		respondError(c, err, "Author is not linked to this publication")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Author removed from publication"})
}

// ReorderPublicationAuthors assigns orders 1..n following the given author ids.
func ReorderPublicationAuthors(c *gin.Context) {
	pubID, ok := requirePublication(c)
	if !ok {
		return
	}
	var req ReorderRequest
	if !bindJSON(c, &req) {
		return
	}
	ids, ok := parseIDList(c, req.IDs)
	if !ok {
		return
	}

	err := config.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		return reorder(tx, &models.PublicationAuthor{}, "author_order",
			"publication_id = ? AND is_active = ?", []interface{}{pubID, true}, "author_id", ids)
	})
	if err != nil {
		if errors.Is(err, errUnknownLink) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder authors"})
		return
	}
	GetPublicationAuthors(c)
}

func parseIDList(c *gin.Context, raw []string) ([]uuid.UUID, bool) {
	if len(raw) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Field ids is required"})
		return nil, false
	}
	ids := make([]uuid.UUID, len(raw))
	seen := make(map[uuid.UUID]bool, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil || seen[id] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or duplicate id in ids"})
			return nil, false
		}
		seen[id] = true
		ids[i] = id
	}
	return ids, true
}

// reorder sets orderColumn to 1..n for the rows in scope, matched on keyColumn
// in the order of keys. keys must cover the scope exactly.
func reorder(tx *gorm.DB, model interface{}, orderColumn, scope string, scopeArgs []interface{}, keyColumn string, keys []uuid.UUID) error {
	var count int64
	if err := tx.Model(model).Where(scope, scopeArgs...).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(keys) {
		return errUnknownLink
	}
	for i, key := range keys {
		res := tx.Model(model).
			Where(scope, scopeArgs...).
			Where(keyColumn+" = ?", key).
			Update(orderColumn, i+1)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errUnknownLink
		}
	}
	return nil
}
