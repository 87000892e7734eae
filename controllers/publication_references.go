package controllers

import (
	"errors"
	"net/http"

	"academic-management-api/config"
	"academic-management-api/models"
	"academic-management-api/repository"
	"academic-management-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PublicationReferenceRequest struct {
	ReferenceText          *string `json:"reference_text"`
	ReferencePublicationID *string `json:"reference_publication_id"`
	DOI                    *string `json:"doi"`
	URL                    *string `json:"url"`
	ReferenceOrder         *int    `json:"reference_order"`
}

func GetPublicationReferences(c *gin.Context) {
	pubID, ok := requirePublication(c)
	if !ok {
		return
	}
	var refs []models.PublicationReference
	err := config.DB.WithContext(c.Request.Context()).
		Preload("ReferencedPublication").
		Where("citing_publication_id = ? AND is_active = ?", pubID, true).
		Order("reference_order ASC").
		Find(&refs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch references"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": refs})
}

// referencedPublication validates reference_publication_id for the citing publication.
func referencedPublication(c *gin.Context, citing uuid.UUID, raw *string) (*uuid.UUID, bool) {
	id, ok := resolveReference[models.Publication](c, "reference_publication_id", "Referenced publication not found", raw)
	if !ok {
		return nil, false
	}
	if id != nil && *id == citing {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A publication cannot reference itself"})
		return nil, false
	}
	return id, true
}

func AddPublicationReference(c *gin.Context) {
	pubID, ok := requirePublication(c)
	if !ok {
		return
	}
	var req PublicationReferenceRequest
	if !bindJSON(c, &req) {
		return
	}
	if !checkFormat(c, "doi", req.DOI, utils.ValidateDOI) || !checkFormat(c, "url", req.URL, utils.ValidateURL) {
		return
	}
	if !hasText(req.ReferenceText) && !hasText(req.ReferencePublicationID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Field reference_text or reference_publication_id is required"})
		return
	}
	refID, ok := referencedPublication(c, pubID, req.ReferencePublicationID)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	ref := models.PublicationReference{
		CitingPublicationID:     pubID,
		ReferencedPublicationID: refID,
		ReferenceText:           emptyToNil(req.ReferenceText),
		DOI:                     emptyToNil(req.DOI),
		URL:                     emptyToNil(req.URL),
	}
	err := config.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		refs := repository.New[models.PublicationReference](tx)
		if req.ReferenceOrder != nil {
			ref.ReferenceOrder = *req.ReferenceOrder
		} else {
			current, err := refs.MaxInt(ctx, "reference_order", "citing_publication_id = ?", pubID)
			if err != nil {
				return err
			}
			ref.ReferenceOrder = current + 1
		}
		return refs.Create(ctx, &ref)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add reference"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Reference added successfully", "data": ref})
}

func findReference(c *gin.Context, pubID uuid.UUID) (*models.PublicationReference, bool) {
	refID, ok := parseUUIDParam(c, "reference_id")
	if !ok {
		return nil, false
	}
	ref, err := repository.New[models.PublicationReference](config.DB).
		FindActiveWhere(c.Request.Context(), nil, "id = ? AND citing_publication_id = ?", refID, pubID)
	if err != nil {
		respondError(c, err, "Reference not found")
		return nil, false
	}
	return ref, true
}

func UpdatePublicationReference(c *gin.Context) {
	pubID, ok := requirePublication(c)
	if !ok {
		return
	}
	ref, ok := findReference(c, pubID)
	if !ok {
		return
	}
	var req PublicationReferenceRequest
	if !bindJSON(c, &req) {
		return
	}
	if !checkFormat(c, "doi", req.DOI, utils.ValidateDOI) || !checkFormat(c, "url", req.URL, utils.ValidateURL) {
		return
	}

	updates := map[string]interface{}{}
	if req.ReferenceText != nil {
		updates["reference_text"] = emptyToNil(req.ReferenceText)
	}
	if req.ReferencePublicationID != nil {
		refID, ok := referencedPublication(c, pubID, req.ReferencePublicationID)
		if !ok {
			return
		}
		updates["referenced_publication_id"] = refID
	}
	if req.DOI != nil {
		updates["doi"] = emptyToNil(req.DOI)
	}
	if req.URL != nil {
		updates["url"] = emptyToNil(req.URL)
	}
	if req.ReferenceOrder != nil {
		updates["reference_order"] = *req.ReferenceOrder
	}

	text, target := ref.ReferenceText, ref.ReferencedPublicationID
	if v, ok := updates["reference_text"]; ok {
		text = v.(*string)
	}
	if v, ok := updates["referenced_publication_id"]; ok {
		target = v.(*uuid.UUID)
	}
	if text == nil && target == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Field reference_text or reference_publication_id is required"})
		return
	}

	if err := repository.New[models.PublicationReference](config.DB).Update(c.Request.Context(), ref, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reference"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reference updated successfully", "data": ref})
}

func DeletePublicationReference(c *gin.Context) {
	pubID, ok := requirePublication(c)
	if !ok {
		return
	}
	ref, ok := findReference(c, pubID)
	if !ok {
		return
	}
	if err := repository.New[models.PublicationReference](config.DB).SoftDelete(c.Request.Context(), ref.ID); err != nil {
		respondError(c, err, "Reference not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reference deleted successfully"})
}

// ReorderPublicationReferences assigns orders 1..n following the given reference ids.
func ReorderPublicationReferences(c *gin.Context) {
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
		return reorder(tx, &models.PublicationReference{}, "reference_order",
			"citing_publication_id = ? AND is_active = ?", []interface{}{pubID, true}, "id", ids)
	})
	if err != nil {
		if errors.Is(err, errUnknownLink) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder references"})
		return
	}
	GetPublicationReferences(c)
}
