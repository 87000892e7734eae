package controllers

import (
	"net/http"
	"strings"

	"academic-management-api/config"
	"academic-management-api/models"
	"academic-management-api/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AcquisitionRequest struct {
	ProjectID     *string  `json:"project_id"`
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Amount        *float64 `json:"amount"`
	PurchaseDate  *string  `json:"purchase_date"`
	Category      *string  `json:"category"`
	Supplier      *string  `json:"supplier"`
	InvoiceNumber *string  `json:"invoice_number"`
}

func CreateAcquisition(c *gin.Context) {
	var req AcquisitionRequest
	if !bindJSON(c, &req) {
		return
	}
	if !checkRequired(c,
		field("project_id", hasText(req.ProjectID)),
		field("name", hasText(req.Name)),
		field("amount", req.Amount != nil)) {
		return
	}
	if *req.Amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must not be negative"})
		return
	}
	projectID, ok := parseUUIDField(c, "project_id", req.ProjectID)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := projectAccess().RequireManager(ctx, projectID, currentUserID(c)); err != nil {
		respondError(c, err, "Project not found")
		return
	}
	purchased, ok := parseDateField(c, "purchase_date", req.PurchaseDate)
	if !ok {
		return
	}

	acquisition := models.Acquisition{
		ProjectID:     projectID,
		Name:          strings.TrimSpace(*req.Name),
		Description:   trimmed(req.Description),
		Amount:        *req.Amount,
		PurchaseDate:  purchased,
		Category:      emptyToNil(req.Category),
		Supplier:      emptyToNil(req.Supplier),
		InvoiceNumber: emptyToNil(req.InvoiceNumber),
	}
	if err := repository.New[models.Acquisition](config.DB).Create(ctx, &acquisition); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create acquisition"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Acquisition created successfully", "data": acquisition})
}

// GetAcquisitions lists a project's acquisitions, optionally by category and
// purchase date range.
func GetAcquisitions(c *gin.Context) {
	projectID, ok := uuidQuery(c, "project_id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := projectAccess().RequireMember(ctx, projectID, currentUserID(c)); err != nil {
		respondError(c, err, "Project not found")
		return
	}

	q := listQuery(c, 20, []string{"purchase_date", "created_at", "amount", "name"}, "name", "supplier")
	q.SortDir = c.DefaultQuery("sort_dir", "desc")
	q.Scopes = append(q.Scopes, func(db *gorm.DB) *gorm.DB { return db.Where("project_id = ?", projectID) })
	if category := c.Query("category"); category != "" {
		q.Scopes = append(q.Scopes, func(db *gorm.DB) *gorm.DB { return db.Where("category = ?", category) })
	}
	for param, op := range map[string]string{"start_date": ">=", "end_date": "<="} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		d, err := parseDate(param, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		op := op
		q.Scopes = append(q.Scopes, func(db *gorm.DB) *gorm.DB { return db.Where("purchase_date "+op+" ?", d) })
	}

	page, err := repository.New[models.Acquisition](config.DB).List(ctx, q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch acquisitions"})
		return
	}
	respondPage(c, page)
}

func loadAcquisition(c *gin.Context, manage bool) (*models.Acquisition, bool) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil, false
	}
	ctx := c.Request.Context()
	acquisition, err := repository.New[models.Acquisition](config.DB).FindActive(ctx, id)
	if err != nil {
		respondError(c, err, "Acquisition not found")
		return nil, false
	}
	check := projectAccess().RequireMember
	if manage {
		check = projectAccess().RequireManager
	}
	if err := check(ctx, acquisition.ProjectID, currentUserID(c)); err != nil {
		respondError(c, err, "Project not found")
		return nil, false
	}
	return acquisition, true
}

func GetAcquisition(c *gin.Context) {
	if acquisition, ok := loadAcquisition(c, false); ok {
		c.JSON(http.StatusOK, gin.H{"data": acquisition})
	}
}

func UpdateAcquisition(c *gin.Context) {
	acquisition, ok := loadAcquisition(c, true)
	if !ok {
		return
	}
	var req AcquisitionRequest
	if !bindJSON(c, &req) {
		return
	}

	updates := map[string]interface{}{}
	if hasText(req.Name) {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = trimmed(req.Description)
	}
	if req.Amount != nil {
		if *req.Amount < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must not be negative"})
			return
		}
		updates["amount"] = *req.Amount
	}
	if req.PurchaseDate != nil {
		d, ok := parseDateField(c, "purchase_date", req.PurchaseDate)
		if !ok {
			return
		}
		updates["purchase_date"] = d
	}
	if req.Category != nil {
		updates["category"] = emptyToNil(req.Category)
	}
	if req.Supplier != nil {
		updates["supplier"] = emptyToNil(req.Supplier)
	}
	if req.InvoiceNumber != nil {
		updates["invoice_number"] = emptyToNil(req.InvoiceNumber)
	}

	if err := repository.New[models.Acquisition](config.DB).Update(c.Request.Context(), acquisition, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update acquisition"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Acquisition updated successfully", "data": acquisition})
}

func DeleteAcquisition(c *gin.Context) {
	acquisition, ok := loadAcquisition(c, true)
	if !ok {
		return
	}
	if err := repository.New[models.Acquisition](config.DB).SoftDelete(c.Request.Context(), acquisition.ID); err != nil {
		respondError(c, err, "Acquisition not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Acquisition deleted successfully"})
}
