package controllers

import (
	"net/http"
	"strings"

	"academic-management-api/config"
	"academic-management-api/models"
	"academic-management-api/repository"
	"academic-management-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PublicationAuthorInput struct {
	AuthorID        string `json:"author_id"`
	IsCorresponding bool   `json:"is_corresponding"`
	AuthorOrder     *int   `json:"author_order"`
}

type PublicationRequest struct {
	Title             *string                  `json:"title"`
	Abstract          *string                  `json:"abstract"`
	DOI               *string                  `json:"doi"`
	ExternalID        *string                  `json:"external_id"`
	PublicationDate   *string                  `json:"publication_date"`
	PDFURL            *string                  `json:"pdf_url"`
	URL               *string                  `json:"url"`
	Year              *int                     `json:"year"`
	Month             *int                     `json:"month"`
	Day               *int                     `json:"day"`
	CitationCount     *int                     `json:"citation_count"`
	PublicationTypeID *string                  `json:"publication_type_id"`
	JournalID         *string                  `json:"journal_id"`
	ConferenceID      *string                  `json:"conference_id"`
	ProjectID         *string                  `json:"project_id"`
	Authors           []PublicationAuthorInput `json:"authors"`
	Keywords          []string                 `json:"keywords"`
}

// activeAuthorLinks preloads active author links in order.
func activeAuthorLinks(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Authors", func(q *gorm.DB) *gorm.DB {
			return q.Where("is_active = ?", true).Order("author_order ASC")
		}).
		Preload("Authors.Author").
		Preload("Keywords", "is_active = ?", true).
		Preload("Keywords.Keyword")
}

func loadPublication(c *gin.Context, id uuid.UUID) (*models.Publication, bool) {
	pub, err := repository.New[models.Publication](config.DB.Scopes(activeAuthorLinks)).
		FindActiveWith(c.Request.Context(), id, "PublicationType", "Journal", "Conference")
	if err != nil {
		respondError(c, err, "Publication not found")
		return nil, false
	}
	return pub, true
}

// resolveReference validates an optional foreign key against active rows of T.
func resolveReference[T any](c *gin.Context, name, notFound string, raw *string) (*uuid.UUID, bool) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, true
	}
	id, ok := parseUUIDField(c, name, raw)
	if !ok {
		return nil, false
	}
	if _, err := repository.New[T](config.DB).FindActive(c.Request.Context(), id); err != nil {
		respondError(c, err, notFound)
		return nil, false
	}
	return &id, true
}

func GetPublications(c *gin.Context) {
	q := listQuery(c, 10, []string{"created_at", "title", "publication_date", "year", "citation_count"}, "title")
	q.SortDir = c.DefaultQuery("sort_dir", "desc")
	for _, col := range []string{"publication_type_id", "journal_id", "conference_id", "project_id"} {
		if v := c.Query(col); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + col})
				return
			}
			col := col
			q.Scopes = append(q.Scopes, func(db *gorm.DB) *gorm.DB { return db.Where(col+" = ?", id) })
		}
	}
	q.Preloads = []string{"PublicationType", "Journal", "Conference"}
	q.FindScopes = append(q.FindScopes, activeAuthorLinks)

	page, err := repository.New[models.Publication](config.DB).List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch publications"})
		return
	}
	respondPage(c, page)
}

func GetPublication(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	pub, ok := loadPublication(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pub})
}

// CreatePublication stores a publication with its optional author and keyword links.
func CreatePublication(c *gin.Context) {
	var req PublicationRequest
	if !bindJSON(c, &req) {
		return
	}
	if !checkRequired(c, field("title", hasText(req.Title)), field("publication_type_id", hasText(req.PublicationTypeID))) {
		return
	}
	if hasText(req.JournalID) && hasText(req.ConferenceID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A publication cannot belong to both a journal and a conference"})
		return
	}
	if !validPublicationLinks(c, req) {
		return
	}

	typeID, ok := resolveReference[models.PublicationType](c, "publication_type_id", "Publication type not found", req.PublicationTypeID)
	if !ok {
		return
	}
	journalID, ok := resolveReference[models.Journal](c, "journal_id", "Journal not found", req.JournalID)
	if !ok {
		return
	}
	conferenceID, ok := resolveReference[models.Conference](c, "conference_id", "Conference not found", req.ConferenceID)
	if !ok {
		return
	}
	projectID, ok := resolveReference[models.Project](c, "project_id", "Project not found", req.ProjectID)
	if !ok {
		return
	}
	pubDate, ok := parseDateField(c, "publication_date", req.PublicationDate)
	if !ok {
		return
	}

	authorIDs := make([]uuid.UUID, len(req.Authors))
	for i, a := range req.Authors {
		id, err := uuid.Parse(a.AuthorID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid author_id in authors"})
			return
		}
		authorIDs[i] = id
	}
	keywordIDs := make([]uuid.UUID, len(req.Keywords))
	for i, k := range req.Keywords {
		id, err := uuid.Parse(k)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid keyword id in keywords"})
			return
		}
		keywordIDs[i] = id
	}

	pub := models.Publication{
		Title:             strings.TrimSpace(*req.Title),
		Abstract:          trimmed(req.Abstract),
		DOI:               emptyToNil(req.DOI),
		ExternalID:        emptyToNil(req.ExternalID),
		PublicationDate:   pubDate,
		PDFURL:            trimmed(req.PDFURL),
		URL:               trimmed(req.URL),
		Year:              req.Year,
		Month:             req.Month,
		Day:               req.Day,
		PublicationTypeID: *typeID,
		JournalID:         journalID,
		ConferenceID:      conferenceID,
		ProjectID:         projectID,
	}
	if req.CitationCount != nil {
		pub.CitationCount = *req.CitationCount
	}

	err := config.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&pub).Error; err != nil {
			return err
		}
		for i, a := range req.Authors {
			order := i + 1
			if a.AuthorOrder != nil {
				order = *a.AuthorOrder
			}
			link := models.PublicationAuthor{
				PublicationID:   pub.ID,
				AuthorID:        authorIDs[i],
				IsCorresponding: a.IsCorresponding,
				AuthorOrder:     order,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		for _, kid := range keywordIDs {
			if err := tx.Create(&models.PublicationKeyword{PublicationID: pub.ID, KeywordID: kid}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Duplicate DOI, external id or link"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, ok := loadPublication(c, pub.ID)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Publication created successfully", "data": created})
}

func UpdatePublication(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req PublicationRequest
	if !bindJSON(c, &req) {
		return
	}
	if hasText(req.JournalID) && hasText(req.ConferenceID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A publication cannot belong to both a journal and a conference"})
		return
	}
	if !validPublicationLinks(c, req) {
		return
	}

	pubs := repository.New[models.Publication](config.DB)
	pub, err := pubs.FindActive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Publication not found")
		return
	}

	updates := map[string]interface{}{}
	if hasText(req.Title) {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Abstract != nil {
		updates["abstract"] = trimmed(req.Abstract)
	}
	if req.DOI != nil {
		updates["doi"] = emptyToNil(req.DOI)
	}
	if req.ExternalID != nil {
		updates["external_id"] = emptyToNil(req.ExternalID)
	}
	if req.PublicationDate != nil {
		d, ok := parseDateField(c, "publication_date", req.PublicationDate)
		if !ok {
			return
		}
		updates["publication_date"] = d
	}
	if req.PDFURL != nil {
		updates["pdf_url"] = trimmed(req.PDFURL)
	}
	if req.URL != nil {
		updates["url"] = trimmed(req.URL)
	}
	if req.Year != nil {
		updates["year"] = *req.Year
	}
	if req.Month != nil {
		updates["month"] = *req.Month
	}
	if req.Day != nil {
		updates["day"] = *req.Day
	}
	if req.CitationCount != nil {
		updates["citation_count"] = *req.CitationCount
	}
	if hasText(req.PublicationTypeID) {
		typeID, ok := resolveReference[models.PublicationType](c, "publication_type_id", "Publication type not found", req.PublicationTypeID)
		if !ok {
			return
		}
		updates["publication_type_id"] = *typeID
	}
	if req.JournalID != nil {
		journalID, ok := resolveReference[models.Journal](c, "journal_id", "Journal not found", req.JournalID)
		if !ok {
			return
		}
		updates["journal_id"] = journalID
		if journalID != nil {
			updates["conference_id"] = nil
		}
	}
	if req.ConferenceID != nil {
		conferenceID, ok := resolveReference[models.Conference](c, "conference_id", "Conference not found", req.ConferenceID)
		if !ok {
			return
		}
		updates["conference_id"] = conferenceID
		if conferenceID != nil {
			updates["journal_id"] = nil
		}
	}
	if req.ProjectID != nil {
		projectID, ok := resolveReference[models.Project](c, "project_id", "Project not found", req.ProjectID)
		if !ok {
			return
		}
		updates["project_id"] = projectID
	}

	if err := pubs.Update(c.Request.Context(), pub, updates); err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Duplicate DOI or external id"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update publication"})
		return
	}

	updated, ok := loadPublication(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Publication updated successfully", "data": updated})
}

func DeletePublication(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := repository.New[models.Publication](config.DB).SoftDelete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Publication not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Publication deleted successfully"})
}

// requirePublication answers 404 unless the publication in :id is active.
func requirePublication(c *gin.Context) (uuid.UUID, bool) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return uuid.Nil, false
	}
	if _, err := repository.New[models.Publication](config.DB).FindActive(c.Request.Context(), id); err != nil {
		respondError(c, err, "Publication not found")
		return uuid.Nil, false
	}
	return id, true
}

func validPublicationLinks(c *gin.Context, req PublicationRequest) bool {
	return checkFormat(c, "doi", req.DOI, utils.ValidateDOI) &&
		checkFormat(c, "url", req.URL, utils.ValidateURL) &&
		checkFormat(c, "pdf_url", req.PDFURL, utils.ValidateURL)
}
