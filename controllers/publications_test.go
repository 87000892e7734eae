package controllers

import (
	"net/http"
	"testing"

	"academic-management-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePublication_RequiredFields(t *testing.T) {
	s := newTestServer(t)
	_, token := s.user("alice")

	code, body := s.do(http.MethodPost, "/api/v1/publications", token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Field title is required", body["error"])

	code, body = s.do(http.MethodPost, "/api/v1/publications", token, map[string]interface{}{"title": "Graphs"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Field publication_type_id is required", body["error"])

	code, _ = s.do(http.MethodPost, "/api/v1/publications", token, map[string]interface{}{
		"title":               "Graphs",
		"publication_type_id": s.seed.ArticleType.ID.String(),
		"journal_id":          s.seed.ArticleType.ID.String(),
		"conference_id":       s.seed.ArticleType.ID.String(),
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = s.do(http.MethodPost, "/api/v1/publications", token, map[string]interface{}{
		"title":               "Graphs",
		"publication_type_id": s.seed.ArticleType.ID.String(),
		"doi":                 "https://doi.org/10.1000/xyz",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid doi format", body["error"])
}

func TestCreatePublication_WithAuthorsAndKeywords(t *testing.T) {
	s := newTestServer(t)
	_, token := s.user("alice")

	ada := models.Author{FirstName: "Ada", LastName: "Lovelace"}
	alan := models.Author{FirstName: "Alan", LastName: "Turing"}
	kw := models.Keyword{Name: "computability"}
	require.NoError(t, s.db.Create(&ada).Error)
	require.NoError(t, s.db.Create(&alan).Error)
	require.NoError(t, s.db.Create(&kw).Error)

	code, body := s.do(http.MethodPost, "/api/v1/publications", token, map[string]interface{}{
		"title":               "On Computable Numbers",
		"publication_type_id": s.seed.ArticleType.ID.String(),
		"doi":                 "10.1112/plms/s2-42.1.230",
		"authors": []map[string]interface{}{
			{"author_id": alan.ID.String(), "is_corresponding": true},
			{"author_id": ada.ID.String()},
		},
		"keywords": []string{kw.ID.String()},
	})
	require.Equal(t, http.StatusCreated, code, body)

	data := body["data"].(map[string]interface{})
	authors := data["authors"].([]interface{})
	require.Len(t, authors, 2)
	first := authors[0].(map[string]interface{})
	assert.Equal(t, alan.ID.String(), first["author_id"])
	assert.EqualValues(t, 1, first["author_order"])
	assert.Equal(t, true, first["is_corresponding"])
	assert.EqualValues(t, 2, authors[1].(map[string]interface{})["author_order"])
	assert.Len(t, data["keywords"], 1)

	code, body = s.do(http.MethodGet, "/api/v1/publications?search=computable", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["total"])
	listed := body["data"].([]interface{})[0].(map[string]interface{})
	assert.Len(t, listed["authors"], 2)

	code, body = s.do(http.MethodPost, "/api/v1/publications", token, map[string]interface{}{
		"title":               "Duplicate",
		"publication_type_id": s.seed.ArticleType.ID.String(),
		"doi":                 "10.1112/plms/s2-42.1.230",
	})
	assert.Equal(t, http.StatusBadRequest, code, body)
}

func TestPublicationAuthors_DuplicateAndRevive(t *testing.T) {
	s := newTestServer(t)
	_, token := s.user("alice")

	pub := models.Publication{Title: "Notes", PublicationTypeID: s.seed.ArticleType.ID}
	ada := models.Author{FirstName: "Ada", LastName: "Lovelace"}
	alan := models.Author{FirstName: "Alan", LastName: "Turing"}
	require.NoError(t, s.db.Create(&pub).Error)
	require.NoError(t, s.db.Create(&ada).Error)
	require.NoError(t, s.db.Create(&alan).Error)
	path := "/api/v1/publications/" + pub.ID.String() + "/authors"

	code, body := s.do(http.MethodPost, path, token, map[string]interface{}{"author_id": ada.ID.String()})
	require.Equal(t, http.StatusCreated, code, body)
	assert.EqualValues(t, 1, body["data"].(map[string]interface{})["author_order"])

	code, body = s.do(http.MethodPost, path, token, map[string]interface{}{"author_id": ada.ID.String()})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Author is already linked to this publication", body["error"])

	code, _ = s.do(http.MethodPost, path, token, map[string]interface{}{"author_id": alan.ID.String()})
	require.Equal(t, http.StatusCreated, code)

	code, _ = s.do(http.MethodDelete, path+"/"+ada.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, code)

	// Re-linking restores the original position.
	code, body = s.do(http.MethodPost, path, token, map[string]interface{}{"author_id": ada.ID.String()})
	require.Equal(t, http.StatusCreated, code, body)
	assert.EqualValues(t, 1, body["data"].(map[string]interface{})["author_order"])

	code, _ = s.do(http.MethodPut, path+"/reorder", token, map[string]interface{}{"ids": []string{alan.ID.String()}})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPut, path+"/reorder", token, map[string]interface{}{"ids": []string{alan.ID.String(), ada.ID.String()}})
	require.Equal(t, http.StatusOK, code)
	var link models.PublicationAuthor
	require.NoError(t, s.db.Where("publication_id = ? AND author_id = ?", pub.ID, alan.ID).First(&link).Error)
	assert.Equal(t, 1, link.AuthorOrder)
}

func TestAddPublicationKeywordsBatch_ReportsEachItem(t *testing.T) {
	s := newTestServer(t)
	_, token := s.user("alice")
	pub := models.Publication{Title: "Notes", PublicationTypeID: s.seed.ArticleType.ID}
	require.NoError(t, s.db.Create(&pub).Error)

	code, body := s.do(http.MethodPost, "/api/v1/publications/"+pub.ID.String()+"/keywords/batch", token, map[string]interface{}{
		"keywords": []map[string]interface{}{
			{"keyword_text": "Logic"},
			{"keyword_text": "logic"},
			{"keyword_id": "not-a-uuid"},
		},
	})
	require.Equal(t, http.StatusOK, code, body)

	results := body["data"].([]interface{})
	require.Len(t, results, 3)
	assert.Equal(t, "added", results[0].(map[string]interface{})["outcome"])
	assert.Equal(t, "skipped", results[1].(map[string]interface{})["outcome"])
	assert.Equal(t, "failed", results[2].(map[string]interface{})["outcome"])

	stats := body["stats"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["added"])
	assert.EqualValues(t, 1, stats["skipped"])
	assert.EqualValues(t, 1, stats["failed"])
}
