package controllers

import (
	"net/http"
	"strings"

	"academic-management-api/config"
	"academic-management-api/models"
	"academic-management-api/repository"
	"academic-management-api/utils"

	"github.com/gin-gonic/gin"
)

type UpdateUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	OrcidID   *string `json:"orcid_id"`
	Role      *string `json:"role"`
}

// GET /api/v1/users
func GetUsers(c *gin.Context) {
	q := listQuery(c, 10, []string{"username", "email", "created_at"}, "username", "email", "first_name", "last_name")
	page, err := repository.New[models.User](config.DB).List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	respondPage(c, page)
}

func GetUser(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	user, err := repository.New[models.User](config.DB).FindActive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

// UpdateUser edits profile fields (self or admin). Passwords change through
// UpdateUserPassword; roles only change by an admin.
func UpdateUser(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if id != currentUserID(c) && !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to update this user"})
		return
	}

	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	users := repository.New[models.User](config.DB)
	user, err := users.FindActive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	updates := map[string]interface{}{}
	if req.Email != nil {
		email := strings.ToLower(utils.SanitizeInput(*req.Email))
		if !utils.ValidateEmail(email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
			return
		}
		updates["email"] = email
	}
	if req.FirstName != nil {
		updates["first_name"] = trimmed(req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = trimmed(req.LastName)
	}
	if req.OrcidID != nil {
		updates["orcid_id"] = trimmed(req.OrcidID)
	}
	if req.Role != nil {
		if !isAdmin(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only administrators can change roles"})
			return
		}
		role := strings.TrimSpace(*req.Role)
		if role != models.RoleUser && role != models.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		updates["role"] = role
	}

	if err := users.Update(c.Request.Context(), user, updates); err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email or ORCID iD already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "data": user})
}

// PUT /api/v1/users/:id/password
func UpdateUserPassword(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if id != currentUserID(c) && !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to perform this action"})
		return
	}

	var req struct {
		Password *string `json:"password"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if !checkRequired(c, field("password", req.Password != nil && *req.Password != "")) {
		return
	}
	if ok, msg := utils.ValidatePassword(*req.Password); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	users := repository.New[models.User](config.DB)
	user, err := users.FindActive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	hash, err := HashPassword(*req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	if err := users.Update(c.Request.Context(), user, map[string]interface{}{"password_hash": hash}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// DeleteUser retires the account (self or admin).
func DeleteUser(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if id != currentUserID(c) && !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to perform this action"})
		return
	}
	if err := repository.New[models.User](config.DB).SoftDelete(c.Request.Context(), id); err != nil {
		respondError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
