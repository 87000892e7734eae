package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"academic-management-api/config"
	"academic-management-api/models"
	"academic-management-api/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrRefreshTokenInvalid = errors.New("refresh token is invalid or expired")

// SessionService persists refresh tokens so they can be listed and revoked.
type SessionService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSessionService(db *gorm.DB) *SessionService {
	if db == nil {
		db = config.DB
	}
	return &SessionService{db: db, now: time.Now}
}

// NewTokenID returns a random identifier for a refresh token.
func NewTokenID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(b)
}

// Store records a newly issued refresh token.
func (s *SessionService) Store(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time, userAgent, ip string) (*models.RefreshToken, error) {
	rt := &models.RefreshToken{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    userID,
		UserAgent: optionalString(truncate(userAgent, 255)),
		IPAddress: optionalString(ip),
	}
	if err := repository.New[models.RefreshToken](s.db).Create(ctx, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

// Use validates a presented refresh token and stamps last_used_at.
func (s *SessionService) Use(ctx context.Context, token string) (*models.RefreshToken, error) {
	rt, err := repository.New[models.RefreshToken](s.db).FindActiveWhere(ctx, nil, "token = ?", token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRefreshTokenInvalid
		}
		return nil, err
	}
	now := s.now()
	if !rt.Usable(now) {
		return nil, ErrRefreshTokenInvalid
	}
	if err := s.db.WithContext(ctx).Model(rt).Update("last_used_at", now).Error; err != nil {
		return nil, err
	}
	rt.LastUsedAt = &now
	return rt, nil
}

// Active lists the user's unexpired sessions, newest first.
func (s *SessionService) Active(ctx context.Context, userID uuid.UUID) ([]models.RefreshToken, error) {
	var tokens []models.RefreshToken
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ? AND expires_at > ?", userID, true, s.now()).
		Order("created_at DESC").
		Find(&tokens).Error
	return tokens, err
}

// RevokeAll deactivates every refresh token of the user.
func (s *SessionService) RevokeAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

// Revoke deactivates one token owned by requester, or any token for admins.
func (s *SessionService) Revoke(ctx context.Context, tokenID uuid.UUID, requester *models.User) error {
	tokens := repository.New[models.RefreshToken](s.db)
	rt, err := tokens.FindActive(ctx, tokenID)
	if err != nil {
		return err
	}
	if rt.UserID != requester.ID && !requester.IsAdmin() {
		return ErrForbidden
	}
	return tokens.SoftDelete(ctx, rt.ID)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
