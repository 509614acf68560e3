package services

import (
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// tokenService persists refresh tokens so they can be revoked by deletion.
type tokenService struct {
	db *gorm.DB
}

// NewTokenService creates a new TokenServicer.
func NewTokenService(db *gorm.DB) TokenServicer {
	return &tokenService{db: db}
}

// StoreRefreshToken records a newly issued refresh token for a user.
// One row is created per login, so concurrent sessions each hold their
// own revocable token.
func (s *tokenService) StoreRefreshToken(userID uint, token string) error {
	row := &models.RefreshToken{
		Token:  token,
		UserID: userID,
	}
	if err := s.db.Create(row).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// RefreshTokenExists reports whether the token is still stored. A token
// whose signature verifies but whose row has been deleted is revoked.
func (s *tokenService) RefreshTokenExists(token string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.RefreshToken{}).Where("token = ?", token).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// RevokeRefreshToken deletes the stored row for a token. Absence is not
// an error: logout must succeed even when the row is already gone.
func (s *tokenService) RevokeRefreshToken(token string) error {
	if err := s.db.Unscoped().Where("token = ?", token).Delete(&models.RefreshToken{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
