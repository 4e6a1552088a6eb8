package repository

import (
	"context"
	"time"

	"github.com/devhub-platform/portal/internal/model"
	ctxutil "github.com/devhub-platform/portal/pkg/context"
	"github.com/devhub-platform/portal/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// Create persists a new refresh token record
func (r *RefreshTokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "CreateRefreshToken")

	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	result := r.db.WithContext(ctx).Create(token)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to store refresh token").
			Uint("user_id", token.UserID).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.DebugWithContext(ctx, "Refresh token stored").
		Uint("user_id", token.UserID).
		Time("expires_at", token.ExpiresAt).
		Duration(duration).
		Log()

	return nil
}

// Claim removes the token record and returns it in one statement. Under
// concurrent use of the same token the database guarantees at most one
// caller gets the row back; every other caller sees ErrRecordNotFound.
func (r *RefreshTokenRepository) Claim(ctx context.Context, token string) (*model.RefreshToken, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "ClaimRefreshToken")

	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before claim").
			Err(err).
			Log()
		return nil, err
	}

	start := time.Now()
	var claimed model.RefreshToken
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("token = ?", token).
		Delete(&claimed)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to claim refresh token").
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		logger.DebugWithContext(ctx, "Refresh token not found or already claimed").
			Duration(duration).
			Log()
		return nil, gorm.ErrRecordNotFound
	}

	logger.DebugWithContext(ctx, "Refresh token claimed").
		Uint("user_id", claimed.UserID).
		Duration(duration).
		Log()

	return &claimed, nil
}

// DeleteByUser revokes every session belonging to one user
func (r *RefreshTokenRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "DeleteRefreshTokensByUser")

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	start := time.Now()
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.RefreshToken{})
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to revoke user sessions").
			Uint("user_id", userID).
			Duration(duration).
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	logger.InfoWithContext(ctx, "User sessions revoked").
		Uint("user_id", userID).
		Int64("revoked_count", result.RowsAffected).
		Duration(duration).
		Log()

	return result.RowsAffected, nil
}

// DeleteExpired removes tokens past their expiry. The claim path already
// rejects expired tokens, so this is housekeeping only.
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "DeleteExpiredRefreshTokens")

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	start := time.Now()
	result := r.db.WithContext(ctx).Where("expires_at < ?", time.Now()).Delete(&model.RefreshToken{})
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to cleanup expired refresh tokens").
			Duration(duration).
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		logger.InfoWithContext(ctx, "Expired refresh tokens cleaned up").
			Int64("cleaned_count", result.RowsAffected).
			Duration(duration).
			Log()
	}

	return result.RowsAffected, nil
}
