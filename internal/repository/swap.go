package repository

import (
	"context"
	"errors"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// SwapDirection selects which side of a swap request a listing covers.
type SwapDirection string

const (
	SwapDirectionSent     SwapDirection = "sent"
	SwapDirectionReceived SwapDirection = "received"
	SwapDirectionAll      SwapDirection = "all"
)

// SwapRepository defines persistence operations for swap requests.
type SwapRepository interface {
	Create(ctx context.Context, request *models.SwapRequest) error
	GetByID(ctx context.Context, id uint) (*models.SwapRequest, error)
	ListForUser(ctx context.Context, userID uint, direction SwapDirection) ([]models.SwapRequest, error)
	// TransitionFromPending performs the pending → status change as a single
	// conditional update so concurrent duplicate calls cannot both win.
	// Returns a conflict error when the request is no longer pending.
	TransitionFromPending(ctx context.Context, id uint, status models.SwapStatus) error
}

type swapRepository struct {
	db *gorm.DB
}

// NewSwapRepository returns a new SwapRepository implementation.
func NewSwapRepository(db *gorm.DB) SwapRepository {
	return &swapRepository{db: db}
}

func (r *swapRepository) Create(ctx context.Context, request *models.SwapRequest) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *swapRepository) GetByID(ctx context.Context, id uint) (*models.SwapRequest, error) {
	var request models.SwapRequest
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Receiver").
		Preload("OfferedSkill").
		Preload("RequestedSkill").
		First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Swap request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

func (r *swapRepository) ListForUser(ctx context.Context, userID uint, direction SwapDirection) ([]models.SwapRequest, error) {
	q := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Receiver").
		Preload("OfferedSkill").
		Preload("RequestedSkill")

	switch direction {
	case SwapDirectionSent:
		q = q.Where("sender_id = ?", userID)
	case SwapDirectionReceived:
		q = q.Where("receiver_id = ?", userID)
	default:
		q = q.Where("sender_id = ? OR receiver_id = ?", userID, userID)
	}

	var requests []models.SwapRequest
	if err := q.Order("created_at DESC, id DESC").Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *swapRepository) TransitionFromPending(ctx context.Context, id uint, status models.SwapStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.SwapRequest{}).
		Where("id = ? AND status = ?", id, models.SwapStatusPending).
		Update("status", status)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewConflictError("Swap request is no longer pending")
	}
	return nil
}
