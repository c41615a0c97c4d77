package service

import (
	"context"

	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/notifications"
	"skillswap/internal/repository"
)

// SwapService provides swap-request lifecycle business logic.
type SwapService struct {
	swapRepo repository.SwapRepository
	userRepo repository.UserRepository
	notifier *notifications.Notifier
}

// NewSwapService returns a new SwapService.
func NewSwapService(swapRepo repository.SwapRepository, userRepo repository.UserRepository, notifier *notifications.Notifier) *SwapService {
	return &SwapService{
		swapRepo: swapRepo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

// CreateSwapInput carries the fields for a new swap request.
type CreateSwapInput struct {
	SenderID       uint
	ReceiverID     uint
	OfferedSkill   string
	RequestedSkill string
	Message        string
}

// Create validates and persists a new pending swap request. The sender must
// currently list the offered skill, and the receiver must currently list the
// requested skill, in their respective offered sets.
func (s *SwapService) Create(ctx context.Context, in CreateSwapInput) (*models.SwapRequest, error) {
	if in.ReceiverID == 0 || in.OfferedSkill == "" || in.RequestedSkill == "" {
		return nil, models.NewValidationError("Receiver ID, offered skill, and requested skill are required")
	}
	if in.SenderID == in.ReceiverID {
		return nil, models.NewValidationError("Cannot send a swap request to yourself")
	}

	sender, err := s.userRepo.GetByID(ctx, in.SenderID)
	if err != nil {
		return nil, err
	}
	receiver, err := s.userRepo.GetByID(ctx, in.ReceiverID)
	if err != nil {
		return nil, err
	}

	offered, ok := findSkill(sender.SkillsOffered, in.OfferedSkill)
	if !ok {
		return nil, models.NewPreconditionError("You must list the offered skill among your offered skills")
	}
	requested, ok := findSkill(receiver.SkillsOffered, in.RequestedSkill)
	if !ok {
		return nil, models.NewPreconditionError("Receiver does not offer the requested skill")
	}

	request := &models.SwapRequest{
		SenderID:         in.SenderID,
		ReceiverID:       in.ReceiverID,
		OfferedSkillID:   offered.ID,
		RequestedSkillID: requested.ID,
		Message:          in.Message,
		Status:           models.SwapStatusPending,
	}
	if err := s.swapRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	request, err = s.swapRepo.GetByID(ctx, request.ID)
	if err != nil {
		return nil, err
	}

	middleware.SwapRequestsCreated.Inc()
	if s.notifier != nil {
		s.notifier.PublishUser(ctx, request.ReceiverID, notifications.Event{
			Type:      notifications.EventSwapRequested,
			RequestID: request.ID,
			ActorID:   request.SenderID,
		})
	}

	return request, nil
}

// List returns the swap requests where the user is sender, receiver, or
// either, newest first.
func (s *SwapService) List(ctx context.Context, userID uint, direction repository.SwapDirection) ([]models.SwapRequest, error) {
	switch direction {
	case repository.SwapDirectionSent, repository.SwapDirectionReceived, repository.SwapDirectionAll:
	case "":
		direction = repository.SwapDirectionAll
	default:
		return nil, models.NewValidationError("type must be one of: sent, received, all")
	}
	return s.swapRepo.ListForUser(ctx, userID, direction)
}

// UpdateStatus transitions a request's status on behalf of the receiver.
// The sender has no cancel path; that asymmetry is part of the product
// design. The pending → accepted/rejected change is atomic: the slower of
// two concurrent calls gets a conflict error.
func (s *SwapService) UpdateStatus(ctx context.Context, callerID, requestID uint, status models.SwapStatus) (*models.SwapRequest, error) {
	request, err := s.swapRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.ReceiverID != callerID {
		return nil, models.NewForbiddenError("Only the receiver can update the request status")
	}

	if !models.ValidSwapStatus(status) {
		return nil, models.NewValidationError("Unknown status value")
	}
	if !models.CanTransition(request.Status, status) {
		return nil, models.NewInvalidTransitionError(request.Status, status)
	}

	if err := s.swapRepo.TransitionFromPending(ctx, requestID, status); err != nil {
		return nil, err
	}

	request, err = s.swapRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	middleware.SwapTransitions.WithLabelValues(string(status)).Inc()
	if s.notifier != nil {
		eventType := notifications.EventSwapAccepted
		if status == models.SwapStatusRejected {
			eventType = notifications.EventSwapRejected
		}
		s.notifier.PublishUser(ctx, request.SenderID, notifications.Event{
			Type:      eventType,
			RequestID: request.ID,
			ActorID:   callerID,
		})
	}

	return request, nil
}

func findSkill(skills []models.Skill, name string) (models.Skill, bool) {
	for _, s := range skills {
		if s.Name == name {
			return s, true
		}
	}
	return models.Skill{}, false
}
