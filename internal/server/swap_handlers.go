package server

import (
	"time"

	"skillswap/internal/models"
	"skillswap/internal/repository"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createSwapRequest struct {
	ReceiverID     uint   `json:"receiverId"`
	OfferedSkill   string `json:"offeredSkill"`
	RequestedSkill string `json:"requestedSkill"`
	Message        string `json:"message"`
}

type updateSwapRequest struct {
	Status models.SwapStatus `json:"status"`
}

// swapResponse is the wire shape of a swap request with both parties and
// both skills resolved.
type swapResponse struct {
	ID             uint                `json:"id"`
	Sender         models.UserSummary  `json:"sender"`
	Receiver       models.UserSummary  `json:"receiver"`
	OfferedSkill   string              `json:"offeredSkill"`
	RequestedSkill string              `json:"requestedSkill"`
	Message        string              `json:"message"`
	Status         models.SwapStatus   `json:"status"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

func toSwapResponse(sr *models.SwapRequest) swapResponse {
	return swapResponse{
		ID:             sr.ID,
		Sender:         sr.Sender.Summary(),
		Receiver:       sr.Receiver.Summary(),
		OfferedSkill:   sr.OfferedSkill.Name,
		RequestedSkill: sr.RequestedSkill.Name,
		Message:        sr.Message,
		Status:         sr.Status,
		CreatedAt:      sr.CreatedAt,
		UpdatedAt:      sr.UpdatedAt,
	}
}

// CreateSwapRequest opens a new swap proposal toward another member.
//
//	@Summary	Create a swap request
//	@Tags		swaps
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		createSwapRequest	true	"swap proposal"
//	@Success	201		{object}	swapResponse
//	@Failure	400		{object}	models.ErrorResponse
//	@Failure	404		{object}	models.ErrorResponse
//	@Failure	412		{object}	models.ErrorResponse
//	@Router		/api/swap-requests [post]
func (s *Server) CreateSwapRequest(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	var req createSwapRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithAppError(c, models.NewValidationError("Invalid request body"))
	}

	swap, err := s.swapService.Create(c.UserContext(), service.CreateSwapInput{
		SenderID:       userID,
		ReceiverID:     req.ReceiverID,
		OfferedSkill:   req.OfferedSkill,
		RequestedSkill: req.RequestedSkill,
		Message:        req.Message,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toSwapResponse(swap))
}

// GetSwapRequests lists the caller's swap requests. The "type" parameter
// selects sent, received, or all (the default).
//
//	@Summary	List own swap requests
//	@Tags		swaps
//	@Produce	json
//	@Security	BearerAuth
//	@Param		type	query		string	false	"sent, received, or all"
//	@Success	200		{array}		swapResponse
//	@Failure	400		{object}	models.ErrorResponse
//	@Router		/api/swap-requests [get]
func (s *Server) GetSwapRequests(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	direction := repository.SwapDirection(c.Query("type"))
	swaps, err := s.swapService.List(c.UserContext(), userID, direction)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	results := make([]swapResponse, 0, len(swaps))
	for i := range swaps {
		results = append(results, toSwapResponse(&swaps[i]))
	}
	return c.JSON(results)
}

// UpdateSwapRequest changes the status of a pending swap request. Only the
// receiver may do this, and only along a valid transition.
//
//	@Summary	Update a swap request status
//	@Tags		swaps
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int					true	"swap request ID"
//	@Param		body	body		updateSwapRequest	true	"new status"
//	@Success	200		{object}	swapResponse
//	@Failure	400		{object}	models.ErrorResponse
//	@Failure	403		{object}	models.ErrorResponse
//	@Failure	404		{object}	models.ErrorResponse
//	@Failure	409		{object}	models.ErrorResponse
//	@Router		/api/swap-requests/{id} [put]
func (s *Server) UpdateSwapRequest(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	swapID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	var req updateSwapRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithAppError(c, models.NewValidationError("Invalid request body"))
	}

	swap, err := s.swapService.UpdateStatus(c.UserContext(), userID, swapID, req.Status)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(toSwapResponse(swap))
}
