package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/japanesestudent/achievement-service/internal/middleware"
	"github.com/japanesestudent/achievement-service/internal/models"
	"go.uber.org/zap"
)

// MilestoneService is the interface that wraps methods for milestone listing
type MilestoneService interface {
	// ListForUser retrieves the milestone catalog merged with the user's award state
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the list and an error if any.
	ListForUser(ctx context.Context, userID int) ([]models.MilestoneListItem, error)
}

// AwardService is the interface that wraps the evaluation pass
type AwardService interface {
	// Evaluate runs one evaluation pass and returns the newly awarded
	// milestone, or nil when nothing new was earned
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the milestone and an error if any.
	Evaluate(ctx context.Context, userID int) (*models.Milestone, error)
}

// ClaimService is the interface that wraps the reward claim transition
type ClaimService interface {
	// Claim transitions an earned milestone's reward to claimed
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "milestoneID" is the catalog ID of the milestone.
	//
	// Returns the claim result and an error if any.
	Claim(ctx context.Context, userID int, milestoneID string) (*models.ClaimResult, error)
}

// MilestoneHandler handles HTTP requests for milestone operations
type MilestoneHandler struct {
	BaseHandler
	milestoneService MilestoneService
	awardService     AwardService
	claimService     ClaimService
}

// NewMilestoneHandler creates a new milestone handler
func NewMilestoneHandler(
	milestoneService MilestoneService,
	awardService AwardService,
	claimService ClaimService,
	logger *zap.Logger,
) *MilestoneHandler {
	return &MilestoneHandler{
		BaseHandler:      BaseHandler{Logger: logger},
		milestoneService: milestoneService,
		awardService:     awardService,
		claimService:     claimService,
	}
}

// RegisterRoutes registers all milestone handler routes
func (h *MilestoneHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/milestones", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.ListMilestones)
		r.Post("/evaluate", h.EvaluateMilestones)
		r.Post("/{id}/claim", h.ClaimReward)
	})
}

// RegisterInternalRoutes registers service-to-service routes. Other services
// call these when a user action (lesson completed, task checked, profile
// saved) should trigger an evaluation pass.
func (h *MilestoneHandler) RegisterInternalRoutes(r chi.Router) {
	r.Post("/internal/users/{userID}/milestones/evaluate", h.EvaluateMilestonesForUser)
}

// ListMilestones handles GET /milestones
// @Summary Get milestone list
// @Description Get the milestone catalog with the user's earned and claimed state
// @Tags milestones
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.MilestoneListItem "List of milestones"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /milestones [get]
func (h *MilestoneHandler) ListMilestones(w http.ResponseWriter, r *http.Request) {
	// Extract userID from context
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.Logger.Error("user ID not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	milestones, err := h.milestoneService.ListForUser(r.Context(), userID)
	if err != nil {
		h.Logger.Error("failed to list milestones", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.RespondJSON(w, http.StatusOK, milestones)
}

// EvaluateMilestones handles POST /milestones/evaluate
// @Summary Run a milestone evaluation pass
// @Description Evaluate the user's progress against unearned milestones and award at most one
// @Tags milestones
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]any{} "Newly awarded milestone"
// @Success 204 "No new milestone earned"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /milestones/evaluate [post]
func (h *MilestoneHandler) EvaluateMilestones(w http.ResponseWriter, r *http.Request) {
	// Extract userID from context
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.Logger.Error("user ID not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	h.evaluate(w, r, userID)
}

// EvaluateMilestonesForUser handles POST /internal/users/{userID}/milestones/evaluate
// @Summary Run a milestone evaluation pass for a user (internal)
// @Description Trigger an evaluation pass on behalf of a user. Requires API key authentication.
// @Tags internal
// @Accept json
// @Produce json
// @Param userID path int true "User ID"
// @Param X-API-Key header string true "API Key"
// @Success 200 {object} map[string]any{} "Newly awarded milestone"
// @Success 204 "No new milestone earned"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/users/{userID}/milestones/evaluate [post]
func (h *MilestoneHandler) EvaluateMilestonesForUser(w http.ResponseWriter, r *http.Request) {
	userIDStr := chi.URLParam(r, "userID")
	userID, err := strconv.Atoi(userIDStr)
	if err != nil || userID <= 0 {
		h.RespondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	h.evaluate(w, r, userID)
}

// evaluate runs one pass and writes the outcome
func (h *MilestoneHandler) evaluate(w http.ResponseWriter, r *http.Request, userID int) {
	awarded, err := h.awardService.Evaluate(r.Context(), userID)
	if err != nil {
		h.Logger.Error("evaluation pass failed", zap.Error(err), zap.Int("user_id", userID))
		h.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if awarded == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]any{
		"milestone": awarded,
	})
}

// ClaimReward handles POST /milestones/{id}/claim
// @Summary Claim a milestone reward
// @Description Claim the reward of an earned milestone. Claiming twice is an idempotent success.
// @Tags milestones
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Milestone ID"
// @Success 200 {object} models.ClaimResult "Claim result"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Milestone not found or not earned"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /milestones/{id}/claim [post]
func (h *MilestoneHandler) ClaimReward(w http.ResponseWriter, r *http.Request) {
	// Extract userID from context
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.Logger.Error("user ID not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	milestoneID := chi.URLParam(r, "id")
	if milestoneID == "" {
		h.RespondError(w, http.StatusBadRequest, "milestone ID is required")
		return
	}

	result, err := h.claimService.Claim(r.Context(), userID, milestoneID)
	if err != nil {
		errStatus := http.StatusInternalServerError
		switch {
		case errors.Is(err, models.ErrMilestoneNotFound):
			errStatus = http.StatusNotFound
		case errors.Is(err, models.ErrNotEarned):
			errStatus = http.StatusNotFound
		default:
			h.Logger.Error("failed to claim reward", zap.Error(err),
				zap.Int("user_id", userID), zap.String("milestone_id", milestoneID))
		}
		h.RespondError(w, errStatus, err.Error())
		return
	}

	h.RespondJSON(w, http.StatusOK, result)
}
