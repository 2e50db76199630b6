package handlers

import (
	"vyns/internal/common"
	"vyns/internal/logging"
	"vyns/internal/middleware"
	"vyns/internal/models"
	"vyns/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var errForeignWallet = common.NewError(common.KindForbidden, "Cannot record activity for another wallet")

// ActivityHandler handles HTTP requests for wallet activity feeds.
type ActivityHandler struct {
	service  *services.ActivityService
	validate *validator.Validate
	log      logging.Logger
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(service *services.ActivityService, log logging.Logger) *ActivityHandler {
	return &ActivityHandler{
		service:  service,
		validate: newValidator(),
		log:      log,
	}
}

// RegisterRoutes registers the activity routes with the Fiber app.
func (h *ActivityHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	activityRoutes := router.Group("/activity")
	activityRoutes.Get("/:wallet", h.HandleListActivity)
	activityRoutes.Post("/:wallet", requireAuth, h.HandleRecordActivity)
}

// HandleListActivity returns a wallet's newest activity first.
func (h *ActivityHandler) HandleListActivity(c *fiber.Ctx) error {
	activities, err := h.service.List(c.UserContext(), c.Params("wallet"), c.QueryInt("limit", services.DefaultActivityLimit))
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch activities")
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"activities": activities,
	})
}

// ActivityRequest represents a feed entry submitted by the wallet's owner.
type ActivityRequest struct {
	Type        string   `json:"type" validate:"required,oneof=stake unstake claim referral transaction listing"`
	Description string   `json:"description" validate:"required"`
	Amount      *float64 `json:"amount"`
	XPEarned    int      `json:"xpEarned" validate:"gte=0"`
	TxHash      string   `json:"txHash"`
}

// HandleRecordActivity appends an entry to the session wallet's feed.
func (h *ActivityHandler) HandleRecordActivity(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return respondError(c, h.log, errNotAuthenticated, "")
	}

	address := c.Params("wallet")
	if claims.Wallet == "" || claims.Wallet != address {
		return respondError(c, h.log, errForeignWallet, "")
	}

	var req ActivityRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, h.log, err, "Failed to record activity")
	}

	activity, err := h.service.Record(c.UserContext(), address, services.ActivityInput{
		Type:        models.ActivityType(req.Type),
		Description: req.Description,
		Amount:      req.Amount,
		XPEarned:    req.XPEarned,
		TxHash:      req.TxHash,
	})
	if err != nil {
		return respondError(c, h.log, err, "Failed to record activity")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"activity": activity,
	})
}
