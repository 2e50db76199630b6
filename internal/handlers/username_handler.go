package handlers

import (
	"vyns/internal/common"
	"vyns/internal/logging"
	"vyns/internal/middleware"
	"vyns/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	errUsernameRequired = common.NewError(common.KindValidation, "Username is required")
	errWalletMismatch   = common.NewError(common.KindAuthentication, "Wallet does not match the current session")
)

// UsernameHandler handles HTTP requests for the username registry and marketplace.
type UsernameHandler struct {
	service  *services.UsernameService
	validate *validator.Validate
	log      logging.Logger
}

// NewUsernameHandler creates a new UsernameHandler.
func NewUsernameHandler(service *services.UsernameService, log logging.Logger) *UsernameHandler {
	return &UsernameHandler{
		service:  service,
		validate: newValidator(),
		log:      log,
	}
}

// RegisterRoutes registers the registry routes. requireAuth guards the
// routes that act on behalf of the session's identity.
func (h *UsernameHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	router.Get("/username/claim", h.HandleCheckAvailability)
	router.Post("/username/claim", requireAuth, h.HandleClaim)

	usernameRoutes := router.Group("/usernames")
	usernameRoutes.Get("/search", h.HandleSearch)
	usernameRoutes.Get("/:username", h.HandleGetUsername)
	usernameRoutes.Put("/:username/listing", requireAuth, h.HandleSetListing)
	usernameRoutes.Delete("/:username/listing", requireAuth, h.HandleClearListing)

	router.Get("/marketplace", h.HandleMarketplace)
	router.Get("/users/:wallet", h.HandleWalletProfile)
}

// HandleCheckAvailability reports whether ?username= can be claimed.
func (h *UsernameHandler) HandleCheckAvailability(c *fiber.Ctx) error {
	raw := c.Query("username")
	if raw == "" {
		return respondError(c, h.log, errUsernameRequired, "")
	}

	available, err := h.service.IsAvailable(c.UserContext(), raw)
	if err != nil {
		return respondError(c, h.log, err, "Failed to check username")
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"available": available,
	})
}

// ClaimRequest represents the request body for claiming a username.
// Wallet is optional and must match the session when present.
type ClaimRequest struct {
	Username string `json:"username" validate:"required"`
	Wallet   string `json:"wallet"`
}

// HandleClaim claims a username for the session's identity.
func (h *UsernameHandler) HandleClaim(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return respondError(c, h.log, errNotAuthenticated, "")
	}

	var req ClaimRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, h.log, err, "Failed to claim username")
	}
	if req.Wallet != "" && req.Wallet != claims.Wallet {
		return respondError(c, h.log, errWalletMismatch, "")
	}

	record, err := h.service.Claim(c.UserContext(), claims.UserID, req.Username)
	if err != nil {
		return respondError(c, h.log, err, "Failed to claim username")
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"username": record.Username,
	})
}

// HandleSearch looks up ?q= and returns its availability and public details.
func (h *UsernameHandler) HandleSearch(c *fiber.Ctx) error {
	result, err := h.service.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, h.log, err, "Search failed")
	}
	return c.JSON(result)
}

// HandleGetUsername returns the full record of a claimed name.
func (h *UsernameHandler) HandleGetUsername(c *fiber.Ctx) error {
	record, err := h.service.Details(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, h.log, err, "Failed to load username")
	}
	return c.JSON(record)
}

// ListingRequest represents the request body for listing a name for sale.
type ListingRequest struct {
	Price float64 `json:"price" validate:"required,gt=0"`
}

// HandleSetListing puts one of the session identity's names up for sale.
func (h *UsernameHandler) HandleSetListing(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return respondError(c, h.log, errNotAuthenticated, "")
	}

	var req ListingRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, h.log, err, "Failed to list username")
	}

	record, err := h.service.SetListing(c.UserContext(), claims.UserID, c.Params("username"), req.Price)
	if err != nil {
		return respondError(c, h.log, err, "Failed to list username")
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"username": record,
	})
}

// HandleClearListing takes one of the session identity's names off the market.
func (h *UsernameHandler) HandleClearListing(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return respondError(c, h.log, errNotAuthenticated, "")
	}

	record, err := h.service.ClearListing(c.UserContext(), claims.UserID, c.Params("username"))
	if err != nil {
		return respondError(c, h.log, err, "Failed to unlist username")
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"username": record,
	})
}

// HandleMarketplace returns one page of names for sale.
func (h *UsernameHandler) HandleMarketplace(c *fiber.Ctx) error {
	page, err := h.service.Marketplace(c.UserContext(), services.MarketplaceQuery{
		Sort:  c.Query("sort"),
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", services.DefaultMarketplaceLimit),
	})
	if err != nil {
		return respondError(c, h.log, err, "Failed to load marketplace")
	}
	return c.JSON(page)
}

// HandleWalletProfile returns the names a wallet owns with their totals.
func (h *UsernameHandler) HandleWalletProfile(c *fiber.Ctx) error {
	profile, err := h.service.WalletProfile(c.UserContext(), c.Params("wallet"))
	if err != nil {
		return respondError(c, h.log, err, "Failed to load profile")
	}
	return c.JSON(profile)
}
