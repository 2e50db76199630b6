package handlers

import (
	"time"

	"vyns/internal/common"
	"vyns/internal/logging"
	"vyns/internal/middleware"
	"vyns/internal/services"
	"vyns/internal/wallet"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var errWalletRequired = common.NewError(common.KindValidation, "Wallet address is required")

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService   *services.AuthService
	validate      *validator.Validate
	log           logging.Logger
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler. Session cookies are marked
// Secure when secureCookies is set.
func NewAuthHandler(authService *services.AuthService, log logging.Logger, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		validate:      newValidator(),
		log:           log,
		secureCookies: secureCookies,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/wallet/message", h.HandleWalletMessage)
	authRoutes.Post("/wallet/verify", h.HandleWalletVerify)
	authRoutes.Get("/check", h.HandleCheckWallet)
	authRoutes.Get("/session", h.HandleGetSession)
	authRoutes.Delete("/session", h.HandleLogout)
}

// SignupRequest represents the request body for email signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleSignup creates an email identity.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, h.log, err, "Signup failed")
	}

	if _, err := h.authService.Signup(c.UserContext(), req.Name, req.Email, req.Password); err != nil {
		return respondError(c, h.log, err, "Signup failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Account created",
	})
}

// LoginRequest represents the request body for email login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin authenticates by email and password and sets the session cookie.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, h.log, err, "Login failed")
	}

	session, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, h.log, err, "Login failed")
	}

	setSessionCookie(c, session.Token, h.secureCookies)
	return c.JSON(fiber.Map{
		"success": true,
		"user":    session.User,
	})
}

// HandleWalletMessage returns a message for the wallet to sign.
func (h *AuthHandler) HandleWalletMessage(c *fiber.Ctx) error {
	address := c.Query("wallet")
	if address == "" {
		return respondError(c, h.log, errWalletRequired, "")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": wallet.LoginMessage(address, time.Now()),
	})
}

// WalletVerifyRequest represents a signed wallet login.
type WalletVerifyRequest struct {
	Wallet    string `json:"wallet" validate:"required"`
	Signature string `json:"signature" validate:"required"`
	Message   string `json:"message" validate:"required"`
	Chain     string `json:"chain"`
}

// HandleWalletVerify logs a wallet in by signature, creating its identity on first use.
func (h *AuthHandler) HandleWalletVerify(c *fiber.Ctx) error {
	var req WalletVerifyRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, h.log, err, "Wallet verification failed")
	}

	chain, err := wallet.ParseChain(req.Chain)
	if err != nil {
		return respondError(c, h.log, err, "Wallet verification failed")
	}

	session, err := h.authService.VerifyWallet(c.UserContext(), chain, req.Wallet, req.Message, req.Signature)
	if err != nil {
		return respondError(c, h.log, err, "Wallet verification failed")
	}

	setSessionCookie(c, session.Token, h.secureCookies)
	return c.JSON(fiber.Map{
		"success":   true,
		"token":     session.Token,
		"user":      session.User,
		"isNewUser": session.IsNewUser,
	})
}

// HandleCheckWallet reports whether a wallet is registered and holds a username.
func (h *AuthHandler) HandleCheckWallet(c *fiber.Ctx) error {
	address := c.Query("wallet")
	if address == "" {
		return respondError(c, h.log, errWalletRequired, "")
	}

	user, err := h.authService.CheckWallet(c.UserContext(), address)
	if err != nil {
		return respondError(c, h.log, err, "Failed to check wallet")
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"isRegistered": user != nil,
		"hasUsername":  user != nil && user.HasUsername(),
		"user":         user,
	})
}

// HandleGetSession returns the identity behind the current session token.
func (h *AuthHandler) HandleGetSession(c *fiber.Ctx) error {
	token := middleware.TokenFromRequest(c)
	if token == "" {
		return respondError(c, h.log, errNotAuthenticated, "")
	}

	user, err := h.authService.ResolveSession(c.UserContext(), token)
	if err != nil {
		return respondError(c, h.log, err, "Failed to load session")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// HandleLogout expires the session cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	clearSessionCookie(c, h.secureCookies)
	return c.JSON(fiber.Map{"success": true})
}
