package server

import (
	"promptly/internal/cache"
	"promptly/internal/identity"
	"promptly/internal/middleware"
	"promptly/internal/models"
	"promptly/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /api/auth/signup
// @Summary User signup
// @Description Register a new user account. Multipart requests may attach profile_picture.
// @Tags auth
// @Accept json,mpfd
// @Produce json
// @Param request body object{username=string,email=string,password=string} true "Signup request"
// @Param profile_picture formData file false "Optional avatar"
// @Success 201 {object} service.Session
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /auth/signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username" form:"username"`
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	if isMultipart(c) {
		picture, err := formUpload(c, "profile_picture")
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
		in.ProfilePicture = picture
	}

	session, err := s.authSvc.Signup(c.UserContext(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// Login handles POST /api/auth/login
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Login credentials"
// @Success 200 {object} service.Session
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	session, err := s.authSvc.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(session)
}

// Logout handles POST /api/auth/logout
// @Summary Revoke the current token
// @Tags auth
// @Success 204
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, _ := c.Locals(middleware.LocalClaims).(*identity.Claims)
	if err := s.authSvc.Logout(c.UserContext(), claims); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// IssueWSTicket handles POST /api/ws/ticket
// @Summary Issue a single-use websocket ticket
// @Description Browsers cannot set headers on websocket upgrades; pass the ticket as ?ticket= instead.
// @Tags realtime
// @Produce json
// @Success 200 {object} object{ticket=string,expires_in=int}
// @Failure 502 {object} models.ErrorResponse
// @Router /ws/ticket [post]
func (s *Server) IssueWSTicket(c *fiber.Ctx) error {
	ticket, err := s.tokens.IssueTicket(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"ticket":     ticket,
		"expires_in": int(cache.WSTicketTTL.Seconds()),
	})
}
