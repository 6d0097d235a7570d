package server

import (
	"promptly/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/users/profile
// @Summary Current user's profile
// @Description The caller's account and authored prompts, newest first, annotated for the caller.
// @Tags users
// @Produce json
// @Success 200 {object} models.Profile
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/profile [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	profile, err := s.userSvc.GetProfile(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(profile)
}

// GetBookmarks handles GET /api/users/bookmarks
// @Summary Bookmarked prompts
// @Tags users
// @Produce json
// @Success 200 {array} models.PromptView
// @Router /users/bookmarks [get]
func (s *Server) GetBookmarks(c *fiber.Ctx) error {
	prompts, err := s.userSvc.Bookmarks(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(prompts)
}

// GetLeaderboard handles GET /api/users/leaderboard
// @Summary Top contributors
// @Description Users ranked by prompts shared. Ties keep signup order. Emails are not included.
// @Tags users
// @Produce json
// @Param limit query int false "Number of users" default(3)
// @Success 200 {object} object{success=bool,data=[]models.Author}
// @Router /users/leaderboard [get]
func (s *Server) GetLeaderboard(c *fiber.Ctx) error {
	users, err := s.rankingSvc.TopContributors(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	board := make([]models.Author, len(users))
	for i, u := range users {
		board[i] = models.AuthorOf(u)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    board,
	})
}

// GetUser handles GET /api/users/:id
// @Summary Public user record
// @Description The public projection of any user. The caller's own email is on /users/profile.
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.Author
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userSvc.GetUserByID(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(models.AuthorOf(*user))
}
