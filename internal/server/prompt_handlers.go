package server

import (
	"promptly/internal/models"
	"promptly/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPromptRequest struct {
	Title   string   `json:"title" form:"title"`
	Input   string   `json:"input" form:"input"`
	Tags    []string `json:"tags" form:"tags"`
	AIModel string   `json:"ai_model" form:"ai_model"`
	Output  string   `json:"output" form:"output"`
}

// CreatePrompt handles POST /api/prompts
// @Summary Share a prompt
// @Description Create a prompt with its model output. Multipart requests may attach an image.
// @Tags prompts
// @Accept json,mpfd
// @Produce json
// @Param request body createPromptRequest true "Prompt"
// @Param image formData file false "Optional result image"
// @Success 201 {object} models.Prompt
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /prompts [post]
func (s *Server) CreatePrompt(c *fiber.Ctx) error {
	var req createPromptRequest
	in := service.CreatePromptInput{UserID: currentUserID(c)}

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid multipart body"))
		}
		req.Title = c.FormValue("title")
		req.Input = c.FormValue("input")
		req.AIModel = c.FormValue("ai_model")
		req.Output = c.FormValue("output")
		req.Tags = splitTags(form.Value["tags"])

		image, err := formUpload(c, "image")
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
		in.Image = image
	} else if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in.Title, in.Input, in.Tags, in.AIModel, in.Output = req.Title, req.Input, req.Tags, req.AIModel, req.Output

	prompt, err := s.promptSvc.CreatePrompt(c.UserContext(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(prompt)
}

// GetPrompts handles GET /api/prompts
// @Summary List prompts
// @Description Newest first. Signed-in callers get is_liked and is_bookmarked set.
// @Tags prompts
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset"
// @Success 200 {array} models.PromptView
// @Router /prompts [get]
func (s *Server) GetPrompts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	prompts, err := s.promptSvc.ListPrompts(c.UserContext(), service.ListPromptsInput{
		Limit:    page.Limit,
		Offset:   page.Offset,
		ViewerID: currentUserID(c),
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(prompts)
}

// GetPrompt handles GET /api/prompts/:id
// @Summary Get one prompt
// @Tags prompts
// @Produce json
// @Param id path int true "Prompt ID"
// @Success 200 {object} models.PromptView
// @Failure 404 {object} models.ErrorResponse
// @Router /prompts/{id} [get]
func (s *Server) GetPrompt(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	prompt, err := s.promptSvc.GetPrompt(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(prompt)
}

// SavePromptOutput handles PUT /api/prompts/:id/output
// @Summary Replace a prompt's output
// @Tags prompts
// @Accept json
// @Produce json
// @Param id path int true "Prompt ID"
// @Param request body object{output=string} true "New output"
// @Success 200 {object} models.Prompt
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /prompts/{id}/output [put]
func (s *Server) SavePromptOutput(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Output string `json:"output"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	prompt, err := s.promptSvc.SaveOutput(c.UserContext(), id, currentUserID(c), req.Output)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(prompt)
}

// LikePrompt handles POST /api/prompts/:id/like
// @Summary Toggle like
// @Tags interactions
// @Produce json
// @Param id path int true "Prompt ID"
// @Success 200 {object} models.LikeResult
// @Failure 404 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /prompts/{id}/like [post]
func (s *Server) LikePrompt(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.interactionSvc.Like(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(result)
}

// UpvotePrompt handles POST /api/prompts/:id/upvote
// @Summary Toggle upvote
// @Description Upvoting twice clears the vote; upvoting over a downvote switches it.
// @Tags interactions
// @Produce json
// @Param id path int true "Prompt ID"
// @Success 200 {object} models.VoteResult
// @Router /prompts/{id}/upvote [post]
func (s *Server) UpvotePrompt(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.interactionSvc.Upvote(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(result)
}

// DownvotePrompt handles POST /api/prompts/:id/downvote
// @Summary Toggle downvote
// @Tags interactions
// @Produce json
// @Param id path int true "Prompt ID"
// @Success 200 {object} models.VoteResult
// @Router /prompts/{id}/downvote [post]
func (s *Server) DownvotePrompt(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.interactionSvc.Downvote(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(result)
}

// BookmarkPrompt handles POST /api/prompts/:id/bookmark
// @Summary Toggle bookmark
// @Tags interactions
// @Produce json
// @Param id path int true "Prompt ID"
// @Success 200 {object} models.BookmarkResult
// @Router /prompts/{id}/bookmark [post]
func (s *Server) BookmarkPrompt(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.interactionSvc.Bookmark(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(result)
}
