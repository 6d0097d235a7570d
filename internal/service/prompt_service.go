package service

import (
	"context"
	"strings"

	"promptly/internal/events"
	"promptly/internal/models"
	"promptly/internal/observability"
	"promptly/internal/repository"
	"promptly/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// PromptService creates and reads prompts.
type PromptService struct {
	prompts     repository.PromptRepository
	assets      AssetUploader
	views       *ViewComposer
	events      events.Publisher
	locks       *KeyedMutex
	maxAttempts uint
}

type CreatePromptInput struct {
	UserID  uint
	Title   string
	Input   string
	Tags    []string
	AIModel string
	Output  string
	Image   *AssetUpload
}

type ListPromptsInput struct {
	Limit    int
	Offset   int
	ViewerID uint
}

func NewPromptService(
	prompts repository.PromptRepository,
	assets AssetUploader,
	views *ViewComposer,
	publisher events.Publisher,
	maxAttempts int,
) *PromptService {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &PromptService{
		prompts:     prompts,
		assets:      assets,
		views:       views,
		events:      publisher,
		locks:       NewKeyedMutex(),
		maxAttempts: uint(maxAttempts),
	}
}

// CreatePrompt validates the payload, uploads the optional image, then inserts the prompt
// and bumps the author's total_prompts in one transaction. An asset whose prompt was not
// committed is deleted again.
func (s *PromptService) CreatePrompt(ctx context.Context, in CreatePromptInput) (_ *models.Prompt, err error) {
	ctx, span := observability.StartSpan(ctx, "service", "PromptService.CreatePrompt",
		attribute.Int64("user.id", int64(in.UserID)))
	defer func() { observability.EndSpan(span, err) }()

	if in.UserID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	fields := validation.PromptFields{
		Title:   strings.TrimSpace(in.Title),
		Input:   in.Input,
		Tags:    validation.NormalizeTags(in.Tags),
		AIModel: strings.TrimSpace(in.AIModel),
		Output:  in.Output,
	}
	if err := validation.ValidatePrompt(fields); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	var asset *StoredAsset
	if in.Image != nil {
		if s.assets == nil {
			return nil, models.NewValidationError("Image uploads are not enabled")
		}
		asset, err = s.assets.Upload(ctx, FolderPrompts, in.UserID, *in.Image)
		if err != nil {
			return nil, err
		}
	}

	prompt := &models.Prompt{
		UserID:  in.UserID,
		Title:   fields.Title,
		Input:   fields.Input,
		Tags:    fields.Tags,
		AIModel: fields.AIModel,
		Output:  fields.Output,
	}
	if asset != nil {
		prompt.ImageURL = asset.URL
	}

	unlock := s.locks.Lock(userKey(in.UserID))
	err = withConflictRetry(ctx, s.maxAttempts, "create_prompt", "User", func() error {
		prompt.ID = 0
		return s.prompts.CreateWithAuthorCount(ctx, prompt)
	})
	unlock()

	if err != nil {
		if asset != nil {
			if delErr := s.assets.Delete(ctx, asset.Key); delErr != nil {
				observability.LogAsyncOperationError(ctx, "asset_compensation", delErr, "key", asset.Key)
			}
		}
		return nil, err
	}

	observability.PromptsCreated.Inc()
	if s.events != nil {
		s.events.Publish(ctx, events.PromptCreated, prompt.ID, prompt.UserID, map[string]any{
			"title": prompt.Title,
			"tags":  prompt.Tags,
		})
	}
	return prompt, nil
}

// ListPrompts returns prompts newest first, annotated for the viewer.
func (s *PromptService) ListPrompts(ctx context.Context, in ListPromptsInput) ([]models.PromptView, error) {
	prompts, err := s.prompts.List(ctx, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	return s.views.Annotate(ctx, prompts, in.ViewerID)
}

func (s *PromptService) GetPrompt(ctx context.Context, id, viewerID uint) (*models.PromptView, error) {
	prompt, err := s.prompts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.views.AnnotateOne(ctx, *prompt, viewerID)
}

// SaveOutput replaces the recorded model output. Only the author may change it.
func (s *PromptService) SaveOutput(ctx context.Context, promptID, userID uint, output string) (*models.Prompt, error) {
	if err := validation.ValidateOutput(output); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	prompt, err := s.prompts.GetByID(ctx, promptID)
	if err != nil {
		return nil, err
	}
	if prompt.UserID != userID {
		return nil, models.NewForbiddenError("Only the author can change a prompt's output")
	}

	if err := s.prompts.UpdateOutput(ctx, promptID, output); err != nil {
		return nil, err
	}
	prompt.Output = output
	return prompt, nil
}
