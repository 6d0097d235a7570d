package service

import (
	"context"
	"strings"

	"promptly/internal/identity"
	"promptly/internal/models"
	"promptly/internal/observability"
	"promptly/internal/repository"
	"promptly/internal/validation"
)

// TokenIssuer signs and revokes access tokens.
type TokenIssuer interface {
	Issue(userID uint, username string) (string, error)
	Revoke(ctx context.Context, claims *identity.Claims) error
}

// AuthService registers and authenticates users.
type AuthService struct {
	users  repository.UserRepository
	assets AssetUploader
	tokens TokenIssuer
}

type SignupInput struct {
	Username       string
	Email          string
	Password       string
	ProfilePicture *AssetUpload
}

// Session is a signed token and the user it belongs to.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func NewAuthService(users repository.UserRepository, assets AssetUploader, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, assets: assets, tokens: tokens}
}

// Signup creates the account and returns a session. The profile picture is optional; if
// its upload fails, or no asset host is configured, no account is created.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Username, email, and password are required")
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.ProfilePicture != nil && s.assets == nil {
		return nil, models.NewValidationError("Image uploads are not enabled")
	}

	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("User already exists")
	}

	hashed, err := identity.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hashed,
	}

	var asset *StoredAsset
	if in.ProfilePicture != nil {
		asset, err = s.assets.Upload(ctx, FolderProfiles, 0, *in.ProfilePicture)
		if err != nil {
			return nil, err
		}
		user.ProfilePicture = asset.URL
	}

	if err := s.users.Create(ctx, user); err != nil {
		if asset != nil {
			if delErr := s.assets.Delete(ctx, asset.Key); delErr != nil {
				observability.LogAsyncOperationError(ctx, "asset_compensation", delErr, "key", asset.Key)
			}
		}
		return nil, err
	}

	return s.session(user)
}

// Login checks credentials. Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil || !identity.CheckPassword(user.Password, password) {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return s.session(user)
}

// Logout revokes the presented token.
func (s *AuthService) Logout(ctx context.Context, claims *identity.Claims) error {
	if claims == nil {
		return nil
	}
	return s.tokens.Revoke(ctx, claims)
}

func (s *AuthService) session(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &Session{Token: token, User: user}, nil
}
