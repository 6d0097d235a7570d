package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"mime"
	"net/http"
	"strings"
	"time"

	"promptly/internal/config"
	"promptly/internal/models"
	"promptly/internal/observability"
	"promptly/internal/storage"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultAssetMaxUploadSizeMB = 10
	DefaultAssetMaxDimension    = 1600
	WebPQuality                 = 80
)

// Asset folders.
const (
	FolderPrompts  = "prompts"
	FolderProfiles = "profiles"
)

// AssetUpload is a raw image submitted with a request.
type AssetUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// StoredAsset is an image accepted by the asset host.
type StoredAsset struct {
	Key string
	URL string
}

// AssetUploader stores and removes user images.
type AssetUploader interface {
	Upload(ctx context.Context, folder string, userID uint, in AssetUpload) (*StoredAsset, error)
	Delete(ctx context.Context, key string) error
}

// AssetService normalizes images to WebP and hands them to the asset host. Every host
// call runs under the configured timeout.
type AssetService struct {
	store              storage.ObjectStorage
	timeout            time.Duration
	maxUploadSizeBytes int64
	maxDimension       int
}

// NewAssetService wraps store. A nil store rejects uploads with EXTERNAL_SERVICE_ERROR.
func NewAssetService(store storage.ObjectStorage, cfg *config.Config) *AssetService {
	maxUploadSizeMB := DefaultAssetMaxUploadSizeMB
	maxDimension := DefaultAssetMaxDimension
	timeout := 15 * time.Second

	if cfg != nil {
		if cfg.AssetMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.AssetMaxUploadSizeMB
		}
		if cfg.AssetMaxDimension > 0 {
			maxDimension = cfg.AssetMaxDimension
		}
		timeout = cfg.AssetUploadTimeout()
	}

	return &AssetService{
		store:              store,
		timeout:            timeout,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
		maxDimension:       maxDimension,
	}
}

func (s *AssetService) Enabled() bool { return s != nil && s.store != nil }

func (s *AssetService) Upload(ctx context.Context, folder string, userID uint, in AssetUpload) (*StoredAsset, error) {
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if provided := normalizeContentType(in.ContentType); strings.HasPrefix(provided, "image/") && !isMatchingContentType(provided, decodedFormatToMime(format)) {
		return nil, models.NewValidationError("Image content type mismatch")
	}

	encoded, err := encodeWebP(resizeToFit(decoded, s.maxDimension, s.maxDimension), WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if !s.Enabled() {
		return nil, models.NewExternalServiceError("asset host", errors.New("no asset backend configured"))
	}

	key := fmt.Sprintf("%s/%s.webp", folder, uuid.NewString())
	if userID != 0 {
		key = fmt.Sprintf("%s/%d/%s.webp", folder, userID, uuid.NewString())
	}

	uploadCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err = s.store.Put(uploadCtx, key, bytes.NewReader(encoded), int64(len(encoded)), "image/webp")
	observability.AssetUploadLatency.WithLabelValues(s.store.Name(), observability.Result(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, models.NewExternalServiceError("asset host", err)
	}

	return &StoredAsset{Key: key, URL: s.store.URL(key)}, nil
}

// Delete removes an uploaded asset, used to compensate a failed write.
func (s *AssetService) Delete(ctx context.Context, key string) error {
	if !s.Enabled() || key == "" {
		return nil
	}
	deleteCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	if err := s.store.Delete(deleteCtx, key); err != nil {
		return models.NewExternalServiceError("asset host", err)
	}
	return nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scale := float64(maxWidth) / float64(w)
	if scaleH := float64(maxHeight) / float64(h); scaleH < scale {
		scale = scaleH
	}
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}

func decodedFormatToMime(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return ""
	}
}
