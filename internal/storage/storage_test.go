package storage

import (
	"context"
	"testing"

	"promptly/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Disabled(t *testing.T) {
	for _, backend := range []string{"", "none"} {
		s, err := New(context.Background(), &config.Config{AssetBackend: backend})
		require.NoError(t, err)
		assert.Nil(t, s)
	}
}

func TestNew_Unsupported(t *testing.T) {
	_, err := New(context.Background(), &config.Config{AssetBackend: "ftp"})
	assert.Error(t, err)
}

func TestNewMinioClient_Validation(t *testing.T) {
	_, err := NewMinioClient(MinioConfig{})
	assert.Error(t, err)

	_, err = NewMinioClient(MinioConfig{Endpoint: "localhost:9000", Bucket: "assets"})
	assert.Error(t, err, "credentials are required")
}

func TestMinioClient_URL(t *testing.T) {
	c, err := NewMinioClient(MinioConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "assets",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/assets/prompts/a.webp", c.URL("prompts/a.webp"))
	assert.Equal(t, "minio", c.Name())

	c, err = NewMinioClient(MinioConfig{
		Endpoint:      "localhost:9000",
		AccessKey:     "minio",
		SecretKey:     "minio123",
		Bucket:        "assets",
		PublicBaseURL: "https://cdn.example.com/",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/prompts/a.webp", c.URL("/prompts/a.webp"))
}

func TestNewGCSClient_RequiresBucket(t *testing.T) {
	_, err := NewGCSClient(context.Background(), GCSConfig{})
	assert.Error(t, err)
}
