package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"cutroom/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *S3Store {
	cfg := &config.Config{
		S3URL:       "http://localhost:54321/storage/v1/s3",
		S3Region:    "local",
		S3AccessKey: "access",
		S3SecretKey: "secret",
	}
	client, err := NewS3Client(context.Background(), cfg)
	require.NoError(t, err)
	return NewS3Store(client, "media")
}

func TestPresignPutIsPathStyle(t *testing.T) {
	store := testStore(t)
	key := MediaKey("p1", "m1", "cut.mov")

	raw, err := store.PresignPut(context.Background(), key, "video/quicktime", 0, 15*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:54321", u.Host)
	assert.Equal(t, "/storage/v1/s3/media/projects/p1/media/m1/cut.mov", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
}

func TestPresignPutSignsContentLength(t *testing.T) {
	store := testStore(t)

	raw, err := store.PresignPut(context.Background(), MediaKey("p1", "m1", "a.mp4"), "video/mp4", 1024, time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Contains(t, u.Query().Get("X-Amz-SignedHeaders"), "content-length")
}

func TestPresignGet(t *testing.T) {
	store := testStore(t)
	raw, err := store.PresignGet(context.Background(), "projects/p1/media/m1/cut.mov", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.Contains(raw, "X-Amz-Signature="))
}

func TestMediaKey(t *testing.T) {
	assert.Equal(t, "projects/p/media/m/", MediaPrefix("p", "m"))
	assert.Equal(t, "projects/p/media/m/a.mp4", MediaKey("p", "m", "a.mp4"))
}
