package upload

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

func TestS3KeyAndRef(t *testing.T) {
	store := NewS3WithClient(s3.New(s3.Options{Region: "eu-central-1"}), S3Config{
		Bucket:        "photos",
		Region:        "eu-central-1",
		Prefix:        "/items/",
		PublicBaseURL: "https://cdn.example.com/",
	})
	store.Now = func() time.Time { return time.UnixMilli(42) }

	key := store.key(File{Field: "picture", Filename: "a.png"})
	require.Equal(t, "items/picture-42.png", key)

	got, ok := store.keyFromRef("https://cdn.example.com/" + key)
	require.True(t, ok)
	require.Equal(t, key, got)

	_, ok = store.keyFromRef("/uploads/picture-42.png")
	require.False(t, ok)
}

func TestS3DefaultBaseURL(t *testing.T) {
	store := NewS3WithClient(s3.New(s3.Options{Region: "us-east-1"}), S3Config{Bucket: "photos", Region: "us-east-1"})
	require.Equal(t, "https://photos.s3.us-east-1.amazonaws.com", store.baseURL)
}

func TestS3RoundTrip(t *testing.T) {
	bucket := os.Getenv("S3_TEST_BUCKET")
	if bucket == "" {
		t.Skip("S3_TEST_BUCKET not set; skipping S3 integration test")
	}

	ctx := context.Background()
	store, err := NewS3(ctx, S3Config{
		Bucket:   bucket,
		Region:   os.Getenv("AWS_REGION"),
		Endpoint: os.Getenv("S3_TEST_ENDPOINT"),
		Prefix:   "portfolio-test",
	})
	require.NoError(t, err)

	ref, err := store.Save(ctx, File{Field: "picture", Filename: "a.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, ref))
}
