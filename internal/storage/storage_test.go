package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLocalBlobStore_Put(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalBlobStore(dir, "/uploads/", nil)
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "file-abc.png", "image/png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/file-abc.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "file-abc.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	// same key overwrites
	_, err = store.Put(context.Background(), "file-abc.png", "image/png", []byte("other"))
	require.NoError(t, err)
	data, err = os.ReadFile(filepath.Join(dir, "file-abc.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("other"), data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalBlobStore_RejectsTraversal(t *testing.T) {
	store, err := NewLocalBlobStore(t.TempDir(), "/uploads", nil)
	require.NoError(t, err)

	for _, key := range []string{"", "..", "../etc/passwd", `a\b`, "dir/file.png"} {
		_, err := store.Put(context.Background(), key, "image/png", []byte("x"))
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestLocalBlobStore_CanceledContext(t *testing.T) {
	store, err := NewLocalBlobStore(t.TempDir(), "/uploads", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Put(ctx, "file-a.png", "image/png", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestS3BlobStore_Put(t *testing.T) {
	client := new(mockS3)
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return *in.Bucket == "images" &&
			*in.Key == "file-abc.jpg" &&
			*in.ContentType == "image/jpeg" &&
			*in.ContentLength == 4 &&
			string(body) == "jpeg"
	})).Return(&s3.PutObjectOutput{}, nil)

	store := NewS3BlobStore(client, "images", nil, nil)
	url, err := store.Put(context.Background(), "file-abc.jpg", "image/jpeg", []byte("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "https://images.s3.amazonaws.com/file-abc.jpg", url)
	client.AssertExpectations(t)
}

func TestS3BlobStore_CustomURLAndFailure(t *testing.T) {
	client := new(mockS3)
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied")).Once()

	store := NewS3BlobStore(client, "images", func(key string) string { return "https://cdn.example.com/" + key }, nil)
	_, err := store.Put(context.Background(), "file-abc.gif", "image/gif", []byte("gif"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")

	client.On("PutObject", mock.Anything, mock.Anything).Return(&s3.PutObjectOutput{}, nil).Once()
	url, err := store.Put(context.Background(), "file-abc.gif", "image/gif", []byte("gif"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/file-abc.gif", url)
}
