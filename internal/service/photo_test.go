package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/internal/models"
	"github.com/pageza/recipebox/internal/testhelpers"
)

type mockPhotoStore struct {
	mock.Mock
}

func (m *mockPhotoStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, key, contentType, data)
	return args.String(0), args.Error(1)
}

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake")

func TestUploadPhoto(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	f := testhelpers.LoadFixtures(t, db)
	store := new(mockPhotoStore)
	svc := NewPhotoService(db, store, zap.NewNop())

	keyPrefix := "recipe-photos/" + f.Chili.ID.String() + "/"
	store.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, keyPrefix) && strings.HasSuffix(key, ".png")
	}), "image/png", pngBytes).Return("https://photos.example.com/chili.png", nil).Once()

	recipe, err := svc.Upload(context.Background(), "admin", "tasty-chili", f.Admin, PhotoUpload{
		Filename:    "Chili.PNG",
		ContentType: "image/png",
		Data:        pngBytes,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://photos.example.com/chili.png", recipe.Photo)

	var saved models.Recipe
	require.NoError(t, db.First(&saved, "id = ?", f.Chili.ID).Error)
	assert.Equal(t, "https://photos.example.com/chili.png", saved.Photo)
	store.AssertExpectations(t)
}

func TestUploadPhotoRejected(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	f := testhelpers.LoadFixtures(t, db)
	store := new(mockPhotoStore)
	svc := NewPhotoService(db, store, zap.NewNop())
	ctx := context.Background()

	image := PhotoUpload{Filename: "a.png", ContentType: "image/png", Data: pngBytes}

	_, err := svc.Upload(ctx, "admin", "tasty-chili", f.User, image)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Upload(ctx, "admin", "tasty-chili", nil, image)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	tests := []struct {
		name   string
		upload PhotoUpload
	}{
		{name: "empty", upload: PhotoUpload{Filename: "a.png", ContentType: "image/png"}},
		{name: "not an image", upload: PhotoUpload{Filename: "a.txt", ContentType: "text/plain", Data: []byte("hello")}},
		{name: "too large", upload: PhotoUpload{Filename: "a.png", ContentType: "image/png", Data: make([]byte, MaxPhotoBytes+1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(ctx, "admin", "tasty-chili", f.Admin, tt.upload)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, "photo")
		})
	}

	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadPhotoStoreFailure(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	f := testhelpers.LoadFixtures(t, db)
	store := new(mockPhotoStore)
	svc := NewPhotoService(db, store, zap.NewNop())

	store.On("Put", mock.Anything, mock.Anything, "image/jpeg", mock.Anything).Return("", errors.New("bucket unavailable"))

	_, err := svc.Upload(context.Background(), "admin", "tasty-chili", f.Admin, PhotoUpload{
		Filename:    "chili.jpg",
		ContentType: "image/jpeg",
		Data:        []byte("jpeg"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket unavailable")

	var saved models.Recipe
	require.NoError(t, db.First(&saved, "id = ?", f.Chili.ID).Error)
	assert.Empty(t, saved.Photo)
}
