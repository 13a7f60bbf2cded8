package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/internal/models"
	"github.com/pageza/recipebox/internal/service"
)

func TestRateHandler(t *testing.T) {
	env := newTestEnv(t, false)
	recipeID := uuid.New()
	env.ratings.On("Vote", mock.Anything, recipeID, 4, testUser).
		Return(&service.VoteResult{Message: service.MessageVoteRecorded, Score: 4, Votes: 1, Average: 4}, nil)

	w := env.do(httptest.NewRequest(http.MethodPost, "/recipes/rate/"+recipeID.String()+"/4", nil), true)
	require.Equal(t, http.StatusOK, w.Code)

	var result service.VoteResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "Vote recorded.", result.Message)
	assert.Equal(t, 1, result.Votes)
}

func TestRateHandlerRejections(t *testing.T) {
	env := newTestEnv(t, false)
	recipeID := uuid.New()
	hidden := uuid.New()
	env.ratings.On("Vote", mock.Anything, recipeID, 9, testUser).
		Return(nil, service.NewValidationError("score", "Score must be between 1 and 5."))
	env.ratings.On("Vote", mock.Anything, hidden, 3, testUser).Return(nil, service.ErrNotFound)

	tests := []struct {
		name          string
		path          string
		authenticated bool
		want          int
	}{
		{name: "anonymous", path: "/recipes/rate/" + recipeID.String() + "/3", want: http.StatusFound},
		{name: "bad id", path: "/recipes/rate/not-a-uuid/3", authenticated: true, want: http.StatusNotFound},
		{name: "bad score", path: "/recipes/rate/" + recipeID.String() + "/five", authenticated: true, want: http.StatusBadRequest},
		{name: "out of range", path: "/recipes/rate/" + recipeID.String() + "/9", authenticated: true, want: http.StatusBadRequest},
		{name: "hidden recipe", path: "/recipes/rate/" + hidden.String() + "/3", authenticated: true, want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(httptest.NewRequest(http.MethodPost, tt.path, nil), tt.authenticated)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestStoreHandler(t *testing.T) {
	env := newTestEnv(t, false)
	recipeID := uuid.New()
	env.favorites.On("Store", mock.Anything, recipeID, testUser).Return(service.StoreAdded, nil).Once()
	env.favorites.On("Store", mock.Anything, recipeID, testUser).Return(service.StoreAlreadyExists, nil).Once()

	path := "/recipes/store/" + recipeID.String()
	for _, want := range []string{"Recipe added to your favorites!", "Recipe already in your favorites!"} {
		w := env.do(httptest.NewRequest(http.MethodPost, path, nil), true)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, want, body["message"])
	}

	w := env.do(httptest.NewRequest(http.MethodPost, "/recipes/store/42", nil), true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnstoreHandler(t *testing.T) {
	env := newTestEnv(t, false)
	stored := uuid.New()
	missing := uuid.New()
	env.favorites.On("Unstore", mock.Anything, stored, testUser).Return(nil)
	env.favorites.On("Unstore", mock.Anything, missing, testUser).Return(service.ErrNotFound)

	w := env.do(postForm("/recipes/unstore", url.Values{"recipe_id": {stored.String()}}), true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, FavoritesPath, w.Header().Get("Location"))

	w = env.do(postForm("/recipes/unstore", url.Values{"recipe_id": {missing.String()}}), true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(postForm("/recipes/unstore", url.Values{"recipe_id": {"1234"}}), true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(postForm("/recipes/unstore", url.Values{}), true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(postForm("/recipes/unstore", url.Values{"recipe_id": {stored.String()}}), false)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/accounts/login?next=%2Frecipes%2Funstore", w.Header().Get("Location"))
}

func TestFavoritesListHandler(t *testing.T) {
	env := newTestEnv(t, false)
	env.favorites.On("List", mock.Anything, testUser).Return([]models.StoredRecipe{
		{RecipeID: uuid.New(), Recipe: &models.Recipe{Title: "Tasty Chili"}},
	}, nil)

	w := env.do(httptest.NewRequest(http.MethodGet, FavoritesPath, nil), true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Tasty Chili")
}

func photoRequest(t *testing.T, path, filename, contentType string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if filename != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="photo"; filename="`+filename+`"`)
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	} else {
		require.NoError(t, writer.WriteField("caption", "no file"))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestPhotoHandler(t *testing.T) {
	env := newTestEnv(t, true)
	data := []byte("\x89PNG fake")
	env.photos.On("Upload", mock.Anything, "testUser", "soup", testUser, mock.MatchedBy(func(u service.PhotoUpload) bool {
		return u.Filename == "soup.png" && u.ContentType == "image/png" && bytes.Equal(u.Data, data)
	})).Return(&models.Recipe{Slug: "soup", Photo: "https://photos.example.com/soup.png"}, nil)

	w := env.do(photoRequest(t, "/recipes/photo/testUser/soup", "soup.png", "image/png", data), true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"photo":"https://photos.example.com/soup.png"`)
}

func TestPhotoHandlerErrors(t *testing.T) {
	env := newTestEnv(t, true)
	env.photos.On("Upload", mock.Anything, "testUser", "soup", testUser, mock.Anything).
		Return(nil, service.NewValidationError("photo", "Upload a valid image."))
	env.photos.On("Upload", mock.Anything, "admin", "tasty-chili", testUser, mock.Anything).
		Return(nil, service.ErrNotFound)

	w := env.do(photoRequest(t, "/recipes/photo/testUser/soup", "", "", nil), true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "This field is required.")

	w = env.do(photoRequest(t, "/recipes/photo/testUser/soup", "notes.txt", "text/plain", []byte("hi")), true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Upload a valid image.")

	w = env.do(photoRequest(t, "/recipes/photo/admin/tasty-chili", "a.png", "image/png", []byte("png")), true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPhotoHandlerNotConfigured(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.do(photoRequest(t, "/recipes/photo/testUser/soup", "a.png", "image/png", []byte("png")), true)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
