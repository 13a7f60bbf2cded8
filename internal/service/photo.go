package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/config"
	"github.com/pageza/recipebox/internal/models"
)

// MaxPhotoBytes caps a single recipe photo upload.
const MaxPhotoBytes = 5 << 20

// PhotoUpload is a file received from the photo form.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// PhotoStore persists photo bytes and returns their public URL.
type PhotoStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// PhotoService attaches uploaded photos to recipes
type PhotoService struct {
	db     *gorm.DB
	store  PhotoStore
	logger *zap.Logger
}

// NewPhotoService creates a new PhotoService instance
func NewPhotoService(db *gorm.DB, store PhotoStore, logger *zap.Logger) *PhotoService {
	return &PhotoService{db: db, store: store, logger: logger}
}

// Upload stores the photo and records its URL on the recipe. Only the
// author may upload; anyone else gets ErrNotFound.
func (s *PhotoService) Upload(ctx context.Context, owner, slug string, editor *models.User, upload PhotoUpload) (*models.Recipe, error) {
	if editor == nil {
		return nil, ErrUnauthenticated
	}
	recipe, err := authoredRecipe(s.db.WithContext(ctx), owner, slug, editor)
	if err != nil {
		return nil, err
	}

	switch {
	case len(upload.Data) == 0:
		return nil, NewValidationError("photo", "The submitted file is empty.")
	case len(upload.Data) > MaxPhotoBytes:
		return nil, NewValidationError("photo", fmt.Sprintf("Ensure the file is at most %d bytes.", MaxPhotoBytes))
	case !strings.HasPrefix(upload.ContentType, "image/"):
		return nil, NewValidationError("photo", "Upload a valid image.")
	}

	key := fmt.Sprintf("recipe-photos/%s/%s%s", recipe.ID, uuid.New(), strings.ToLower(path.Ext(upload.Filename)))
	url, err := s.store.Put(ctx, key, upload.ContentType, upload.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", recipe.ID).
		UpdateColumns(map[string]interface{}{"photo": url, "updated_at": time.Now()}).Error; err != nil {
		return nil, fmt.Errorf("failed to save photo url: %w", err)
	}
	s.logger.Info("recipe photo uploaded", zap.String("recipe", recipe.Slug), zap.String("url", url))
	recipe.Photo = url
	return recipe, nil
}

// S3PhotoStore writes photos to the configured S3 bucket
type S3PhotoStore struct {
	s3Config *config.S3Config
}

// NewS3PhotoStore creates a PhotoStore backed by S3
func NewS3PhotoStore(s3Config *config.S3Config) *S3PhotoStore {
	return &S3PhotoStore{s3Config: s3Config}
}

// Put uploads data to S3 and returns the object's public URL
func (s *S3PhotoStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return s.s3Config.PublicURL(key), nil
}
