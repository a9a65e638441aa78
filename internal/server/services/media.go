package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/osp/internal/common"
	sc "github.com/dmitrijs2005/osp/internal/server/config"
	"github.com/dmitrijs2005/osp/internal/server/models"
	"github.com/dmitrijs2005/osp/internal/server/repositories/repomanager"
)

// thumbnailURLValidity bounds presigned thumbnail links.
const thumbnailURLValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// MediaService serves media items and their comments.
type MediaService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewMediaService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *MediaService {
	return &MediaService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

func (s *MediaService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// GetPresignedGetUrl returns a temporary GET link to key in the media bucket.
func (s *MediaService) GetPresignedGetUrl(ctx context.Context, key string) (string, error) {

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(thumbnailURLValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// GetMedia returns the item with id. A thumbnail stored in the bucket is
// returned as a presigned link when S3 is configured.
func (s *MediaService) GetMedia(ctx context.Context, id string) (*models.Media, error) {
	m, err := s.repomanager.Media(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if m.ThumbnailKey != "" && s.config.S3Enabled() {
		url, err := s.GetPresignedGetUrl(ctx, m.ThumbnailKey)
		if err != nil {
			return nil, fmt.Errorf("error presigning thumbnail: %w", err)
		}
		m.ThumbnailURL = url
	}
	return m, nil
}

// ListComments returns the comments of mediaID, newest first. An unknown
// media item gives common.ErrorNotFound.
func (s *MediaService) ListComments(ctx context.Context, mediaID string) ([]models.Comment, error) {
	if _, err := s.repomanager.Media(s.db).Get(ctx, mediaID); err != nil {
		return nil, err
	}
	return s.repomanager.Comments(s.db).ListByMedia(ctx, mediaID)
}

// CreateComment stores text by userID on mediaID. Blank text or a missing
// media id gives common.ErrorValidation.
func (s *MediaService) CreateComment(ctx context.Context, userID, mediaID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if mediaID == "" || text == "" {
		return nil, common.ErrorValidation
	}
	if _, err := s.repomanager.Media(s.db).Get(ctx, mediaID); err != nil {
		return nil, err
	}

	c, err := s.repomanager.Comments(s.db).Create(ctx, &models.Comment{MediaID: mediaID, UserID: userID, Text: text})
	if err != nil {
		return nil, fmt.Errorf("error creating comment: %w", err)
	}
	return c, nil
}

// SeedMedia stores m as is.
func (s *MediaService) SeedMedia(ctx context.Context, m *models.Media) (*models.Media, error) {
	return s.repomanager.Media(s.db).Create(ctx, m)
}
