package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/osp/internal/common"
	sc "github.com/dmitrijs2005/osp/internal/server/config"
	"github.com/dmitrijs2005/osp/internal/server/models"
	"github.com/dmitrijs2005/osp/internal/server/repositories/repomanager"
)

func newMemoryMediaService(t *testing.T, cfg *sc.Config) *MediaService {
	t.Helper()
	if cfg == nil {
		cfg = &sc.Config{}
	}
	return NewMediaService(nil, repomanager.NewInMemoryRepositoryManager(), cfg)
}

func stubPresign(t *testing.T, url string, err error) *string {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client { return &s3.Client{} }
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }

	var key string
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		key = *in.Key
		if err != nil {
			return nil, err
		}
		return &v4.PresignedHTTPRequest{URL: url}, nil
	}
	return &key
}

func Test_getPresignClient_SuccessAndError(t *testing.T) {
	svc := newMemoryMediaService(t, &sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "media",
	})

	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		if len(optFns) == 0 {
			t.Fatalf("expected config options")
		}
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load options fn error: %v", err)
			}
		}
		if lo.Region != "us-east-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		if c == nil {
			t.Fatalf("nil client passed to presign")
		}
		return &s3.PresignClient{}
	}

	pc, err := svc.getPresignClient(context.Background())
	if err != nil {
		t.Fatalf("getPresignClient err: %v", err)
	}
	if pc == nil {
		t.Fatalf("nil presign client")
	}
	if opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://127.0.0.1:9000" {
		t.Fatalf("BaseEndpoint mismatch: %v", opts.BaseEndpoint)
	}
	if !opts.UsePathStyle {
		t.Fatalf("path-style addressing not enabled")
	}

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	pc, err = svc.getPresignClient(context.Background())
	if err == nil || err.Error() != "load-fail" {
		t.Fatalf("expected load-fail, got %v (pc=%v)", err, pc)
	}
}

func TestGetMedia_PresignsStoredThumbnail(t *testing.T) {
	svc := newMemoryMediaService(t, &sc.Config{S3Bucket: "media"})
	key := stubPresign(t, "https://s3.example/thumb?sig", nil)
	ctx := context.Background()

	_, err := svc.SeedMedia(ctx, &models.Media{ID: "m1", Title: "Sunset", ThumbnailKey: "thumbs/m1.jpg", ThumbnailURL: "http://fallback"})
	require.NoError(t, err)

	m, err := svc.GetMedia(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example/thumb?sig", m.ThumbnailURL)
	assert.Equal(t, "thumbs/m1.jpg", *key)
}

func TestGetMedia_StoredURLWithoutS3(t *testing.T) {
	svc := newMemoryMediaService(t, nil)
	ctx := context.Background()

	_, err := svc.SeedMedia(ctx, &models.Media{ID: "m1", ThumbnailKey: "thumbs/m1.jpg", ThumbnailURL: "http://cdn/m1.jpg"})
	require.NoError(t, err)

	m, err := svc.GetMedia(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/m1.jpg", m.ThumbnailURL)
}

func TestGetMedia_PresignError(t *testing.T) {
	svc := newMemoryMediaService(t, &sc.Config{S3Bucket: "media"})
	stubPresign(t, "", errors.New("presign-fail"))
	ctx := context.Background()

	_, err := svc.SeedMedia(ctx, &models.Media{ID: "m1", ThumbnailKey: "k"})
	require.NoError(t, err)

	_, err = svc.GetMedia(ctx, "m1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "presign-fail")
}

func TestGetMedia_NotFound(t *testing.T) {
	svc := newMemoryMediaService(t, nil)

	_, err := svc.GetMedia(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestComments_CreateAndListNewestFirst(t *testing.T) {
	svc := newMemoryMediaService(t, nil)
	ctx := context.Background()
	_, err := svc.SeedMedia(ctx, &models.Media{ID: "m1"})
	require.NoError(t, err)

	first, err := svc.CreateComment(ctx, "u1", "m1", "  first  ")
	require.NoError(t, err)
	assert.Equal(t, "first", first.Text)
	_, err = svc.CreateComment(ctx, "u2", "m1", "second")
	require.NoError(t, err)

	list, err := svc.ListComments(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Text)
	assert.Equal(t, "u2", list[0].UserID)
}

func TestComments_Validation(t *testing.T) {
	svc := newMemoryMediaService(t, nil)
	ctx := context.Background()
	_, err := svc.SeedMedia(ctx, &models.Media{ID: "m1"})
	require.NoError(t, err)

	_, err = svc.CreateComment(ctx, "u1", "m1", "   ")
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = svc.CreateComment(ctx, "u1", "", "hi")
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = svc.CreateComment(ctx, "u1", "nope", "hi")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = svc.ListComments(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
