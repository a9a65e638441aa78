package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/osp/internal/client/models"
	"github.com/dmitrijs2005/osp/internal/common"
)

const (
	loadMediaMessage    = "Failed to load media. Please try again."
	loadCommentsMessage = "Failed to load comments. Please try again."
	postCommentMessage  = "Failed to post comment. Please try again."
)

// LoadError is a failed media view call with the message to show next to a
// retry affordance.
type LoadError struct {
	Message string
	Err     error
}

func (e *LoadError) Error() string { return e.Message }

func (e *LoadError) Unwrap() error { return e.Err }

// MediaService backs the media detail route.
type MediaService interface {
	GetMedia(ctx context.Context, id string) (*models.Media, error)
	ListComments(ctx context.Context, mediaID string) ([]models.Comment, error)
	PostComment(ctx context.Context, mediaID, text string) (*models.Comment, error)

	// LoadMediaView fetches the item and its comments concurrently. A media
	// failure fails the view; a comments failure is returned alongside the
	// loaded media.
	LoadMediaView(ctx context.Context, id string) (*models.MediaView, error)

	// AddComment posts text on the view's media and prepends the result.
	AddComment(ctx context.Context, view *models.MediaView, text string) (*models.Comment, error)
}

type mediaService struct {
	api   APIClient
	store CredentialStore
}

func NewMediaService(api APIClient, store CredentialStore) MediaService {
	return &mediaService{api: api, store: store}
}

func (s *mediaService) GetMedia(ctx context.Context, id string) (*models.Media, error) {
	var m models.Media
	if err := s.api.Get(ctx, common.PathMedia+"/"+url.PathEscape(id), &m); err != nil {
		return nil, &LoadError{Message: loadMediaMessage, Err: err}
	}
	return &m, nil
}

func (s *mediaService) ListComments(ctx context.Context, mediaID string) ([]models.Comment, error) {
	comments := []models.Comment{}
	if err := s.api.Get(ctx, common.PathComments+"/"+url.PathEscape(mediaID), &comments); err != nil {
		return nil, &LoadError{Message: loadCommentsMessage, Err: err}
	}
	return comments, nil
}

func (s *mediaService) PostComment(ctx context.Context, mediaID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" || mediaID == "" {
		return nil, ErrEmptyComment
	}
	if !s.store.HasToken(ctx) {
		return nil, ErrNotSignedIn
	}

	var c models.Comment
	if err := s.api.Post(ctx, common.PathComments, models.NewComment{MediaID: mediaID, Text: text}, &c); err != nil {
		return nil, &LoadError{Message: postCommentMessage, Err: err}
	}
	return &c, nil
}

func (s *mediaService) LoadMediaView(ctx context.Context, id string) (*models.MediaView, error) {
	var (
		g           errgroup.Group
		media       *models.Media
		comments    []models.Comment
		commentsErr error
	)

	g.Go(func() error {
		var err error
		media, err = s.GetMedia(ctx, id)
		return err
	})
	g.Go(func() error {
		comments, commentsErr = s.ListComments(ctx, id)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &models.MediaView{Media: media, Comments: comments}
	if commentsErr != nil {
		return view, commentsErr
	}
	return view, nil
}

func (s *mediaService) AddComment(ctx context.Context, view *models.MediaView, text string) (*models.Comment, error) {
	if view == nil || view.Media == nil {
		return nil, fmt.Errorf("add comment: no media open")
	}
	c, err := s.PostComment(ctx, view.Media.ID, text)
	if err != nil {
		return nil, err
	}
	view.Prepend(*c)
	return c, nil
}
