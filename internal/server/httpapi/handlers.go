package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/osp/internal/server/models"
	"github.com/dmitrijs2005/osp/internal/server/services"
)

// UserService is the account side the handlers need.
type UserService interface {
	Login(ctx context.Context, userName, password string) (*services.TokenPair, error)
	SocialSignIn(ctx context.Context, provider, idToken string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	DeleteAccount(ctx context.Context, userID string) error
}

// MediaService is the media side the handlers need.
type MediaService interface {
	GetMedia(ctx context.Context, id string) (*models.Media, error)
	ListComments(ctx context.Context, mediaID string) ([]models.Comment, error)
	CreateComment(ctx context.Context, userID, mediaID, text string) (*models.Comment, error)
}

type Handlers struct {
	Users UserService
	Media MediaService
}

func NewHandlers(u UserService, m MediaService) *Handlers {
	return &Handlers{Users: u, Media: m}
}

// decodeStrict rejects unknown fields.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(value); err != nil {
		return errBadRequest
	}
	return nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse keeps the bare token field older clients read.
type loginResponse struct {
	Token        string `json:"token"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type signInRequest struct {
	Provider string `json:"provider"`
	IDToken  string `json:"idToken"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type mediaResponse struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	ThumbnailURL string       `json:"thumbnailUrl"`
	CreatedAt    time.Time    `json:"createdAt"`
	Location     string       `json:"location,omitempty"`
	Coordinates  *coordinates `json:"coordinates,omitempty"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	MediaID   string    `json:"mediaId"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type newCommentRequest struct {
	MediaID string `json:"mediaId"`
	Text    string `json:"text"`
}

func toMediaResponse(m *models.Media) mediaResponse {
	resp := mediaResponse{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		ThumbnailURL: m.ThumbnailURL,
		CreatedAt:    m.CreatedAt,
		Location:     m.Location,
	}
	if m.Latitude != nil && m.Longitude != nil {
		resp.Coordinates = &coordinates{Latitude: *m.Latitude, Longitude: *m.Longitude}
	}
	return resp
}

func toCommentResponse(c *models.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		MediaID:   c.MediaID,
		UserID:    c.UserID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

// POST /api/v1/auth/login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeStrict(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	pair, err := h.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:        pair.AccessToken,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// POST /api/v1/auth/signin
func (h *Handlers) SocialSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeStrict(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	pair, err := h.Users.SocialSignIn(r.Context(), req.Provider, req.IDToken)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// POST /auth/refresh-token
func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeStrict(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	access, err := h.Users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{AccessToken: access})
}

// DELETE /api/v1/users/current
func (h *Handlers) DeleteCurrentUser(w http.ResponseWriter, r *http.Request) {
	h.deleteUser(w, r, UserIDFrom(r.Context()))
}

// DELETE /api/v1/users/{id}
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id != UserIDFrom(r.Context()) {
		WriteError(w, r, errForbidden)
		return
	}
	h.deleteUser(w, r, id)
}

func (h *Handlers) deleteUser(w http.ResponseWriter, r *http.Request, userID string) {
	if err := h.Users.DeleteAccount(r.Context(), userID); err != nil {
		WriteError(w, r, err)
		return
	}
	loggerFrom(r.Context()).Info(r.Context(), "account deletion requested", "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}

// GET /media/{id}
func (h *Handlers) GetMedia(w http.ResponseWriter, r *http.Request) {
	m, err := h.Media.GetMedia(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMediaResponse(m))
}

// GET /comments/{mediaId}
func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	list, err := h.Media.ListComments(r.Context(), chi.URLParam(r, "mediaId"))
	if err != nil {
		WriteError(w, r, err)
		return
	}

	resp := make([]commentResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toCommentResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /comments
func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req newCommentRequest
	if err := decodeStrict(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	c, err := h.Media.CreateComment(r.Context(), UserIDFrom(r.Context()), req.MediaID, req.Text)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCommentResponse(c))
}
