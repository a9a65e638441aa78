// Package httpapi is the HTTP transport of the reference server: a chi
// router, its middleware and JSON handlers over the services package.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/osp/internal/common"
	"github.com/dmitrijs2005/osp/internal/logging"
)

type Options struct {
	Logger    logging.Logger
	SecretKey []byte
	// Timeout bounds each request; zero disables it.
	Timeout time.Duration
}

// NewRouter builds the handler tree. Middleware order: RequestID, Logging,
// Recover, then the optional timeout.
func NewRouter(h *Handlers, opts Options) http.Handler {
	root := chi.NewRouter()
	root.Use(RequestID(), Logging(opts.Logger), Recover())
	if opts.Timeout > 0 {
		root.Use(chimw.Timeout(opts.Timeout))
	}

	root.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, common.ErrorNotFound)
	})

	registerRoutes(root, h, Authenticate(opts.SecretKey))
	return root
}

func registerRoutes(r chi.Router, h *Handlers, authn Middleware) {
	r.Post(common.PathLogin, h.Login)
	r.Post(common.PathSocialSignIn, h.SocialSignIn)
	r.Post(common.PathRefreshToken, h.RefreshToken)

	r.Get(common.PathMedia+"/{id}", h.GetMedia)
	r.Get(common.PathComments+"/{mediaId}", h.ListComments)

	r.Group(func(r chi.Router) {
		r.Use(authn)

		r.Delete(common.PathCurrentUser, h.DeleteCurrentUser)
		r.Delete(common.PathUsers+"/{id}", h.DeleteUser)

		r.Post(common.PathComments, h.CreateComment)
		r.Post(common.PathCommentsV1, h.CreateComment)
	})
}
