// Package handlers serves the blog's HTML pages.
package handlers

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quill-blog/server/internal/services"
	"github.com/quill-blog/server/internal/session"
	"github.com/quill-blog/server/internal/storage"
)

const (
	msgLoginRequired   = "Please log in to continue."
	msgLoginPrompt     = "You need to login or register to comment."
	msgAlreadyExists   = "You have already registered with this email. Please log in instead."
	msgWrongCredential = "Your email or password is wrong. Please try again."
	msgCommentAdded    = "Your comment is added successfully"
	msgRoleExists      = "This user type already exists"
	msgRoleCreated     = "User type created"
	msgTitleTaken      = "A post with this title already exists."
	msgUploadsDisabled = "Image uploads are not enabled."
	msgUnsupportedFile = "Upload a PNG, JPEG, GIF or WebP image."
)

// Pinger reports database health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Dependencies are the collaborators a Handler is built from.
type Dependencies struct {
	Accounts *services.AccountService
	Posts    *services.PostService
	Comments *services.CommentService
	Roles    *services.RoleService
	Images   *services.ImageService
	// Uploads serves stored images under /uploads; nil disables the route.
	Uploads  *storage.Storage
	Sessions *session.Manager
	DB       Pinger
	Logger   *zap.Logger
}

// Handler provides the HTTP handlers of the blog.
type Handler struct {
	accounts *services.AccountService
	posts    *services.PostService
	comments *services.CommentService
	roles    *services.RoleService
	images   *services.ImageService
	uploads  *storage.Storage
	sessions *session.Manager
	db       Pinger
	logger   *zap.Logger
	views    *renderer
}

// New constructs a Handler and parses its templates.
func New(deps Dependencies) (*Handler, error) {
	views, err := newRenderer()
	if err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		accounts: deps.Accounts,
		posts:    deps.Posts,
		comments: deps.Comments,
		roles:    deps.Roles,
		images:   deps.Images,
		uploads:  deps.Uploads,
		sessions: deps.Sessions,
		db:       deps.DB,
		logger:   logger,
		views:    views,
	}, nil
}

// Routes registers every blog route on r.
func (h *Handler) Routes(r chi.Router) {
	static, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.Get("/healthz", h.Health)
	r.Get("/uploads/*", h.ServeUpload)

	r.Group(func(r chi.Router) {
		r.Use(h.LoadUser)

		r.Get("/", h.Index)
		r.Get("/about", h.About)
		r.Get("/contact", h.Contact)

		r.Get("/register", h.RegisterPage)
		r.Post("/register", h.Register)
		r.Get("/login", h.LoginPage)
		r.Post("/login", h.Login)
		r.Get("/logout", h.Logout)

		r.Get("/allUsers", h.AllUsers)
		r.Post("/allUsers", h.AllUsers)

		r.Get("/post/{postID}", h.ShowPost)
		r.Post("/post/{postID}", h.AddComment)

		r.With(h.RequireLogin).Get("/new-post", h.NewPostPage)
		r.With(h.RequireLogin).Post("/new-post", h.CreatePost)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAdmin)

			r.Get("/edit-post/{postID}", h.EditPostPage)
			r.Post("/edit-post/{postID}", h.UpdatePost)
			r.Get("/delete/{postID}", h.DeletePost)
			r.Post("/delete/{postID}", h.DeletePost)

			r.Get("/UserType", h.UserTypes)
			r.Post("/UserType", h.CreateUserType)
			r.Get("/updateUserType/{userID}", h.UpdateUserType)
			r.Post("/updateUserType/{userID}", h.UpdateUserType)
		})
	})
}

func (h *Handler) flash(w http.ResponseWriter, r *http.Request, kind session.FlashKind, message string) {
	if err := h.sessions.AddFlash(w, r, session.Flash{Kind: kind, Message: message}); err != nil {
		h.logger.Warn("set flash", zap.Error(err))
	}
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) notFound(w http.ResponseWriter, what string) {
	http.Error(w, what+" not found", http.StatusNotFound)
}

func (h *Handler) badRequest(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), http.StatusBadRequest)
}

// Health pings the database.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		http.Error(w, "database not configured", http.StatusServiceUnavailable)
		return
	}
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// ServeUpload streams a stored post image.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if h.uploads == nil || key == "" {
		h.notFound(w, "image")
		return
	}

	body, err := h.uploads.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			h.notFound(w, "image")
			return
		}
		h.serverError(w, r, err)
		return
	}
	defer body.Close()

	if contentType := contentTypeFor(key); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Cache-Control", storage.ImmutableCacheControl)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Debug("stream image", zap.String("key", key), zap.Error(err))
	}
}

func contentTypeFor(key string) string {
	return mime.TypeByExtension(path.Ext(key))
}
