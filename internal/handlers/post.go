package handlers

import (
	"errors"
	"net/http"

	"github.com/quill-blog/server/internal/forms"
	"github.com/quill-blog/server/internal/services"
	"github.com/quill-blog/server/internal/session"
	"github.com/quill-blog/server/internal/store"
	"github.com/quill-blog/server/types"
)

type indexPage struct {
	Posts []types.Post
}

type postPage struct {
	Post     types.Post
	Comments []types.Comment
	Form     forms.CommentForm
}

type editorPage struct {
	Heading        string
	Action         string
	Form           forms.PostForm
	UploadsEnabled bool
}

// Index lists every post.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "index.html", "Quill Blog", indexPage{Posts: posts})
}

// ShowPost renders a post with its comments.
func (h *Handler) ShowPost(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok {
		return
	}
	h.renderPost(w, r, http.StatusOK, post, forms.CommentForm{})
}

// AddComment stores a comment by the logged-in user. Anonymous readers are
// sent to the login page and nothing is stored.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok {
		return
	}

	p, loggedIn := principalFromContext(r.Context())
	if !loggedIn {
		h.flash(w, r, session.FlashLoginPrompt, msgLoginPrompt)
		redirect(w, r, "/login")
		return
	}

	form, err := forms.BindComment(r)
	if err != nil {
		h.badRequest(w, err)
		return
	}
	if !form.Validate() {
		h.renderPost(w, r, http.StatusUnprocessableEntity, post, form)
		return
	}

	if _, err := h.comments.Add(r.Context(), p.User, post.ID, form.Comment); err != nil {
		if errors.Is(err, services.ErrBlankContent) {
			form.Errors = forms.Errors{"comment": forms.MsgRequired}
			h.renderPost(w, r, http.StatusUnprocessableEntity, post, form)
			return
		}
		h.serverError(w, r, err)
		return
	}
	h.flash(w, r, session.FlashInfo, msgCommentAdded)
	redirect(w, r, postURL(post.ID))
}

func (h *Handler) renderPost(w http.ResponseWriter, r *http.Request, status int, post types.Post, form forms.CommentForm) {
	comments, err := h.comments.ListByPost(r.Context(), post.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, status, "post.html", post.Title, postPage{
		Post:     post,
		Comments: comments,
		Form:     form,
	})
}

func (h *Handler) NewPostPage(w http.ResponseWriter, r *http.Request) {
	h.renderEditor(w, r, http.StatusOK, "New Post", "/new-post", forms.PostForm{})
}

// CreatePost stores a post written by the logged-in user.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())

	form, ok := h.bindPost(w, r, "New Post", "/new-post")
	if !ok {
		return
	}

	_, err := h.posts.Create(r.Context(), p.User, postInput(form))
	if err != nil {
		h.postFailed(w, r, err, "New Post", "/new-post", form)
		return
	}
	redirect(w, r, "/")
}

func (h *Handler) EditPostPage(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok {
		return
	}
	form := forms.PostForm{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		ImageURL: post.ImageURL,
		Body:     post.Body,
	}
	h.renderEditor(w, r, http.StatusOK, "Edit Post", "/edit-post/"+itoa(post.ID), form)
}

// UpdatePost saves the edited fields; author and date stay unchanged.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "postID")
	if err != nil {
		h.badRequest(w, err)
		return
	}
	action := "/edit-post/" + itoa(id)

	form, ok := h.bindPost(w, r, "Edit Post", action)
	if !ok {
		return
	}

	p, _ := principalFromContext(r.Context())
	post, err := h.posts.Update(r.Context(), p.User, id, postInput(form))
	if err != nil {
		h.postFailed(w, r, err, "Edit Post", action, form)
		return
	}
	redirect(w, r, postURL(post.ID))
}

// DeletePost removes the post and its comments.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "postID")
	if err != nil {
		h.badRequest(w, err)
		return
	}

	p, _ := principalFromContext(r.Context())
	if err := h.posts.Delete(r.Context(), p.User, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.notFound(w, "post")
			return
		}
		h.serverError(w, r, err)
		return
	}
	redirect(w, r, "/")
}

func (h *Handler) loadPost(w http.ResponseWriter, r *http.Request) (types.Post, bool) {
	id, err := parseIDParam(r, "postID")
	if err != nil {
		h.badRequest(w, err)
		return types.Post{}, false
	}
	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.notFound(w, "post")
			return types.Post{}, false
		}
		h.serverError(w, r, err)
		return types.Post{}, false
	}
	return post, true
}

func (h *Handler) bindPost(w http.ResponseWriter, r *http.Request, heading, action string) (forms.PostForm, bool) {
	form, err := forms.BindPost(r)
	if err != nil {
		h.badRequest(w, err)
		return forms.PostForm{}, false
	}
	form.StoredImage = h.images.Owns
	if !form.Validate() {
		h.renderEditor(w, r, http.StatusUnprocessableEntity, heading, action, form)
		return forms.PostForm{}, false
	}
	return form, true
}

// postFailed maps business errors back onto the form.
func (h *Handler) postFailed(w http.ResponseWriter, r *http.Request, err error, heading, action string, form forms.PostForm) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.notFound(w, "post")
		return
	case errors.Is(err, services.ErrTitleTaken):
		form.Errors = forms.Errors{"title": msgTitleTaken}
	case errors.Is(err, services.ErrBlankContent):
		form.Errors = forms.Errors{"body": forms.MsgRequired}
	case errors.Is(err, services.ErrUploadsDisabled):
		form.Errors = forms.Errors{"img_file": msgUploadsDisabled}
	case errors.Is(err, services.ErrUnsupportedImage):
		form.Errors = forms.Errors{"img_file": msgUnsupportedFile}
	default:
		h.serverError(w, r, err)
		return
	}
	h.renderEditor(w, r, http.StatusUnprocessableEntity, heading, action, form)
}

func (h *Handler) renderEditor(w http.ResponseWriter, r *http.Request, status int, heading, action string, form forms.PostForm) {
	h.render(w, r, status, "make-post.html", heading, editorPage{
		Heading:        heading,
		Action:         action,
		Form:           form,
		UploadsEnabled: h.images.Enabled(),
	})
}

func postInput(form forms.PostForm) services.PostInput {
	input := services.PostInput{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Body:     form.Body,
		ImageURL: form.ImageURL,
	}
	if form.Image != nil {
		input.Image = &services.ImageFile{
			Filename: form.Image.Filename,
			Data:     form.Image.Data,
		}
	}
	return input
}
