package handlers

import (
	"errors"
	"net/http"

	"github.com/quill-blog/server/internal/forms"
	"github.com/quill-blog/server/internal/services"
	"github.com/quill-blog/server/internal/session"
	"github.com/quill-blog/server/types"
)

type registerPage struct {
	Form forms.RegisterForm
}

type loginPage struct {
	Form forms.LoginForm
}

func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register.html", "Register", registerPage{})
}

// Register creates the account, logs it in and greets the new user.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	form, err := forms.BindRegister(r)
	if err != nil {
		h.badRequest(w, err)
		return
	}
	if !form.Validate() {
		form.Password = ""
		h.render(w, r, http.StatusUnprocessableEntity, "register.html", "Register", registerPage{Form: form})
		return
	}

	user, err := h.accounts.Register(r.Context(), form.Email, form.Password, form.Name)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			h.flash(w, r, session.FlashError, msgAlreadyExists)
			redirect(w, r, "/login")
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.startSession(w, r, user)
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login.html", "Log In", loginPage{})
}

// Login checks the credentials. A failure re-renders the form without
// touching the session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	form, err := forms.BindLogin(r)
	if err != nil {
		h.badRequest(w, err)
		return
	}
	if !form.Validate() {
		form.Password = ""
		h.render(w, r, http.StatusUnprocessableEntity, "login.html", "Log In", loginPage{Form: form})
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			form.Password = ""
			h.render(w, r, http.StatusOK, "login.html", "Log In", loginPage{Form: form},
				session.Flash{Kind: session.FlashError, Message: msgWrongCredential})
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.startSession(w, r, user)
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, user types.User) {
	if err := h.sessions.Login(w, user.ID); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.flash(w, r, session.FlashInfo, "Hallo "+user.Name+". You are successfully logged in.")
	redirect(w, r, "/")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(w)
	redirect(w, r, "/")
}
