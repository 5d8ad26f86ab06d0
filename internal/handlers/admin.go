package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/quill-blog/server/internal/forms"
	"github.com/quill-blog/server/internal/services"
	"github.com/quill-blog/server/internal/session"
	"github.com/quill-blog/server/internal/store"
	"github.com/quill-blog/server/types"
)

type userTypesPage struct {
	Roles []types.Role
	Form  forms.RoleForm
}

type allUsersPage struct {
	Users []types.UserWithRole
	Roles []types.Role
}

// UserTypes lists the user types next to the creation form.
func (h *Handler) UserTypes(w http.ResponseWriter, r *http.Request) {
	h.renderUserTypes(w, r, http.StatusOK, forms.RoleForm{})
}

// CreateUserType adds a user type unless the exact name exists.
func (h *Handler) CreateUserType(w http.ResponseWriter, r *http.Request) {
	form, err := forms.BindRole(r)
	if err != nil {
		h.badRequest(w, err)
		return
	}
	if !form.Validate() {
		h.renderUserTypes(w, r, http.StatusUnprocessableEntity, form)
		return
	}

	p, _ := principalFromContext(r.Context())
	if _, err := h.roles.Create(r.Context(), p.User, form.Name, form.Description); err != nil {
		if errors.Is(err, services.ErrRoleExists) {
			h.flash(w, r, session.FlashError, msgRoleExists)
			redirect(w, r, "/UserType")
			return
		}
		h.serverError(w, r, err)
		return
	}
	h.flash(w, r, session.FlashInfo, msgRoleCreated)
	redirect(w, r, "/UserType")
}

func (h *Handler) renderUserTypes(w http.ResponseWriter, r *http.Request, status int, form forms.RoleForm) {
	roles, err := h.roles.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, status, "user_type.html", "User Types", userTypesPage{Roles: roles, Form: form})
}

// AllUsers lists every user with the user type selected for them. The
// change controls are shown to admins only.
func (h *Handler) AllUsers(w http.ResponseWriter, r *http.Request) {
	listing, err := h.roles.ListUsersWithRoles(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "all_users.html", "All Users", allUsersPage{
		Users: listing.Users,
		Roles: listing.Roles,
	})
}

// UpdateUserType assigns the user type named by the userType query
// parameter. The form body is only consulted when the query has none.
func (h *Handler) UpdateUserType(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		h.badRequest(w, err)
		return
	}
	roleID, err := strconv.Atoi(strings.TrimSpace(userTypeParam(r)))
	if err != nil || roleID < 1 {
		http.Error(w, "invalid userType", http.StatusBadRequest)
		return
	}

	p, _ := principalFromContext(r.Context())
	user, err := h.roles.Assign(r.Context(), p.User, userID, roleID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			h.notFound(w, "user")
		case errors.Is(err, services.ErrRoleNotFound):
			http.Error(w, "unknown userType", http.StatusBadRequest)
		default:
			h.serverError(w, r, err)
		}
		return
	}

	h.flash(w, r, session.FlashInfo, "You have changed the User type of the user "+user.Name)
	redirect(w, r, "/allUsers")
}

func userTypeParam(r *http.Request) string {
	if value := r.URL.Query().Get("userType"); value != "" {
		return value
	}
	return r.PostFormValue("userType")
}
