package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/quill-blog/server/types"
)

type contextKey string

const contextPrincipalKey contextKey = "principal"

// principal is the logged-in user of a request.
type principal struct {
	User    types.User
	IsAdmin bool
}

func withPrincipal(ctx context.Context, p principal) context.Context {
	return context.WithValue(ctx, contextPrincipalKey, p)
}

func principalFromContext(ctx context.Context) (principal, bool) {
	p, ok := ctx.Value(contextPrincipalKey).(principal)
	if !ok || p.User.ID < 1 {
		return principal{}, false
	}
	return p, true
}

func parseIDParam(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return 0, errors.New("missing id")
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusFound)
}

func postURL(id int) string {
	return "/post/" + itoa(id)
}

func itoa(id int) string {
	return strconv.Itoa(id)
}
