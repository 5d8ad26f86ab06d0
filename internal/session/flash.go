package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// FlashKind selects how a flash message is presented.
type FlashKind string

const (
	FlashInfo  FlashKind = "info"
	FlashError FlashKind = "error"

	// FlashLoginPrompt asks the reader to log in or register. The page
	// template renders the register link; Message stays plain text.
	FlashLoginPrompt FlashKind = "login_prompt"
)

// Flash is a one-time notice shown on the next rendered page.
// Message is plain text and is escaped when rendered.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

type flashClaims struct {
	Flashes []Flash `json:"flashes"`
	jwt.RegisteredClaims
}

// AddFlash queues a flash for the next page. Flashes already pending on the
// request are kept.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, flash Flash) error {
	pending := m.peek(r)
	pending = append(pending, flash)

	now := time.Now()
	token, err := m.sign(flashClaims{
		Flashes: pending,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
		},
	})
	if err != nil {
		return err
	}
	m.setCookie(w, FlashCookie, token, flashTTL)
	return nil
}

// PopFlashes returns the pending flashes and clears the cookie.
func (m *Manager) PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	if _, err := r.Cookie(FlashCookie); err != nil {
		return nil
	}
	flashes := m.peek(r)
	m.clearCookie(w, FlashCookie)
	return flashes
}

func (m *Manager) peek(r *http.Request) []Flash {
	cookie, err := r.Cookie(FlashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	claims := flashClaims{}
	if err := m.parse(cookie.Value, &claims); err != nil {
		return nil
	}
	return claims.Flashes
}
