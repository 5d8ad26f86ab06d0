package services

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
)

const (
	gravatarBaseURL = "https://www.gravatar.com/avatar/"
	avatarSize      = 100
)

// AvatarURL returns the Gravatar image URL for email, falling back to the
// generated "retro" image.
func AvatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	q := url.Values{}
	q.Set("s", strconv.Itoa(avatarSize))
	q.Set("d", "retro")
	q.Set("r", "g")
	return gravatarBaseURL + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}
