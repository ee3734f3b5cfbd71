package utils

import (
	rndm "math/rand"
	"net/http"
	"strings"

	"secondbrain/globals"
	"secondbrain/middleware"
)

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789_ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// GenerateRandomString creates a random alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

func GetUserIDFromRequest(r *http.Request) string {
	requestingUserID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

func GetUsernameFromRequest(r *http.Request) string {
	tokenString := r.Header.Get("Authorization")
	claims, err := middleware.ValidateJWT(tokenString)
	if err != nil {
		return ""
	}
	return claims.Username
}

// CleanTags trims and dedupes tag titles, keeping input order. Case is
// preserved: titles resolve by exact match, so "AI" and "ai" are distinct.
func CleanTags(titles []string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, t := range titles {
		tag := strings.TrimSpace(t)
		if tag == "" {
			continue
		}
		if !seen[tag] {
			tags = append(tags, tag)
			seen[tag] = true
		}
	}
	return tags
}
