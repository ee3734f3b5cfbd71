package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"secondbrain/globals"
	"secondbrain/middleware"
	"secondbrain/models"
	"secondbrain/rdx"
	"secondbrain/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	Users UserStore
}

func NewHandler(users UserStore) *Handler {
	return &Handler{Users: users}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.RespondWithError(w, http.StatusLengthRequired, "Invalid data")
		return
	}

	if reason := ValidateSignup(creds.Username, creds.Password); reason != "" {
		utils.RespondWithError(w, http.StatusLengthRequired, reason)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash password for user %s: %v", creds.Username, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
		return
	}

	user := newUser(creds.Username, string(hashedPassword))
	err = h.Users.Insert(r.Context(), user)
	if errors.Is(err, ErrDuplicateUser) {
		utils.RespondWithError(w, http.StatusBadRequest, "User already exists")
		return
	}
	if err != nil {
		log.Printf("Failed to register user %s: %v", creds.Username, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
		return
	}

	// Best-effort username cache; Mongo stays the source of truth.
	if err := rdx.RdxSet(fmt.Sprintf("users:%s", user.UserID), user.Username); err != nil {
		log.Printf("Failed to cache username: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"msg":     "Signed up successfully",
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid data")
		return
	}

	storedUser, err := h.Users.FindByUsername(r.Context(), creds.Username)
	if errors.Is(err, ErrUserNotFound) {
		utils.RespondWithError(w, http.StatusForbidden, "Invalid credentials")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedUser.Password), []byte(creds.Password)); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Invalid credentials")
		return
	}

	tokenString, err := IssueToken(storedUser.UserID, storedUser.Username)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"token":   tokenString,
	})
}

// IssueToken signs an HS256 token carrying the user's id and username.
// Tokens carry no expiry; signature verification is the entire check.
func IssueToken(userID, username string) (string, error) {
	claims := &middleware.Claims{
		Username: username,
		UserID:   userID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

func newUser(username, hashedPassword string) models.User {
	return models.User{
		UserID:    "u" + utils.GenerateRandomString(10),
		Username:  username,
		Password:  hashedPassword,
		CreatedAt: time.Now(),
	}
}
