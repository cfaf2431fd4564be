package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"spendlog/internal/auth"
	"spendlog/internal/core"
)

const sessionCookieName = "session"

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// authed resolves the session cookie to a user and injects it into the
// request context; requests without a valid session get a 401.
func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		user, err := s.store.UserBySession(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, core.ErrNotFound) {
				logError(r, "Session lookup failed", err)
			}
			s.clearSessionCookie(w)
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next(w, r.WithContext(ctx))
	}
}

// currentUser returns the authenticated user placed in the context by
// authed.
func currentUser(r *http.Request) (core.User, bool) {
	user, ok := r.Context().Value(userKey).(core.User)
	return user, ok
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logError(r, "Password hashing failed", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// The unique index on users.username decides duplicates; no pre-check.
	user, err := s.store.CreateUser(r.Context(), username, hash)
	if err != nil {
		respondCoreError(w, r, err)
		return
	}

	if err := s.startSession(w, r, user.ID); err != nil {
		logError(r, "Session creation failed", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "created",
		"user":    userResponse{ID: user.ID, Username: user.Username},
	})
}

func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password required")
		return
	}

	user, err := s.store.UserByUsername(r.Context(), username)
	if err != nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			logError(r, "User lookup failed", err)
		}
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := s.startSession(w, r, user.ID); err != nil {
		logError(r, "Session creation failed", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "signed in",
		"user":    userResponse{ID: user.ID, Username: user.Username},
	})
}

func (s *Server) handleSignout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if err := s.store.DeleteSession(r.Context(), cookie.Value); err != nil {
			logError(r, "Session deletion failed", err)
		}
	}
	s.clearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

func (s *Server) handleAPIHealth(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{"status": "ok", "user": nil}
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if user, err := s.store.UserBySession(r.Context(), cookie.Value); err == nil {
			payload["user"] = user.Username
		}
	}
	respondJSON(w, http.StatusOK, payload)
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, userID int64) error {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return err
	}
	if err := s.store.CreateSession(r.Context(), token, userID, time.Now().Add(s.sessionTTL)); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	slog.InfoContext(r.Context(), "Session started", "user_id", userID)
	return nil
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
