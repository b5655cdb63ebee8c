package httpapi

import (
	"time"

	"github.com/dmitrijs2005/hrmsauth/internal/server/models"
)

type signupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type userResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"full_name"`
	CreatedAt *string `json:"created_at"`
}

type sessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

type authResponse struct {
	User    userResponse     `json:"user"`
	Session *sessionResponse `json:"session"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func toUserResponse(u models.RemoteUser) userResponse {
	r := userResponse{ID: u.ID, Email: u.Email, FullName: u.DisplayName}
	if !u.CreatedAt.IsZero() {
		s := u.CreatedAt.UTC().Format(time.RFC3339)
		r.CreatedAt = &s
	}
	return r
}

func toAuthResponse(res *models.AuthResult) authResponse {
	out := authResponse{User: toUserResponse(res.User)}
	if res.HasSession() {
		out.Session = &sessionResponse{
			AccessToken:  res.Session.AccessToken,
			RefreshToken: res.Session.RefreshToken,
			ExpiresAt:    res.Session.ExpiresAt,
		}
	}
	return out
}
