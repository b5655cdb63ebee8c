// Package idptest runs an in-memory GoTrue-style identity provider on an
// httptest.Server for tests of the idp client and everything built on it.
//
// Operation names passed to Calls and Handle match the idp client's:
// password_sign_in, password_sign_up, refresh_session, get_user, list_users,
// confirm_user_email.
package idptest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	DefaultAPIKey     = "anon-key"
	DefaultServiceKey = "service-key"

	defaultPerPage = 50
)

// User is an account held by the fake provider.
type User struct {
	ID          string
	Email       string
	Password    string
	FullName    string
	ConfirmedAt *time.Time
	CreatedAt   time.Time
}

// Server is the fake provider. Zero-config behaviour issues sessions on
// signup; set RequireConfirmation to emulate an active confirmation policy
// with no mail delivery.
type Server struct {
	*httptest.Server

	APIKey     string
	ServiceKey string

	mu                  sync.Mutex
	requireConfirmation bool
	users               map[string]*User
	order               []string
	refresh             map[string]string
	access              map[string]string
	calls               map[string]int
	overrides           map[string]http.HandlerFunc
	seq                 int
}

func NewServer() *Server {
	s := &Server{
		APIKey:     DefaultAPIKey,
		ServiceKey: DefaultServiceKey,
		users:      make(map[string]*User),
		refresh:    make(map[string]string),
		access:     make(map[string]string),
		calls:      make(map[string]int),
		overrides:  make(map[string]http.HandlerFunc),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/token", s.token)
	mux.HandleFunc("POST /auth/v1/signup", s.track("password_sign_up", s.signup))
	mux.HandleFunc("GET /auth/v1/user", s.track("get_user", s.getUser))
	mux.HandleFunc("GET /auth/v1/admin/users", s.track("list_users", s.listUsers))
	mux.HandleFunc("PUT /auth/v1/admin/users/{id}", s.track("confirm_user_email", s.confirmUser))

	s.Server = httptest.NewServer(mux)
	return s
}

// RequireConfirmation toggles the confirmation policy.
func (s *Server) RequireConfirmation(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requireConfirmation = on
}

// AddUser seeds an account.
func (s *Server) AddUser(email, password, fullName string, confirmed bool) *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(email, password, fullName, confirmed)
}

// User returns a copy of the account registered under email.
func (s *Server) User(email string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return User{}, false
	}
	return *u, true
}

// Calls returns how many requests reached op, overridden or not.
func (s *Server) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Handle replaces the built-in behaviour of op with h.
func (s *Server) Handle(op string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[op] = h
}

// IssueSession mints a session for an existing account, as a successful
// sign-in would.
func (s *Server) IssueSession(email string) (accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[email]
	body := s.sessionLocked(u)
	return body["access_token"].(string), body["refresh_token"].(string)
}

func (s *Server) track(op string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[op]++
		override := s.overrides[op]
		s.mu.Unlock()

		if override != nil {
			override(w, r)
			return
		}
		h(w, r)
	}
}

func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("grant_type") {
	case "password":
		s.track("password_sign_in", s.passwordGrant)(w, r)
	case "refresh_token":
		s.track("refresh_session", s.refreshGrant)(w, r)
	default:
		WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported_grant_type"})
	}
}

func (s *Server) passwordGrant(w http.ResponseWriter, r *http.Request) {
	if !s.publicKeyOK(w, r) {
		return
	}
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"msg": "invalid body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[body.Email]
	if !ok || u.Password != body.Password {
		WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error":             "invalid_grant",
			"error_description": "Invalid login credentials",
		})
		return
	}
	if s.requireConfirmation && u.ConfirmedAt == nil {
		WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error":             "invalid_grant",
			"error_description": "Email not confirmed",
		})
		return
	}
	WriteJSON(w, http.StatusOK, s.sessionLocked(u))
}

func (s *Server) refreshGrant(w http.ResponseWriter, r *http.Request) {
	if !s.publicKeyOK(w, r) {
		return
	}
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	defer s.mu.Unlock()

	email, ok := s.refresh[body.RefreshToken]
	if !ok {
		WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error":             "invalid_grant",
			"error_description": "Invalid Refresh Token: Refresh Token Not Found",
		})
		return
	}
	delete(s.refresh, body.RefreshToken)
	WriteJSON(w, http.StatusOK, s.sessionLocked(s.users[email]))
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	if !s.publicKeyOK(w, r) {
		return
	}
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Data     struct {
			FullName string `json:"full_name"`
		} `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"msg": "invalid body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[body.Email]; exists {
		WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"code":       422,
			"error_code": "user_already_exists",
			"msg":        "User already registered",
		})
		return
	}
	if len(body.Password) < 6 {
		WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"code": 422,
			"msg":  "Password should be at least 6 characters.",
		})
		return
	}

	u := s.addUserLocked(body.Email, body.Password, body.Data.FullName, !s.requireConfirmation)
	if s.requireConfirmation {
		WriteJSON(w, http.StatusOK, userJSON(u))
		return
	}
	WriteJSON(w, http.StatusOK, s.sessionLocked(u))
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	s.mu.Lock()
	defer s.mu.Unlock()

	email, ok := s.access[token]
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{"msg": "invalid JWT: unable to parse or verify signature"})
		return
	}
	WriteJSON(w, http.StatusOK, userJSON(s.users[email]))
}

// listUsers pages like GoTrue: page is 1-based and per_page defaults to 50.
func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	if !s.serviceKeyOK(w, r) {
		return
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(r.URL.Query().Get("per_page"))
	if err != nil || perPage < 1 {
		perPage = defaultPerPage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from := min((page-1)*perPage, len(s.order))
	to := min(from+perPage, len(s.order))

	users := make([]map[string]any, 0, to-from)
	for _, email := range s.order[from:to] {
		users = append(users, userJSON(s.users[email]))
	}
	WriteJSON(w, http.StatusOK, map[string]any{"users": users, "aud": "authenticated"})
}

func (s *Server) confirmUser(w http.ResponseWriter, r *http.Request) {
	if !s.serviceKeyOK(w, r) {
		return
	}
	var body struct {
		EmailConfirm bool `json:"email_confirm"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID != id {
			continue
		}
		if body.EmailConfirm && u.ConfirmedAt == nil {
			now := time.Now().UTC()
			u.ConfirmedAt = &now
		}
		WriteJSON(w, http.StatusOK, userJSON(u))
		return
	}
	WriteJSON(w, http.StatusNotFound, map[string]string{"msg": "User not found"})
}

func (s *Server) publicKeyOK(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("apikey") != s.APIKey {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid API key"})
		return false
	}
	return true
}

func (s *Server) serviceKeyOK(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("apikey") != s.ServiceKey || r.Header.Get("Authorization") != "Bearer "+s.ServiceKey {
		WriteJSON(w, http.StatusForbidden, map[string]string{"msg": "User not allowed"})
		return false
	}
	return true
}

func (s *Server) addUserLocked(email, password, fullName string, confirmed bool) *User {
	s.seq++
	now := time.Now().UTC()
	u := &User{
		ID:        fmt.Sprintf("00000000-0000-0000-0000-%012d", s.seq),
		Email:     email,
		Password:  password,
		FullName:  fullName,
		CreatedAt: now,
	}
	if confirmed {
		u.ConfirmedAt = &now
	}
	s.users[email] = u
	s.order = append(s.order, email)
	return u
}

func (s *Server) sessionLocked(u *User) map[string]any {
	s.seq++
	access := fmt.Sprintf("access-%s-%d", u.ID, s.seq)
	refresh := fmt.Sprintf("refresh-%s-%d", u.ID, s.seq)
	s.access[access] = u.Email
	s.refresh[refresh] = u.Email

	return map[string]any{
		"access_token":  access,
		"token_type":    "bearer",
		"expires_in":    3600,
		"expires_at":    time.Now().Add(time.Hour).Unix(),
		"refresh_token": refresh,
		"user":          userJSON(u),
	}
}

func userJSON(u *User) map[string]any {
	var confirmed any
	if u.ConfirmedAt != nil {
		confirmed = u.ConfirmedAt.Format(time.RFC3339Nano)
	}
	return map[string]any{
		"id":                 u.ID,
		"aud":                "authenticated",
		"role":               "authenticated",
		"email":              u.Email,
		"email_confirmed_at": confirmed,
		"created_at":         u.CreatedAt.Format(time.RFC3339Nano),
		"user_metadata":      map[string]any{"full_name": u.FullName},
	}
}

// WriteJSON writes v with the given status. Exported for Handle overrides.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
