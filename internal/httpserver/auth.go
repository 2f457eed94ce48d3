// apps/go-server/internal/httpserver/auth.go
//
// Accounts, JWT cookies and the request-scoped session accessor.
// Responsibilities:
//   - POST /auth/signup, /auth/login, /auth/logout; GET /auth/me.
//   - Sign HS256 tokens carrying the numeric user id and role.
//   - requireAuth / requireRole middleware placing the caller in context.
//   - CurrentCandidateID for live sessions: the authenticated caller, if a
//     candidate.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/softskill/apps/go-server/internal/play"
	"github.com/robalobadob/softskill/apps/go-server/internal/records"
)

// Request payloads for signup/login.
type signupReq struct {
	Email     string       `json:"email"`
	FirstName string       `json:"firstName"`
	LastName  string       `json:"lastName"`
	Password  string       `json:"password"`
	Role      records.Role `json:"role"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authRes is returned by signup and login. The token is also set as a cookie.
type authRes struct {
	User  records.User `json:"user"`
	Token string       `json:"token"`
}

// authUser is placed into request context by auth middleware.
type authUser struct {
	ID    int64        `json:"id"`
	Email string       `json:"email"`
	Role  records.Role `json:"role"`
}

// claims are the JWT payload.
type claims struct {
	ID   int64        `json:"id"`
	Role records.Role `json:"role"`
	jwt.RegisteredClaims
}

// ctxUserKey is the context key type for storing authUser.
type ctxUserKey struct{}

func userFrom(ctx context.Context) *authUser {
	u, _ := ctx.Value(ctxUserKey{}).(*authUser)
	return u
}

// accessor resolves the candidate a request acts for.
type accessor struct{}

var _ play.SessionAccessor = accessor{}

func (accessor) CurrentCandidateID(ctx context.Context) (int64, bool) {
	u := userFrom(ctx)
	if u == nil || u.Role != records.RoleCandidate {
		return 0, false
	}
	return u.ID, true
}

// mountAuth registers authentication routes.
func (s *Server) mountAuth(r chi.Router) {
	r.Post("/auth/signup", s.handleSignup)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/logout", s.handleLogout)
	r.With(s.requireAuth()).Get("/auth/me", s.handleMe)
}

// handleSignup creates a new user, signs a JWT and sets the auth cookie.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body signupReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if err := validateSignup(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "hash_failed")
		return
	}
	u, err := s.records.CreateUser(r.Context(), records.User{
		Email:        body.Email,
		FirstName:    body.FirstName,
		LastName:     body.LastName,
		Role:         body.Role,
		PasswordHash: string(h),
	})
	if errors.Is(err, records.ErrEmailTaken) {
		writeError(w, http.StatusConflict, "Email taken")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("create user")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	s.issue(w, http.StatusCreated, u)
}

// handleLogin authenticates a user and sets the auth cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.records.UserByEmail(r.Context(), body.Email)
	if err != nil || !checkPassword(u.PasswordHash, body.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	s.issue(w, http.StatusOK, u)
}

func (s *Server) issue(w http.ResponseWriter, status int, u records.User) {
	tok, exp, err := s.signJWT(u)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setAuthCookie(w, tok, exp)
	writeJSON(w, status, authRes{User: u, Token: tok})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.setAuthCookie(w, "", time.Time{})
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	me := userFrom(r.Context())
	u, err := s.records.UserByID(r.Context(), me.ID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// checkPassword is a bcrypt verifier.
func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// validateSignup normalises the payload and enforces basic rules.
func validateSignup(b *signupReq) error {
	b.Email = strings.ToLower(strings.TrimSpace(b.Email))
	b.FirstName = strings.TrimSpace(b.FirstName)
	b.LastName = strings.TrimSpace(b.LastName)
	if _, err := mail.ParseAddress(b.Email); err != nil {
		return errors.New("invalid email")
	}
	if b.FirstName == "" || b.LastName == "" {
		return errors.New("first and last name required")
	}
	if b.Role != records.RoleRecruiter && b.Role != records.RoleCandidate {
		return errors.New("role must be RECRUITER or CANDIDATE")
	}
	if len(b.Password) < 8 || len(b.Password) > 72 {
		return errors.New("password must be 8-72 chars")
	}
	return nil
}

// ------------------------------ JWT & cookies ------------------------------

// signJWT creates an HS256 JWT with id/role and the configured expiry.
func (s *Server) signJWT(u records.User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(time.Duration(s.cfg.JWTExpiresDays) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		ID:   u.ID,
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

func (s *Server) parseJWT(tok string) (*claims, error) {
	var c claims
	t, err := jwt.ParseWithClaims(tok, &c, func(*jwt.Token) (any, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid || c.ID <= 0 {
		return nil, errors.New("invalid token")
	}
	return &c, nil
}

// setAuthCookie writes the auth token cookie; an empty token deletes it.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	secure := s.cfg.Production()
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	c := &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	}
	if token == "" {
		c.Expires = time.Time{}
		c.MaxAge = -1
	}
	http.SetCookie(w, c)
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// ---------------------------- auth middleware ------------------------------

// requireAuth enforces a valid JWT and injects authUser into request context.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := s.bearerOrCookie(r)
			if tokenStr == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			c, err := s.parseJWT(tokenStr)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			// Ensure user still exists; the stored role wins over the claim.
			u, err := s.records.UserByID(r.Context(), c.ID)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), ctxUserKey{}, &authUser{ID: u.ID, Email: u.Email, Role: u.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireRole allows only callers with the given role. Use after requireAuth.
func requireRole(role records.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if me := userFrom(r.Context()); me == nil || me.Role != role {
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
