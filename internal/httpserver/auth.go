// internal/httpserver/auth.go
//
// Accounts and profile resolution.
// Responsibilities:
//   - /auth/signup, /auth/login, /auth/logout, /auth/me.
//   - HS256 JWTs in an HttpOnly cookie (or Authorization: Bearer).
//   - Signed anonymous cookies so guests keep progress between visits.
//   - On signup/login, guest progress and round history move to the account
//     when the account has none of its own.

package httpserver

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/wordplay/internal/progress"
)

var errUsernameTaken = errors.New("username taken")

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authUser is placed into request context by auth middleware.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ctxUserKey is the context key type for storing authUser.
type ctxUserKey struct{}

func userFrom(ctx context.Context) *authUser {
	u, _ := ctx.Value(ctxUserKey{}).(*authUser)
	return u
}

func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)
	s.r.With(s.requireAuth()).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, userFrom(r.Context()))
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.createUser(r.Context(), body.Username, body.Password)
	switch {
	case errors.Is(err, errUsernameTaken):
		writeError(w, http.StatusConflict, "Username taken")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.issueToken(w, u) {
		return
	}
	s.claimGuest(r, u.ID)
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username, "createdAt": u.CreatedAt})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.findUser(r.Context(), `lower(username)=lower(?)`, strings.TrimSpace(body.Username))
	if err != nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(body.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if !s.issueToken(w, u) {
		return
	}
	s.claimGuest(r, u.ID)
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	setCookie(w, getEnv("COOKIE_NAME", "wordplay_token"), "", time.Time{}, -1)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) issueToken(w http.ResponseWriter, u *userRow) bool {
	tok, exp, err := signJWT(u.ID, u.Username)
	if err != nil {
		log.Error().Err(err).Msg("sign jwt")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return false
	}
	setCookie(w, getEnv("COOKIE_NAME", "wordplay_token"), tok, exp, 0)
	return true
}

// ------------------------------ profiles -----------------------------------

const (
	anonCookieName = "wordplay_anon"
	guestPrefix    = "anon-"
	guestAudience  = "guest"
)

// profileID is the signed-in user id, else the guest id carried by the
// signed anonymous cookie. A missing or forged cookie gets a fresh guest.
func (s *Server) profileID(w http.ResponseWriter, r *http.Request) string {
	if me := userFrom(r.Context()); me != nil {
		return me.ID
	}
	if id, ok := guestID(r); ok {
		return id
	}
	id := guestPrefix + uuid.NewString()
	tok, err := signGuest(id)
	if err != nil {
		log.Error().Err(err).Msg("sign guest cookie")
		return id
	}
	setCookie(w, anonCookieName, tok, time.Now().Add(180*24*time.Hour), 0)
	return id
}

// signGuest wraps a guest id in an HS256 token so clients cannot pick one.
func signGuest(id string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:  id,
		Audience: jwt.ClaimStrings{guestAudience},
		IssuedAt: jwt.NewNumericDate(time.Now()),
	})
	return t.SignedString(jwtSecret())
}

// guestID returns the guest id of a valid anonymous cookie.
func guestID(r *http.Request) (string, bool) {
	c, err := r.Cookie(anonCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(c.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithAudience(guestAudience))
	if err != nil || !t.Valid || !strings.HasPrefix(claims.Subject, guestPrefix) {
		return "", false
	}
	return claims.Subject, true
}

// claimGuest moves the guest's progress and round history onto userID when
// the account has no progress yet.
func (s *Server) claimGuest(r *http.Request, userID string) {
	anonID, ok := guestID(r)
	if !ok {
		return
	}
	ctx := r.Context()
	guest, err := s.progress.Load(ctx, anonID)
	if err != nil {
		log.Warn().Err(err).Msg("load guest progress")
		return
	}
	err = s.progress.Update(ctx, userID, func(p *progress.Progress) error {
		if p.TotalDiscovered() > 0 || len(p.GameStats) > 0 {
			return errAccountHasProgress
		}
		*p = guest
		return nil
	})
	switch {
	case errors.Is(err, errAccountHasProgress):
		return
	case err != nil:
		log.Warn().Err(err).Str("user", userID).Msg("claim guest progress")
		return
	}
	if err := s.progress.Delete(ctx, anonID); err != nil {
		log.Warn().Err(err).Msg("drop guest progress")
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE rounds SET profile_id=? WHERE profile_id=?`, userID, anonID); err != nil {
		log.Warn().Err(err).Msg("claim guest rounds")
	}
}

var errAccountHasProgress = errors.New("account already has progress")

// ------------------------------- users -------------------------------------

type userRow struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

func (s *Server) createUser(ctx context.Context, username, pw string) (*userRow, error) {
	username = strings.TrimSpace(username)
	if err := validateSignup(username, pw); err != nil {
		return nil, err
	}
	if _, err := s.findUser(ctx, `lower(username)=lower(?)`, username); err == nil {
		return nil, errUsernameTaken
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &userRow{ID: uuid.NewString(), Username: username, PasswordHash: string(h), CreatedAt: time.Now().UTC().Truncate(time.Second)}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.Format(time.RFC3339)); err != nil {
		return nil, err
	}
	return u, nil
}

// findUser loads one user matching where (a single-argument condition).
func (s *Server) findUser(ctx context.Context, where string, arg any) (*userRow, error) {
	var (
		u       userRow
		created string
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at FROM users WHERE `+where, arg).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &created)
	if err != nil {
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3–24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return errors.New("password must be 8–100 chars")
	}
	return nil
}

// ------------------------------ JWT & cookies ------------------------------

func jwtSecret() []byte { return []byte(getEnv("JWT_SECRET", "dev_secret_change_me")) }

// signJWT creates an HS256 token with id/username; expiry from JWT_EXPIRES_DAYS (default 14).
func signJWT(id, username string) (string, time.Time, error) {
	days := 14
	if n, err := strconv.Atoi(getEnv("JWT_EXPIRES_DAYS", "")); err == nil && n > 0 {
		days = n
	}
	now := time.Now()
	exp := now.Add(time.Duration(days) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString(jwtSecret())
	return ss, exp, err
}

// parseJWT returns the user named by a valid token.
func parseJWT(tok string) (*authUser, bool) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return nil, false
	}
	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if id == "" || username == "" {
		return nil, false
	}
	return &authUser{ID: id, Username: username}, true
}

// setCookie writes an HttpOnly cookie. maxAge < 0 deletes it.
func setCookie(w http.ResponseWriter, name, value string, exp time.Time, maxAge int) {
	secure := getEnv("NODE_ENV", "") == "production"
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
		MaxAge:   maxAge,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(getEnv("COOKIE_NAME", "wordplay_token")); err == nil {
		return c.Value
	}
	return ""
}

// ---------------------------- auth middleware ------------------------------

// authenticate resolves the request's user, checking it still exists.
func (s *Server) authenticate(r *http.Request) (*authUser, bool) {
	tok := bearerOrCookie(r)
	if tok == "" {
		return nil, false
	}
	u, ok := parseJWT(tok)
	if !ok {
		return nil, false
	}
	if _, err := s.findUser(r.Context(), `id=?`, u.ID); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Warn().Err(err).Msg("auth user lookup")
		}
		return nil, false
	}
	return u, true
}

// withOptionalAuth decorates requests with the user when a valid JWT is
// present. It never 401s; guests fall back to the anonymous cookie.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u, ok := s.authenticate(r); ok {
				r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuth enforces a valid JWT.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := s.authenticate(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u)))
		})
	}
}
