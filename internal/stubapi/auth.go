package stubapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/feedbackhub/portal/internal/core/domain"
)

const (
	jwtContextKey  = "token"
	userContextKey = "current_user"

	msgBadCredentials = "Could not validate credentials"
)

// tokenClaims is the payload of an access token.
type tokenClaims struct {
	UserID int64       `json:"user_id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 access tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for u.
func (t *Tokens) Issue(u user) (string, error) {
	now := t.now()
	claims := tokenClaims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Authenticate validates the bearer token and loads the caller into the
// context. Any failure, including a token for a user that no longer
// exists, is a 401.
func Authenticate(tokens *Tokens, store *Store) []echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		SigningKey:    tokens.secret,
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		ContextKey:    jwtContextKey,
		NewClaimsFunc: func(echo.Context) jwt.Claims { return new(tokenClaims) },
		ErrorHandler: func(c echo.Context, err error) error {
			return detail(http.StatusUnauthorized, msgBadCredentials)
		},
	})

	load := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tkn, ok := c.Get(jwtContextKey).(*jwt.Token)
			if !ok {
				return detail(http.StatusUnauthorized, msgBadCredentials)
			}
			claims, ok := tkn.Claims.(*tokenClaims)
			if !ok || claims.UserID == 0 || claims.Role == "" {
				return detail(http.StatusUnauthorized, msgBadCredentials)
			}
			u, err := store.UserByID(claims.UserID)
			if err != nil {
				return detail(http.StatusUnauthorized, msgBadCredentials)
			}
			c.Set(userContextKey, u)
			return next(c)
		}
	}
	return []echo.MiddlewareFunc{verify, load}
}

// currentUser returns the caller stored by Authenticate.
func currentUser(c echo.Context) (user, error) {
	u, ok := c.Get(userContextKey).(user)
	if !ok {
		return user{}, detail(http.StatusUnauthorized, msgBadCredentials)
	}
	return u, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// idParam parses a positive path id.
func idParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, []validationIssue{{
			Loc:  []string{"path", name},
			Msg:  "value is not a valid integer",
			Type: "int_parsing",
		}})
	}
	return id, nil
}
