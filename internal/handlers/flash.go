package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	flashCookieName = "skylane_flash"
	flashIssuer     = "skylane"
	flashTTL        = 5 * time.Minute
)

// Flash categories
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
)

// Flash is a one-shot message shown on the next page render
type Flash struct {
	Category string
	Message  string
}

// flashClaims is the signed cookie payload
type flashClaims struct {
	Category string `json:"c"`
	Message  string `json:"m"`
	jwt.RegisteredClaims
}

// FlashStore keeps flashes in an HS256-signed cookie that expires after flashTTL
type FlashStore struct {
	key    []byte
	secure bool
	now    func() time.Time
}

// NewFlashStore creates a store signing with secret. secure marks the
// cookie Secure (production behind TLS).
func NewFlashStore(secret string, secure bool) *FlashStore {
	return &FlashStore{key: []byte(secret), secure: secure, now: time.Now}
}

// Set stores f for the next request
func (s *FlashStore) Set(w http.ResponseWriter, f Flash) {
	now := s.now()
	claims := flashClaims{
		Category: f.Category,
		Message:  f.Message,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    flashIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(flashTTL / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending flash and clears the cookie. Tampered, expired
// or malformed cookies are discarded.
func (s *FlashStore) Pop(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})

	claims, err := s.parse(cookie.Value)
	if err != nil || claims.Message == "" {
		return nil
	}
	return &Flash{Category: claims.Category, Message: claims.Message}
}

func (s *FlashStore) parse(value string) (*flashClaims, error) {
	claims := &flashClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(flashIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("flash parse: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("flash invalid")
	}
	return claims, nil
}
