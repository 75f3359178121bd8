package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "garage_session"

var ErrBadCookie = errors.New("invalid session cookie")

// Codec signs the session ID into the browser cookie with HMAC-SHA256. Only
// the ID travels to the client; all session state stays in the Store, so
// a forged cookie without the secret never resolves to a session.
type Codec struct {
	secret []byte
	secure bool
}

func NewCodec(secret string, secure bool) *Codec {
	return &Codec{secret: []byte(secret), secure: secure}
}

func (c *Codec) Encode(sessionID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  sessionID,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

func (c *Codec) Decode(value string) (string, error) {
	token, err := jwt.ParseWithClaims(value, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadCookie
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrBadCookie
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrBadCookie
	}
	return claims.Subject, nil
}

// ReadSessionID extracts and verifies the session ID from the request cookie.
func (c *Codec) ReadSessionID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", ErrBadCookie
	}
	return c.Decode(cookie.Value)
}

// WriteSessionID sets the signed session cookie on the response.
func (c *Codec) WriteSessionID(w http.ResponseWriter, sessionID string) error {
	value, err := c.Encode(sessionID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearSession expires the session cookie on the response.
func (c *Codec) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
