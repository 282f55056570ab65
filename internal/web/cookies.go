package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	sessionCookie = "LOGIN_INFO"
	flashCookie   = "FLASH"

	sessionMaxAge = 30 * 24 * time.Hour
	flashMaxAge   = 5 * time.Minute

	flashOutKey = "flash_out"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// CookieManager writes the session and flash cookies.
type CookieManager struct {
	Secure bool
}

func (m *CookieManager) cookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	}
}

// SetSession stores the API session token.
func (m *CookieManager) SetSession(c echo.Context, token string) {
	c.SetCookie(m.cookie(sessionCookie, token, sessionMaxAge))
}

// ClearSession deletes the session cookie.
func (m *CookieManager) ClearSession(c echo.Context) {
	ck := m.cookie(sessionCookie, "", 0)
	ck.MaxAge = -1
	c.SetCookie(ck)
}

// Session returns the stored token or "".
func (m *CookieManager) Session(c echo.Context) string {
	ck, err := c.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return ck.Value
}

// AddFlash queues a message for the next page.
func (m *CookieManager) AddFlash(c echo.Context, category, message string) {
	pending, _ := c.Get(flashOutKey).([]Flash)
	pending = append(pending, Flash{Category: category, Message: message})
	c.Set(flashOutKey, pending)

	payload, err := json.Marshal(pending)
	if err != nil {
		return
	}
	c.SetCookie(m.cookie(flashCookie, base64.RawURLEncoding.EncodeToString(payload), flashMaxAge))
}

// PopFlashes returns the queued messages and clears them.
func (m *CookieManager) PopFlashes(c echo.Context) []Flash {
	ck, err := c.Cookie(flashCookie)
	if err != nil || ck.Value == "" {
		return nil
	}
	expired := m.cookie(flashCookie, "", 0)
	expired.MaxAge = -1
	c.SetCookie(expired)

	payload, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(payload, &flashes); err != nil {
		return nil
	}
	return flashes
}
