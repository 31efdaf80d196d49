package http

import (
	stdhttp "net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/rotisserie/eris"

	"transcriptome/app/internal/presentation/http/templates"
)

const (
	flashCookieName = "flash"
	flashMaxAge     = 10 * time.Minute
)

// flashCodec signs one-shot flash messages carried across a redirect in a cookie. Values older
// than flashMaxAge are rejected.
type flashCodec struct {
	cookies *securecookie.SecureCookie
}

func newFlashCodec(secret string) flashCodec {
	cookies := securecookie.New([]byte(secret), nil).
		SetSerializer(securecookie.JSONEncoder{}).
		MaxAge(int(flashMaxAge / time.Second))
	return flashCodec{cookies: cookies}
}

type flashPayload struct {
	Level   string `json:"l"`
	Message string `json:"m"`
}

func (c flashCodec) encode(message templates.FlashMessage) (string, error) {
	value, err := c.cookies.Encode(flashCookieName, flashPayload{Level: message.Level, Message: message.Text})
	if err != nil {
		return "", eris.Wrap(err, "encoding flash message")
	}
	return value, nil
}

// decode returns the message carried by a cookie value. Malformed, expired or tampered values are
// rejected.
func (c flashCodec) decode(value string) (templates.FlashMessage, bool) {
	if value == "" {
		return templates.FlashMessage{}, false
	}

	var payload flashPayload
	if err := c.cookies.Decode(flashCookieName, value, &payload); err != nil || payload.Message == "" {
		return templates.FlashMessage{}, false
	}

	return templates.FlashMessage{Level: payload.Level, Text: payload.Message}, true
}

// setCookie returns the Set-Cookie header value that carries message to the next page.
func (c flashCodec) setCookie(message templates.FlashMessage) (string, error) {
	value, err := c.encode(message)
	if err != nil {
		return "", err
	}

	cookie := &stdhttp.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(flashMaxAge / time.Second),
		HttpOnly: true,
		SameSite: stdhttp.SameSiteLaxMode,
	}
	return cookie.String(), nil
}

func clearFlashCookie() string {
	cookie := &stdhttp.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: stdhttp.SameSiteLaxMode,
	}
	return cookie.String()
}
