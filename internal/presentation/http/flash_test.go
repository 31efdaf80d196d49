package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transcriptome/app/internal/presentation/http/templates"
)

func TestFlashCodecRoundTrip(t *testing.T) {
	codec := newFlashCodec("secret")
	message := templates.FlashMessage{Level: "warning", Text: "No file selected."}

	value, err := codec.encode(message)
	require.NoError(t, err)

	decoded, ok := codec.decode(value)
	require.True(t, ok)
	assert.Equal(t, message, decoded)
}

func TestFlashCodecRejectsForgedValues(t *testing.T) {
	codec := newFlashCodec("secret")

	value, err := codec.encode(templates.FlashMessage{Level: "success", Text: "ok"})
	require.NoError(t, err)

	forged, err := newFlashCodec("other-secret").encode(templates.FlashMessage{Level: "success", Text: "ok"})
	require.NoError(t, err)

	flipped := []byte(value)
	mid := len(flipped) / 2
	if flipped[mid] == 'A' {
		flipped[mid] = 'B'
	} else {
		flipped[mid] = 'A'
	}

	for name, candidate := range map[string]string{
		"empty":       "",
		"not encoded": "hello",
		"truncated":   value[:len(value)-6],
		"flipped":     string(flipped),
		"other key":   forged,
	} {
		_, ok := codec.decode(candidate)
		assert.False(t, ok, name)
	}
}

func TestFlashCodecRejectsEmptyMessage(t *testing.T) {
	codec := newFlashCodec("secret")

	value, err := codec.encode(templates.FlashMessage{Level: "success"})
	require.NoError(t, err)

	_, ok := codec.decode(value)
	assert.False(t, ok)
}

func TestFlashSetCookieIsParseable(t *testing.T) {
	header, err := newFlashCodec("secret").setCookie(templates.FlashMessage{Level: "danger", Text: "Invalid admin token. Access denied."})
	require.NoError(t, err)

	resp := http.Response{Header: http.Header{"Set-Cookie": {header}}}
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, flashCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, int(flashMaxAge.Seconds()), cookies[0].MaxAge)

	cleared := http.Response{Header: http.Header{"Set-Cookie": {clearFlashCookie()}}}
	require.Len(t, cleared.Cookies(), 1)
	assert.Negative(t, cleared.Cookies()[0].MaxAge)
}
