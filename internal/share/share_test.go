package share

import (
	"encoding/base64"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianadrielbraun/mintqr/internal/settings"
)

func sample() settings.Settings {
	return settings.Settings{
		Text:        "héllo wörld ✓ https://example.com/?a=1&b=2",
		Size:        512,
		Margin:      0,
		ECLevel:     settings.ECHigh,
		ColorDark:   "#112233",
		ColorLight:  "#fafafa",
		LogoDataURL: "data:image/png;base64,iVBORw0KGgo=",
	}
}

func TestRoundTrip(t *testing.T) {
	s := sample()
	token, err := Encode(s)
	require.NoError(t, err)

	got, err := Decode(token, settings.Defaults())
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestLinkRoundTrip(t *testing.T) {
	s := sample()
	link, err := Link("http://localhost:8080/?theme=dark", s)
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "dark", u.Query().Get("theme"))

	got, err := FromURL(link, settings.Defaults())
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestDecodeIsLenient(t *testing.T) {
	s := sample()
	token, err := Encode(s)
	require.NoError(t, err)

	variants := []string{
		strings.ReplaceAll(token, "+", " "),
		strings.TrimRight(token, "="),
		base64.URLEncoding.EncodeToString(mustJSON(t, s)),
		"  " + token + "\n",
	}
	for _, v := range variants {
		got, err := Decode(v, settings.Defaults())
		require.NoError(t, err, v)
		assert.Equal(t, s, got)
	}
}

func TestDecodePartialKeepsBase(t *testing.T) {
	token := base64.StdEncoding.EncodeToString([]byte(`{"text":"only text","size":99999}`))
	got, err := Decode(token, settings.Defaults())
	require.NoError(t, err)
	assert.Equal(t, "only text", got.Text)
	assert.Equal(t, settings.MaxSize, got.Size)
	assert.Equal(t, settings.DefaultColorDark, got.ColorDark)
}

func TestDecodeMalformed(t *testing.T) {
	for _, token := range []string{
		"",
		"!!!",
		base64.StdEncoding.EncodeToString([]byte("[1,2]")),
		base64.StdEncoding.EncodeToString([]byte("nope")),
		base64.StdEncoding.EncodeToString([]byte("null")),
	} {
		got, err := Decode(token, settings.Defaults())
		assert.ErrorIs(t, err, ErrMalformed, token)
		assert.Equal(t, settings.Defaults(), got)
	}

	_, err := FromURL("http://localhost/", settings.Defaults())
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestResolvePrecedence(t *testing.T) {
	stored := func(base settings.Settings) (settings.Settings, bool) {
		base.Text = "from storage"
		return base, true
	}
	nothingStored := func(base settings.Settings) (settings.Settings, bool) { return base, false }

	token, err := Encode(sample())
	require.NoError(t, err)

	assert.Equal(t, sample(), Resolve(url.Values{Param: {token}}, stored))
	assert.Equal(t, "from storage", Resolve(url.Values{}, stored).Text)
	assert.Equal(t, "from storage", Resolve(url.Values{Param: {"%%%garbage"}}, stored).Text)
	assert.Equal(t, "from storage", Resolve(url.Values{Param: {base64.StdEncoding.EncodeToString([]byte("null"))}}, stored).Text)
	assert.Equal(t, settings.Defaults(), Resolve(nil, nothingStored))
	assert.Equal(t, settings.Defaults(), Resolve(nil, nil))
}
