// Package share encodes settings into links and reads them back.
//
// The token is the standard base64 encoding of the settings JSON, carried in
// the "s" query parameter. Decoding is lenient about how the token survived
// the trip: URL-safe alphabet, stripped padding and '+' turned into spaces
// are all accepted.
package share

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/cristianadrielbraun/mintqr/internal/settings"
)

// Param is the query parameter holding the token.
const Param = "s"

// ErrMalformed is returned for tokens that do not decode into settings.
var ErrMalformed = errors.New("malformed share token")

// Encode returns the share token for s.
func Encode(s settings.Settings) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode settings: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Decode parses token and merges the result onto base.
func Decode(token string, base settings.Settings) (settings.Settings, error) {
	data, err := decodeBase64(token)
	if err != nil {
		return base, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return base, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if fields == nil {
		return base, fmt.Errorf("%w: not an object", ErrMalformed)
	}
	s, err := settings.FromJSON(data, base)
	if err != nil {
		return base, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return s, nil
}

func decodeBase64(token string) ([]byte, error) {
	t := strings.TrimSpace(token)
	if t == "" {
		return nil, errors.New("empty token")
	}
	t = strings.ReplaceAll(t, " ", "+")
	t = strings.NewReplacer("-", "+", "_", "/").Replace(t)
	t = strings.TrimRight(t, "=")
	return base64.RawStdEncoding.DecodeString(t)
}

// Link sets the token for s on base, keeping base's other query parameters.
func Link(base string, s settings.Settings) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	token, err := Encode(s)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(Param, token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FromQuery decodes the token in values onto base. ok is false when there is
// no token or it is malformed.
func FromQuery(values url.Values, base settings.Settings) (settings.Settings, bool) {
	token := values.Get(Param)
	if token == "" {
		return base, false
	}
	s, err := Decode(token, base)
	if err != nil {
		return base, false
	}
	return s, true
}

// FromURL decodes the token in a full link onto base.
func FromURL(raw string, base settings.Settings) (settings.Settings, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return base, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	token := u.Query().Get(Param)
	if token == "" {
		return base, fmt.Errorf("%w: link has no %q parameter", ErrMalformed, Param)
	}
	return Decode(token, base)
}

// Stored loads previously persisted settings onto a base.
type Stored func(base settings.Settings) (settings.Settings, bool)

// Resolve picks the starting settings: a valid query token wins, then stored
// settings, then defaults.
func Resolve(query url.Values, stored Stored) settings.Settings {
	defaults := settings.Defaults()
	if s, ok := FromQuery(query, defaults); ok {
		return s
	}
	if stored != nil {
		if s, ok := stored(defaults); ok {
			return s
		}
	}
	return defaults
}
