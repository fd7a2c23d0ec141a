package share

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cristianadrielbraun/mintqr/internal/settings"
)

func mustJSON(t *testing.T, s settings.Settings) []byte {
	t.Helper()
	data, err := json.Marshal(s)
	require.NoError(t, err)
	return data
}
