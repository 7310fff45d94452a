package status

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFprintf ensures every kind renders the message text and terminates the line.
func TestFprintf(t *testing.T) {
	t.Parallel()

	for _, kind := range []Kind{Plain, Success, Failure} {
		var buf bytes.Buffer

		Fprintf(&buf, kind, "deploying %s", "backend")

		out := buf.String()
		require.Contains(t, out, "deploying backend")
		require.True(t, out[len(out)-1] == '\n')
	}
}
