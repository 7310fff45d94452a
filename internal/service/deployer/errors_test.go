package deployer

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestClassifyError pins the mapping from error kinds to exit outcomes.
func TestClassifyError(t *testing.T) {
	t.Parallel()

	cases := map[Outcome]error{
		OutcomeSuccess:        nil,
		OutcomeInvalidRequest: fmt.Errorf("%w: server must be provided", ErrInvalidRequest),
		OutcomeIOError:        fmt.Errorf("%w: remove local artifact", ErrLocalIO),
		OutcomeGeneral:        errors.New("remote step failed"),
	}
	for want, err := range cases {
		require.Equal(t, want, ClassifyError(err))
	}

	// Bare filesystem errors count as I/O problems.
	require.Equal(t, OutcomeIOError, ClassifyError(fmt.Errorf("stat: %w", fs.ErrNotExist)))

	// Exit codes are stable.
	require.Equal(t, 0, OutcomeSuccess.Code())
	require.Equal(t, 1, OutcomeIOError.Code())
	require.Equal(t, 2, OutcomeInvalidRequest.Code())
	require.Equal(t, 3, OutcomeGeneral.Code())
}
