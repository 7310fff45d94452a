package remote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestBuildScriptWithRestart pins the full 8-step sequence and its order.
func TestBuildScriptWithRestart(t *testing.T) {
	t.Parallel()

	now := time.Date(2014, time.April, 19, 15, 4, 5, 0, time.UTC)

	script := BuildScript("/srv/www", "compressed_file.tar.bz2", true, now)
	require.Equal(t, []string{
		"cd /srv/www",
		"tar -cjf 19_04_14.tar.bz2 backend/",
		"mv ./19_04_14.tar.bz2 ./archive",
		"rm -r ./backend",
		"tar jxf ./compressed_file.tar.bz2",
		"rm ./compressed_file.tar.bz2",
		"mv ./compressed_file backend",
		"systemctl restart httpd",
	}, script.Lines())
}

// TestBuildScriptWithoutRestart ensures the restart step is omitted and
// the sequence ends with the backend rename.
func TestBuildScriptWithoutRestart(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)

	script := BuildScript("/srv/www", "compressed_file.tar.bz2", false, now)
	lines := script.Lines()
	require.Len(t, lines, 7)
	require.Equal(t, "mv ./compressed_file backend", lines[6])

	for _, line := range lines {
		require.NotContains(t, line, "systemctl")
	}
}

// TestBuildScriptDateStamp ensures the archive name embeds the run's
// date formatted DD_MM_YY.
func TestBuildScriptDateStamp(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)

	script := BuildScript("/srv/www", "compressed_file.tar.bz2", false, now)
	require.Equal(t, "tar -cjf 29_08_26.tar.bz2 backend/", script.Lines()[1])
	require.Equal(t, "29_08_26", now.Format(DateStampFormat))
}

// TestScriptSteps ensures step names line up with their commands.
func TestScriptSteps(t *testing.T) {
	t.Parallel()

	script := BuildScript("/srv/www", "compressed_file.tar.bz2", true, time.Now())
	steps := script.Steps()
	require.Len(t, steps, 8)
	require.Equal(t, "archive old backend", steps[1].Name)
	require.Equal(t, "restart web server", steps[7].Name)

	for i, line := range script.Lines() {
		require.Equal(t, steps[i].Command, line)
	}
}
