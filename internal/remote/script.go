package remote

import (
	"fmt"
	"time"

	"github.com/charlev/mep/internal/archive"
)

// DateStampFormat renders a time as DD_MM_YY for the old-backend archive name.
// Two same-day deployments produce the same name; the later snapshot wins.
const DateStampFormat = "02_01_06"

// backendDir is the remote directory swapped out by the deployment.
const backendDir = "backend"

// Step is one remote shell instruction with a short name used in errors.
type Step struct {
	// Name identifies the step when reporting a mid-sequence failure.
	Name string
	// Command is the shell line streamed to the remote session.
	Command string
}

// Script is the fixed ordered instruction sequence of one deployment.
// It is fully determined before the session opens; no step depends on
// remote output.
type Script struct {
	steps []Step
}

// BuildScript derives the deployment sequence from the remote directory,
// the transferred artifact's filename and the current time:
// enter the directory, archive and remove the old backend, extract and
// install the new one, then optionally restart the web server.
func BuildScript(serverPath, artifactName string, restartServer bool, now time.Time) Script {
	archiveName := now.Format(DateStampFormat) + archive.Extension

	steps := []Step{
		{Name: "enter server path", Command: fmt.Sprintf("cd %s", serverPath)},
		{Name: "archive old backend", Command: fmt.Sprintf("tar -cjf %s %s/", archiveName, backendDir)},
		{Name: "store archive", Command: fmt.Sprintf("mv ./%s ./archive", archiveName)},
		{Name: "remove old backend", Command: fmt.Sprintf("rm -r ./%s", backendDir)},
		{Name: "extract artifact", Command: fmt.Sprintf("tar jxf ./%s", artifactName)},
		{Name: "remove artifact", Command: fmt.Sprintf("rm ./%s", artifactName)},
		{Name: "install new backend", Command: fmt.Sprintf("mv ./%s %s", archive.EntryName, backendDir)},
	}

	if restartServer {
		steps = append(steps, Step{Name: "restart web server", Command: "systemctl restart httpd"})
	}

	return Script{steps: steps}
}

// Steps returns the ordered instruction sequence.
func (s Script) Steps() []Step {
	return s.steps
}

// Lines returns the shell lines in execution order.
func (s Script) Lines() []string {
	lines := make([]string, 0, len(s.steps))
	for _, step := range s.steps {
		lines = append(lines, step.Command)
	}

	return lines
}
