package remote

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/charlev/mep/internal/logger"
)

// statusToken prefixes the exit-status probe echoed after every step.
// Lines carrying it are consumed by the driver; everything else the
// remote commands print is passed through to the debug log.
const statusToken = "__mep_status__"

var (
	// errSessionOutputClosed is returned when the remote shell stops
	// producing output before the current step's status was reported.
	errSessionOutputClosed = errors.New("session output closed before step completed")
)

// StepError reports a remote instruction that terminated with a
// non-zero status. Every step after it was withheld, so the host may be
// anywhere between the old backend half-archived and the new one not
// yet installed.
type StepError struct {
	// Step is the name of the failed instruction.
	Step string
	// Command is the shell line that failed.
	Command string
	// Status is the remote exit status.
	Status int
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("remote step %q (%s) exited with status %d", e.Step, e.Command, e.Status)
}

// shellSession abstracts the parts of an SSH session the driver uses,
// so the streaming protocol is testable without a network.
// *ssh.Session satisfies it.
type shellSession interface {
	StdinPipe() (io.WriteCloser, error)
	StdoutPipe() (io.Reader, error)
	Shell() error
	Wait() error
	Close() error
}

// Stream executes the script inside one interactive shell session.
//
// A single session is required: the `cd` of the first step must still
// be in effect for every later step, which per-command invocations
// would not guarantee. Each instruction is written on its own line,
// followed by a probe echoing its exit status; the driver reads the
// status back and aborts before sending the next step when it is
// non-zero. Stdin is closed (flushing all buffered input) and the
// shell's own exit status collected before the session is torn down.
func (c *Client) Stream(ctx context.Context, script Script) error {
	// No mid-sequence cancellation: once streaming starts, an interrupt
	// could leave the host in an indeterminate intermediate state.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("refusing to open remote session: %w", err)
	}

	session, err := c.conn.NewSession()
	if err != nil {
		return fmt.Errorf("open remote session: %w", err)
	}

	return streamScript(ctx, session, script)
}

// streamScript drives the step sequence over an open shell session.
// The session is closed on every path.
func streamScript(ctx context.Context, session shellSession, script Script) error {
	defer func() {
		_ = session.Close()
	}()

	stdin, err := session.StdinPipe()
	if err != nil {
		return fmt.Errorf("attach session stdin: %w", err)
	}

	stdout, err := session.StdoutPipe()
	if err != nil {
		return fmt.Errorf("attach session stdout: %w", err)
	}

	if err = session.Shell(); err != nil {
		return fmt.Errorf("start remote shell: %w", err)
	}

	statuses := bufio.NewScanner(stdout)

	for _, step := range script.Steps() {
		logger.InfoKV(ctx, "Running remote step", "step", step.Name)

		if _, err = fmt.Fprintf(stdin, "%s\necho %s $?\n", step.Command, statusToken); err != nil {
			return fmt.Errorf("send remote step %q: %w", step.Name, err)
		}

		status, err := awaitStatus(ctx, statuses)
		if err != nil {
			return fmt.Errorf("read status of remote step %q: %w", step.Name, err)
		}

		if status != 0 {
			return &StepError{Step: step.Name, Command: step.Command, Status: status}
		}
	}

	// EOF on stdin flushes the stream and lets the shell exit.
	if err = stdin.Close(); err != nil {
		return fmt.Errorf("flush session input: %w", err)
	}

	if err = session.Wait(); err != nil {
		exitErr := &ssh.ExitError{}
		if errors.As(err, &exitErr) {
			return fmt.Errorf("remote shell exited with status %d", exitErr.ExitStatus())
		}

		return fmt.Errorf("close remote shell: %w", err)
	}

	return nil
}

// awaitStatus reads session output until the current step's status
// probe appears, forwarding ordinary command output to the debug log.
func awaitStatus(ctx context.Context, scanner *bufio.Scanner) (int, error) {
	for scanner.Scan() {
		line := scanner.Text()

		rest, ok := strings.CutPrefix(line, statusToken)
		if !ok {
			logger.Debugf(ctx, "remote: %s", line)
			continue
		}

		status, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil {
			return 0, fmt.Errorf("malformed status line %q: %w", line, err)
		}

		return status, nil
	}

	if err := scanner.Err(); err != nil {
		return 0, err
	}

	return 0, errSessionOutputClosed
}
