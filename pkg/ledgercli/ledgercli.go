// Package ledgercli wraps read-only queries against the external ledger
// command-line tool. The tool is treated as an opaque oracle: every query
// runs it against one journal file and parses its line-oriented output.
package ledgercli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// Error wraps a failed invocation of the ledger binary, carrying its
// stderr for context.
type Error struct {
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("ledger command failed: %v: %s", e.Err, e.Stderr)
	}
	return fmt.Sprintf("ledger command failed: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Client issues queries for a single journal file.
type Client struct {
	binary  string
	path    string
	timeout time.Duration
}

// New creates a client for the given journal file path.
func New(binary, path string, timeout time.Duration) *Client {
	return &Client{
		binary:  binary,
		path:    path,
		timeout: timeout,
	}
}

// Accounts returns every account name appearing in the journal.
func (c *Client) Accounts(ctx context.Context) ([]string, error) {
	return c.run(ctx, "accounts")
}

// Payees returns every payee appearing in the journal.
func (c *Client) Payees(ctx context.Context) ([]string, error) {
	return c.run(ctx, "payees")
}

// Currencies returns every commodity appearing in the journal.
func (c *Client) Currencies(ctx context.Context) ([]string, error) {
	return c.run(ctx, "commodities")
}

// Print returns the oracle's normalized full-journal dump, line by line.
func (c *Client) Print(ctx context.Context) ([]string, error) {
	return c.run(ctx, "print")
}

// Csv exports the journal as tabular text for a downstream reporting
// step, optionally aggregated monthly and converted to one currency.
func (c *Client) Csv(ctx context.Context, monthly bool, currency string) (io.Reader, error) {
	args := []string{"csv"}
	if monthly {
		args = append(args, "--monthly")
	}
	if currency != "" {
		args = append(args, "-X", currency)
	}
	lines, err := c.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return strings.NewReader(strings.Join(lines, "\n")), nil
}

// run executes the binary with a bounded timeout. A non-zero exit (or a
// failure to start at all) maps to *Error; the oracle is never retried.
func (c *Client) run(ctx context.Context, args ...string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.binary, append([]string{"-f", c.path}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &Error{
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}

	output := strings.TrimSpace(stdout.String())
	if output == "" {
		return nil, nil
	}
	return strings.Split(output, "\n"), nil
}
