// Package journal owns a user's append-only ledger text file: the
// durable append path, the validated revert path, and a parser that
// reconstructs entries from the same text format.
package journal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/vpnda/ledgerbook/pkg/models"
)

// ErrCannotRevert means the undo record no longer describes the tail of
// the file: either something was appended since, or the tail content was
// edited externally. The file is left untouched.
var ErrCannotRevert = errors.New("cannot revert last entry")

// Journal is one user's ledger file.
type Journal struct {
	path string
}

func New(path string) *Journal {
	return &Journal{path: path}
}

func (j *Journal) Path() string {
	return j.path
}

// Append renders the entry and appends it, followed by one terminating
// newline, to the end of the file. Returns the byte offsets of the file
// end before and after the write. This is a single OS-level append; a
// crash mid-write is not recovered.
func (j *Journal) Append(entry *models.Entry) (int64, int64, error) {
	file, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open ledger file: %w", err)
	}
	defer file.Close()

	oldPosition, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to seek ledger file: %w", err)
	}

	if _, err := file.WriteString(entry.Render() + "\n"); err != nil {
		return 0, 0, fmt.Errorf("failed to append to ledger file: %w", err)
	}

	newPosition, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to seek ledger file: %w", err)
	}

	return oldPosition, newPosition, nil
}

// Revert undoes the append described by the undo record by truncating
// the file at its old end. Truncation must never destroy bytes the
// record does not fully describe, so two checks guard it: the file must
// still end exactly where the append left it, and the tail from the old
// end must byte-compare equal to the recorded entry's rendering.
func (j *Journal) Revert(record *models.UndoRecord) error {
	if record == nil {
		return ErrCannotRevert
	}

	file, err := os.OpenFile(j.path, os.O_RDWR, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrCannotRevert
		}
		return fmt.Errorf("failed to open ledger file: %w", err)
	}
	defer file.Close()

	ok, err := j.tailMatches(file, record)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCannotRevert
	}

	if err := file.Truncate(record.OldPosition); err != nil {
		return fmt.Errorf("failed to truncate ledger file: %w", err)
	}
	return nil
}

// CanRevert is a non-mutating probe of whether Revert would succeed
// right now. The answer can go stale immediately; Revert re-validates.
func (j *Journal) CanRevert(record *models.UndoRecord) bool {
	if record == nil {
		return false
	}

	file, err := os.Open(j.path)
	if err != nil {
		return false
	}
	defer file.Close()

	ok, err := j.tailMatches(file, record)
	return err == nil && ok
}

func (j *Journal) tailMatches(file *os.File, record *models.UndoRecord) (bool, error) {
	end, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return false, fmt.Errorf("failed to seek ledger file: %w", err)
	}
	if end != record.NewPosition {
		return false, nil
	}

	if _, err := file.Seek(record.OldPosition, io.SeekStart); err != nil {
		return false, fmt.Errorf("failed to seek ledger file: %w", err)
	}
	tail, err := io.ReadAll(file)
	if err != nil {
		return false, fmt.Errorf("failed to read ledger file: %w", err)
	}

	actual := strings.TrimRightFunc(string(tail), unicode.IsSpace)
	return actual == record.LastEntry.Render(), nil
}

// Entries parses the raw file directly. The oracle's print dump is the
// preferred listing source since it normalizes formatting; this is the
// fallback for deployments without the binary.
func (j *Journal) Entries() ([]Entry, error) {
	file, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open ledger file: %w", err)
	}
	defer file.Close()

	return ParseEntries(file)
}
