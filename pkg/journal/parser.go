package journal

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Entry is one parsed journal transaction. Body keeps the accumulated
// text verbatim (trailing whitespace trimmed per line); Date, Payee and
// Note are extracted from the first two lines.
type Entry struct {
	Body  string `json:"body"`
	Date  string `json:"date"`
	Payee string `json:"payee"`
	Note  string `json:"note,omitempty"`
}

const datePattern = `\d{4}-\d{2}-\d{2}|\d{4}/\d{2}/\d{2}`

var (
	entryStartRe = regexp.MustCompile(`^(?:` + datePattern + `) `)
	firstLineRe  = regexp.MustCompile(`^(` + datePattern + `)(?: [!*])?\s+(.*)$`)
	noteRe       = regexp.MustCompile(`^\s*;\s*(.*)$`)
)

// ParseLines scans journal text line by line. Outside an entry, lines are
// skipped until one starts with a date; the entry then accumulates until
// a blank line closes it. A final in-progress entry is flushed at end of
// input even without a trailing blank line.
func ParseLines(lines []string) []Entry {
	var entries []Entry
	var current []string

	flush := func() {
		if entry, ok := parseEntry(current); ok {
			entries = append(entries, entry)
		}
		current = nil
	}

	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if len(current) == 0 {
			// Skipping the space and non-entries between entries.
			if entryStartRe.MatchString(line) {
				current = append(current, line)
			}
			continue
		}
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		flush()
	}

	return entries
}

// ParseEntries reads and parses a raw journal stream.
func ParseEntries(r io.Reader) ([]Entry, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return ParseLines(lines), nil
}

func parseEntry(lines []string) (Entry, bool) {
	match := firstLineRe.FindStringSubmatch(lines[0])
	if match == nil {
		return Entry{}, false
	}

	entry := Entry{
		Body:  strings.Join(lines, "\n"),
		Date:  match[1],
		Payee: match[2],
	}
	if len(lines) > 1 {
		if noteMatch := noteRe.FindStringSubmatch(lines[1]); noteMatch != nil {
			entry.Note = noteMatch[1]
		}
	}
	return entry, true
}
