// Package dictionary maintains the recogniser's pronunciation dictionary:
// a line-oriented, append-only store of `token phonetic-transcription`
// entries that the speech decoder loads to constrain what it can hear.
//
// The [Dictionary] type holds the known-token set in memory for O(1)
// membership checks and appends new entries to the backing file. The
// [Maintainer] grows the dictionary from the knowledge base, requesting
// phonetic transcriptions from a swappable [Transliterator].
package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Dictionary is the in-memory view of a pronunciation dictionary file.
// It enforces single-writer discipline internally: all appends are
// serialised through one mutex, and the in-memory set is only updated
// after the corresponding line has reached the file. Re-appending an
// already-present token is a no-op.
type Dictionary struct {
	path string

	mu    sync.Mutex
	known map[string]struct{}
	f     *os.File
}

// Open loads the dictionary file at path into memory and opens it for
// appending. A missing file is created empty. Lines are expected in the
// form `token phonetic...`; blank lines are skipped.
func Open(path string) (*Dictionary, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("dictionary: open %q for append: %w", path, err)
	}

	known, err := readTokens(path)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Dictionary{path: path, known: known, f: f}, nil
}

// readTokens scans the dictionary file and returns the set of tokens, the
// first whitespace-separated field of each non-empty line.
func readTokens(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dictionary: read %q: %w", path, err)
	}
	defer f.Close()

	known := make(map[string]struct{})
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		known[fields[0]] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dictionary: scan %q: %w", path, err)
	}
	return known, nil
}

// Contains reports whether token already has a dictionary entry.
func (d *Dictionary) Contains(token string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.known[token]
	return ok
}

// Append writes one `token phonetic` line and records the token in the
// membership set. The set is updated only after the write has been synced,
// so a crash mid-append is never observable as a successful addition.
// Appending a token that is already present is a no-op and returns nil.
func (d *Dictionary) Append(token, phonetic string) error {
	if token == "" {
		return errors.New("dictionary: empty token")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.known[token]; ok {
		return nil
	}
	if _, err := fmt.Fprintf(d.f, "%s %s\n", token, phonetic); err != nil {
		return fmt.Errorf("dictionary: append %q: %w", token, err)
	}
	if err := d.f.Sync(); err != nil {
		return fmt.Errorf("dictionary: sync after appending %q: %w", token, err)
	}
	d.known[token] = struct{}{}
	return nil
}

// Len returns the number of known tokens.
func (d *Dictionary) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.known)
}

// Path returns the location of the backing file.
func (d *Dictionary) Path() string { return d.path }

// Close releases the append handle. The in-memory set remains readable.
func (d *Dictionary) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.f.Close()
}
