// Package identity admits people into kiosk sessions. An external
// identification process (face recognition, badge reader) writes one name
// per line into a named pipe; the gate performs a single blocking read per
// session-acquisition attempt and verifies the token against the student
// table. Timing is entirely the producer's responsibility — there is no
// polling loop here.
package identity

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/apetrei/glas/internal/store"
)

// Source delivers one raw identity token per call, blocking until the
// external producer supplies one.
type Source interface {
	Next(ctx context.Context) (string, error)
}

// StudentDirectory is the store subset the gate needs for verification.
type StudentDirectory interface {
	FindStudent(ctx context.Context, name string) (*store.Student, error)
}

// PipeSource reads identity tokens from a named pipe. Each Next call opens
// the pipe, reads a single line, and closes it again, mirroring the
// one-token-per-session handshake of the producer.
type PipeSource struct {
	path string
}

// Compile-time interface check.
var _ Source = (*PipeSource)(nil)

// NewPipeSource ensures a FIFO exists at path and returns a source reading
// from it.
func NewPipeSource(path string) (*PipeSource, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := syscall.Mkfifo(path, 0o666); err != nil {
			return nil, fmt.Errorf("identity: create pipe %q: %w", path, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("identity: stat pipe %q: %w", path, err)
	}
	return &PipeSource{path: path}, nil
}

// Next blocks until the producer writes one line into the pipe (or closes
// it), then returns whatever was delivered, possibly "". Opening a FIFO
// for reading blocks until a writer connects, so the open itself runs in
// a goroutine and the call unblocks on context cancellation.
func (p *PipeSource) Next(ctx context.Context) (string, error) {
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		f, err := os.Open(p.path)
		if err != nil {
			ch <- result{err: fmt.Errorf("identity: open pipe: %w", err)}
			return
		}
		defer f.Close()

		line, err := bufio.NewReader(f).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			ch <- result{err: fmt.Errorf("identity: read pipe: %w", err)}
			return
		}
		// A producer that closes the pipe without delivering a line is an
		// unidentified visitor, not a channel failure: the empty line flows
		// through as an empty token and the caller rejects the attempt.
		ch <- result{line: line}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.line, r.err
	}
}

// unknownToken is the sentinel the face-recognition producer writes when
// it cannot identify the person in front of the camera.
const unknownToken = "Unknown"

// Gate couples an identity [Source] with the student directory.
type Gate struct {
	src      Source
	students StudentDirectory
}

// New creates a Gate reading tokens from src and verifying against students.
func New(src Source, students StudentDirectory) *Gate {
	return &Gate{src: src, students: students}
}

// Await blocks for the next identity token and trims surrounding
// whitespace. An empty result after trimming, or the producer's "Unknown"
// sentinel, means "no identity" and is reported as an empty string, not an
// error; the caller rejects the attempt and waits for the next person.
func (g *Gate) Await(ctx context.Context) (string, error) {
	token, err := g.src.Next(ctx)
	if err != nil {
		return "", err
	}
	token = strings.TrimSpace(token)
	if token == unknownToken {
		return "", nil
	}
	return token, nil
}

// Verify looks the token up in the student table by exact name match.
// Returns [store.ErrNotFound] when the person is not enrolled.
func (g *Gate) Verify(ctx context.Context, token string) (*store.Student, error) {
	return g.students.FindStudent(ctx, token)
}
