package identity_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apetrei/glas/internal/identity"
	"github.com/apetrei/glas/internal/store"
)

// queueSource replays a fixed sequence of tokens.
type queueSource struct {
	tokens []string
}

func (q *queueSource) Next(context.Context) (string, error) {
	if len(q.tokens) == 0 {
		return "", errors.New("queue exhausted")
	}
	tok := q.tokens[0]
	q.tokens = q.tokens[1:]
	return tok, nil
}

// mapDirectory is a StudentDirectory backed by a map.
type mapDirectory map[string]*store.Student

func (m mapDirectory) FindStudent(_ context.Context, name string) (*store.Student, error) {
	if s, ok := m[name]; ok {
		return s, nil
	}
	return nil, store.ErrNotFound
}

func TestAwaitTrimsAndFiltersTokens(t *testing.T) {
	t.Parallel()

	gate := identity.New(&queueSource{tokens: []string{
		"  Ana Pop \n",
		"   \n",
		"Unknown\n",
	}}, mapDirectory{})
	ctx := context.Background()

	got, err := gate.Await(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Ana Pop" {
		t.Errorf("Await = %q, want %q", got, "Ana Pop")
	}

	for _, label := range []string{"whitespace-only", "unknown sentinel"} {
		got, err := gate.Await(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if got != "" {
			t.Errorf("%s token: Await = %q, want empty", label, got)
		}
	}
}

func TestVerify(t *testing.T) {
	t.Parallel()

	dir := mapDirectory{"Ana Pop": {Name: "Ana Pop", Group: "30234"}}
	gate := identity.New(&queueSource{}, dir)
	ctx := context.Background()

	st, err := gate.Verify(ctx, "Ana Pop")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if st.Group != "30234" {
		t.Errorf("Group = %q, want %q", st.Group, "30234")
	}

	if _, err := gate.Verify(ctx, "NoSuchName"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Verify(unknown) err = %v, want ErrNotFound", err)
	}
}

func TestPipeSourceReadsOneLine(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "studentName_pipe")
	src, err := identity.NewPipeSource(path)
	if err != nil {
		t.Fatalf("NewPipeSource: %v", err)
	}

	go func() {
		// The writer side also blocks until the reader opens the FIFO.
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return
		}
		defer f.Close()
		f.WriteString("Ana Pop\n")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	line, err := src.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if line != "Ana Pop\n" {
		t.Errorf("Next = %q, want raw line with newline", line)
	}
}

func TestPipeSourceClosedWithoutDataIsEmptyToken(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "studentName_pipe")
	src, err := identity.NewPipeSource(path)
	if err != nil {
		t.Fatalf("NewPipeSource: %v", err)
	}

	go func() {
		// A producer dying mid-delivery: connects, then closes without
		// writing a line.
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return
		}
		f.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	line, err := src.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v, want zero-byte delivery treated as empty token", err)
	}
	if line != "" {
		t.Errorf("Next = %q, want empty", line)
	}

	// Through the gate the same delivery is a normal rejected attempt,
	// not an error.
	gate := identity.New(&queueSource{tokens: []string{""}}, mapDirectory{})
	got, err := gate.Await(ctx)
	if err != nil {
		t.Fatalf("Await: %v", err)
	}
	if got != "" {
		t.Errorf("Await = %q, want empty", got)
	}
}

func TestPipeSourceContextCancellation(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "idle_pipe")
	src, err := identity.NewPipeSource(path)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := src.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Next err = %v, want context.DeadlineExceeded", err)
	}
}
