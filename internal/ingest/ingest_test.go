package ingest_test

import (
	"bufio"
	"context"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/apetrei/glas/internal/ingest"
	"github.com/apetrei/glas/internal/store"
)

// memWriter collects inserted rows in memory.
type memWriter struct {
	mu        sync.Mutex
	students  []store.Student
	questions []store.QuestionRecord
}

func (w *memWriter) AddStudent(_ context.Context, s *store.Student) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.students = append(w.students, *s)
	return nil
}

func (w *memWriter) AddQuestion(_ context.Context, q *store.QuestionRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.questions = append(w.questions, *q)
	return nil
}

// startServer runs a Server on a loopback listener and returns its address.
func startServer(t *testing.T, w *memWriter) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = ingest.NewServer(w).Serve(ctx, ln)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return ln.Addr().String()
}

// exchange sends one raw payload and returns the status line.
func exchange(t *testing.T, addr, payload string) string {
	t.Helper()

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(payload)); err != nil {
		t.Fatal(err)
	}
	// Half-close so a truncated payload reads as EOF server-side instead
	// of waiting out the connection deadline.
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.CloseWrite()
	}
	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	return strings.TrimSpace(reply)
}

func TestIngestStudentRecord(t *testing.T) {
	t.Parallel()

	w := &memWriter{}
	addr := startServer(t, w)

	reply := exchange(t, addr, `{"kind":"student","nume":"Ana Ionescu","grupa":"311","serie":"A","facultate":"AC"}`)
	if reply != "ok" {
		t.Fatalf("reply = %q, want ok", reply)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.students) != 1 {
		t.Fatalf("students = %d, want 1", len(w.students))
	}
	got := w.students[0]
	want := store.Student{Name: "Ana Ionescu", Group: "311", Series: "A", Faculty: "AC"}
	if got != want {
		t.Errorf("student = %+v, want %+v", got, want)
	}
}

func TestIngestQuestionKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		want    store.QuestionRecord
	}{
		{
			name:    "general",
			payload: `{"kind":"general","intrebare":"care este programul","raspuns":"9-17"}`,
			want:    store.QuestionRecord{Category: store.CategoryGeneral, Question: "care este programul", Answer: "9-17"},
		},
		{
			name:    "group",
			payload: `{"kind":"grupa","facultate":"AC","grupa":"311","intrebare":"când este laboratorul","raspuns":"marți"}`,
			want:    store.QuestionRecord{Category: store.CategoryGroup, Question: "când este laboratorul", Answer: "marți", Faculty: "AC", Scope: "311"},
		},
		{
			name:    "series",
			payload: `{"kind":"serie","facultate":"AC","serie":"A","intrebare":"când este cursul","raspuns":"luni"}`,
			want:    store.QuestionRecord{Category: store.CategorySeries, Question: "când este cursul", Answer: "luni", Faculty: "AC", Scope: "A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := &memWriter{}
			addr := startServer(t, w)

			if reply := exchange(t, addr, tt.payload); reply != "ok" {
				t.Fatalf("reply = %q, want ok", reply)
			}

			w.mu.Lock()
			defer w.mu.Unlock()
			if len(w.questions) != 1 {
				t.Fatalf("questions = %d, want 1", len(w.questions))
			}
			if w.questions[0] != tt.want {
				t.Errorf("question = %+v, want %+v", w.questions[0], tt.want)
			}
		})
	}
}

func TestIngestRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	w := &memWriter{}
	addr := startServer(t, w)

	reply := exchange(t, addr, `{"kind":"profesor","nume":"X"}`)
	if !strings.HasPrefix(reply, "error:") {
		t.Fatalf("reply = %q, want error", reply)
	}
}

func TestIngestRejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	w := &memWriter{}
	addr := startServer(t, w)

	reply := exchange(t, addr, `{"kind":`)
	if !strings.HasPrefix(reply, "error:") {
		t.Fatalf("reply = %q, want error", reply)
	}
}

func TestIngestRejectsIncompleteQuestion(t *testing.T) {
	t.Parallel()

	w := &memWriter{}
	addr := startServer(t, w)

	reply := exchange(t, addr, `{"kind":"general","intrebare":"fără răspuns"}`)
	if !strings.HasPrefix(reply, "error:") {
		t.Fatalf("reply = %q, want error", reply)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.questions) != 0 {
		t.Errorf("questions = %d, want 0", len(w.questions))
	}
}
