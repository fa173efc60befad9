// Package ingest is the receiving side of the data-entry client: a TCP
// service that accepts one JSON record per connection, writes it to the
// knowledge base, and replies with a one-line status. The client is a
// staff-side GUI that enrols students and maintains the question tables;
// the wire format keeps its Romanian field names.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/apetrei/glas/internal/observe"
	"github.com/apetrei/glas/internal/store"
)

// connDeadline bounds one full read-record/write-reply exchange.
const connDeadline = 10 * time.Second

// Record is the wire format of one data-entry submission. Kind selects the
// target table; the remaining fields mirror the table columns.
type Record struct {
	Kind string `json:"kind"`

	// Student fields (kind "student").
	Nume string `json:"nume,omitempty"`

	// Scoping fields, shared by student and question kinds.
	Grupa     string `json:"grupa,omitempty"`
	Serie     string `json:"serie,omitempty"`
	Facultate string `json:"facultate,omitempty"`

	// Question fields (kinds "general", "grupa", "serie").
	Intrebare string `json:"intrebare,omitempty"`
	Raspuns   string `json:"raspuns,omitempty"`
}

// Record kinds accepted on the wire.
const (
	KindStudent = "student"
	KindGeneral = "general"
	KindGroup   = "grupa"
	KindSeries  = "serie"
)

// Writer is the store subset the service inserts through.
type Writer interface {
	AddStudent(ctx context.Context, s *store.Student) error
	AddQuestion(ctx context.Context, q *store.QuestionRecord) error
}

// Option is a functional option for configuring a Server.
type Option func(*Server)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithMetrics sets the metric instruments. Defaults to the package-level
// instruments.
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// Server accepts data-entry connections and writes records to the store.
type Server struct {
	writer  Writer
	log     *slog.Logger
	metrics *observe.Metrics
}

// NewServer creates a Server writing through w.
func NewServer(w Writer, opts ...Option) *Server {
	s := &Server{
		writer:  w,
		log:     slog.Default(),
		metrics: observe.DefaultMetrics(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("ingest: listen %q: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is cancelled. Each
// connection carries exactly one record.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	s.log.Info("ingest service listening", "addr", ln.Addr().String())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("ingest: accept: %w", err)
		}
		go s.handle(ctx, conn)
	}
}

// handle runs the one-record exchange on conn.
func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(connDeadline))

	var rec Record
	if err := json.NewDecoder(conn).Decode(&rec); err != nil {
		s.log.Warn("ingest decode failed", "remote", conn.RemoteAddr().String(), "error", err)
		s.count(ctx, "invalid", "error")
		fmt.Fprintf(conn, "error: %v\n", err)
		return
	}

	if err := s.apply(ctx, &rec); err != nil {
		s.log.Warn("ingest record rejected", "kind", rec.Kind, "error", err)
		s.count(ctx, rec.Kind, "error")
		fmt.Fprintf(conn, "error: %v\n", err)
		return
	}

	s.log.Info("ingest record stored", "kind", rec.Kind)
	s.count(ctx, rec.Kind, "ok")
	fmt.Fprintln(conn, "ok")
}

// apply validates rec and writes it to its table.
func (s *Server) apply(ctx context.Context, rec *Record) error {
	switch rec.Kind {
	case KindStudent:
		st := &store.Student{
			Name:    rec.Nume,
			Group:   rec.Grupa,
			Series:  rec.Serie,
			Faculty: rec.Facultate,
		}
		if err := st.Validate(); err != nil {
			return err
		}
		return s.writer.AddStudent(ctx, st)

	case KindGeneral:
		return s.addQuestion(ctx, &store.QuestionRecord{
			Category: store.CategoryGeneral,
			Question: rec.Intrebare,
			Answer:   rec.Raspuns,
		})

	case KindGroup:
		return s.addQuestion(ctx, &store.QuestionRecord{
			Category: store.CategoryGroup,
			Question: rec.Intrebare,
			Answer:   rec.Raspuns,
			Faculty:  rec.Facultate,
			Scope:    rec.Grupa,
		})

	case KindSeries:
		return s.addQuestion(ctx, &store.QuestionRecord{
			Category: store.CategorySeries,
			Question: rec.Intrebare,
			Answer:   rec.Raspuns,
			Faculty:  rec.Facultate,
			Scope:    rec.Serie,
		})
	}
	return fmt.Errorf("ingest: unknown record kind %q", rec.Kind)
}

func (s *Server) addQuestion(ctx context.Context, q *store.QuestionRecord) error {
	if err := q.Validate(); err != nil {
		return err
	}
	return s.writer.AddQuestion(ctx, q)
}

// count records one processed record on the ingest counter.
func (s *Server) count(ctx context.Context, kind, status string) {
	s.metrics.IngestRecords.Add(ctx, 1, metric.WithAttributes(
		observe.Attr("kind", kind),
		observe.Attr("status", status),
	))
}
