package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/thisisjab/arrowjq/fault"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()

	e, err := New(cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return e
}

func TestRun(t *testing.T) {
	e := newTestEngine(t, Config{WorkersCount: 3, BufferSize: 2})

	jobs := NewJobs("input", []string{
		"x => x.a",
		"x => x.foo()",
		"x => x.a.filter(y => y.b).map(y => y.c)",
		"x =>",
		"x => x.slice(1, 3)",
	})

	results, err := e.Run(context.Background(), jobs)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(results) != len(jobs) {
		t.Fatalf("expected %d results, got %d", len(jobs), len(results))
	}

	expected := []struct {
		filter string
		code   fault.Code
	}{
		{".a", ""},
		{"", fault.UnrecognizedMethodCode},
		{".a | map(select(.b)) | map(.c)", ""},
		{"", fault.SyntaxErrorCode},
		{".[1:3]", ""},
	}

	for i, r := range results {
		if r.Job.Line != i+1 {
			t.Fatalf("result %d: expected line %d, got %d", i, i+1, r.Job.Line)
		}
		if r.Job.ID != jobs[i].ID {
			t.Fatalf("result %d: expected job %s, got %s", i, jobs[i].ID, r.Job.ID)
		}
		if r.Filter != expected[i].filter {
			t.Fatalf("result %d: expected filter %q, got %q", i, expected[i].filter, r.Filter)
		}

		if expected[i].code == "" {
			if r.Err != nil {
				t.Fatalf("result %d: unexpected error: %v", i, r.Err)
			}
			continue
		}
		if code := fault.CodeOf(r.Err); code != expected[i].code {
			t.Fatalf("result %d: expected code %s, got %s", i, expected[i].code, code)
		}
	}

	if n := Failed(results); n != 2 {
		t.Fatalf("expected 2 failed results, got %d", n)
	}
}

func TestRunUsesEveryJobOnce(t *testing.T) {
	var calls atomic.Int64
	e, err := NewWithTranslator(Config{WorkersCount: 8}, slog.New(slog.DiscardHandler), func(src string) (string, error) {
		calls.Add(1)
		return src, nil
	})
	if err != nil {
		t.Fatalf("NewWithTranslator returned error: %v", err)
	}

	texts := make([]string, 100)
	for i := range texts {
		texts[i] = uuid.NewString()
	}

	results, err := e.Run(context.Background(), NewJobs("many", texts))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if calls.Load() != int64(len(texts)) {
		t.Fatalf("expected %d translations, got %d", len(texts), calls.Load())
	}
	for i, r := range results {
		if r.Filter != texts[i] {
			t.Fatalf("result %d out of order: expected %q, got %q", i, texts[i], r.Filter)
		}
	}
}

func TestRunOrdersBySourceThenLine(t *testing.T) {
	e := newTestEngine(t, Config{WorkersCount: 2})

	jobs := []Job{
		NewJob("b", 2, "x => x.d"),
		NewJob("a", 2, "x => x.b"),
		NewJob("b", 1, "x => x.c"),
		NewJob("a", 1, "x => x.a"),
	}

	results, err := e.Run(context.Background(), jobs)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	var filters []string
	for _, r := range results {
		filters = append(filters, r.Filter)
	}

	expected := []string{".a", ".b", ".c", ".d"}
	for i := range expected {
		if filters[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, filters)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	e := newTestEngine(t, Config{WorkersCount: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := e.Run(ctx, NewJobs("input", []string{"x => x", "x => x.a", "x => x.b"}))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v (%d results)", err, len(results))
	}
}

func TestRunEmpty(t *testing.T) {
	e := newTestEngine(t, Config{WorkersCount: 1})

	results, err := e.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

type staticSource struct {
	jobs []Job
	err  error
}

func (s staticSource) Name() string         { return "static" }
func (s staticSource) Read() ([]Job, error) { return s.jobs, s.err }

func TestRunSource(t *testing.T) {
	e := newTestEngine(t, Config{WorkersCount: 2})

	results, err := e.RunSource(context.Background(), staticSource{jobs: NewJobs("static", []string{"x => x.a"})})
	if err != nil {
		t.Fatalf("RunSource returned error: %v", err)
	}
	if len(results) != 1 || results[0].Filter != ".a" {
		t.Fatalf("unexpected results: %+v", results)
	}

	readErr := errors.New("disk on fire")
	_, err = e.RunSource(context.Background(), staticSource{err: readErr})
	if !errors.Is(err, readErr) {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := (Config{}).Validate(); err == nil {
		t.Fatalf("expected error for zero workers")
	}

	if _, err := New(Config{}, slog.New(slog.DiscardHandler)); err == nil {
		t.Fatalf("expected New to reject an invalid config")
	}

	if _, err := NewWithTranslator(Config{WorkersCount: 1}, slog.New(slog.DiscardHandler), nil); err == nil {
		t.Fatalf("expected NewWithTranslator to reject a nil translate function")
	}
}
