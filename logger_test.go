package notation

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// syncBuffer is a bytes.Buffer safe for the concurrent writes of a handler
// shared by background goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func captureLogs(t *testing.T, level slog.Level) *syncBuffer {
	t.Helper()
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	var buf syncBuffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})))
	return &buf
}

func TestLoggerSilentByDefault(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() = nil")
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if l.Enabled(context.Background(), level) {
			t.Errorf("default logger enabled at %v", level)
		}
	}
}

func TestPlaceholderFallbackIsLogged(t *testing.T) {
	buf := captureLogs(t, slog.LevelWarn)
	e := newEngine(t)

	e.Glyph(0xE0FF)
	out := buf.String()
	for _, want := range []string{"placeholder glyph", "U+E0FF"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestSubPackagesShareLogger(t *testing.T) {
	buf := captureLogs(t, slog.LevelDebug)
	e := newEngine(t, WithFont(goRegular(t)))

	e.Layout(oneLine(t, e, "number", "12"))

	out := buf.String()
	// U+E000 has no glyph in Go Regular
	for _, want := range []string{"metrics: measured", "metrics: no glyph in font"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestSetLoggerNilSilencesAgain(t *testing.T) {
	buf := captureLogs(t, slog.LevelWarn)
	SetLogger(nil)

	e := newEngine(t)
	e.Glyph(0xE0FF)

	if out := buf.String(); out != "" {
		t.Errorf("log output after SetLogger(nil):\n%s", out)
	}
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("Logger() enabled after SetLogger(nil)")
	}
}

func TestLoggerSwapDuringUse(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	e := newEngine(t)

	var wg sync.WaitGroup
	for _i := 0; _i < 50; _i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			e.Glyph(0xE0FF)
		}()
		go func() {
			defer wg.Done()
			SetLogger(slog.New(slog.NewTextHandler(&syncBuffer{}, nil)))
			SetLogger(nil)
		}()
	}
	wg.Wait()
}

func BenchmarkGlyphSilentLogger(b *testing.B) {
	e, err := New()
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Glyph(0xE0FF)
	}
}
