package engine

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/serress/internal/label"
)

var (
	Z = label.Unit
	O = label.Zero
	U = label.Unknown
)

// quietLogger discards engine logs in tests.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSequence(t *testing.T, width, height int, opts ...Option) *Sequence {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	s, err := NewSequence(width, height, opts...)
	require.NoError(t, err)
	return s
}

// grid returns the page symbols indexed [q][p].
func grid(pg *Page) [][]string {
	out := make([][]string, pg.Height())
	for q := range out {
		out[q] = label.Symbols(pg.Row(q))
	}
	return out
}

func page(t *testing.T, s *Sequence, r int) *Page {
	t.Helper()
	pg, ok := s.Page(r)
	require.True(t, ok, "page %d should exist", r)
	return pg
}
