package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ByLCY/folio/content"
	"github.com/ByLCY/folio/layout"
)

func loadData(t *testing.T) any {
	t.Helper()
	raw, err := os.ReadFile("examples/trajectplan.json")
	require.NoError(t, err)
	var v any
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestRunExample(t *testing.T) {
	for _, backend := range []string{"canvas", "fpdf"} {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()
			out := filepath.Join(dir, "plan.pdf")
			debug := filepath.Join(dir, "plan.json")
			pages, err := run(options{
				input:   "examples/trajectplan.folio",
				output:  out,
				debug:   debug,
				backend: backend,
				data:    loadData(t),
			})
			require.NoError(t, err)
			require.GreaterOrEqual(t, pages, 1)

			pdf, err := os.ReadFile(out)
			require.NoError(t, err)
			require.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

			raw, err := os.ReadFile(debug)
			require.NoError(t, err)
			var res layout.Result
			require.NoError(t, json.Unmarshal(raw, &res))
			require.Len(t, res.Pages, pages)
			var keys []string
			for _, p := range res.Pages {
				keys = append(keys, p.Keys...)
			}
			require.Equal(t, []string{"werknemer", "opdrachtgever", "traject", "opdrachtinfo", "basis", "avg", "legenda"}, keys)
		})
	}
}

func TestRunWritesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "broken.html")
	// 缺少页眉标记，序列校验失败
	require.NoError(t, os.WriteFile(in, []byte(`<section data-key="a"><p>x</p></section>`), 0o644))
	out := filepath.Join(dir, "out", "broken.pdf")

	_, err := run(options{input: in, output: out, backend: "fpdf"})
	require.ErrorIs(t, err, content.ErrInvalidSequence)
	_, statErr := os.Stat(out)
	require.True(t, os.IsNotExist(statErr))
}

func TestOverrideGeometry(t *testing.T) {
	g, err := overrideGeometry(layout.DefaultGeometry(), "20mm", "5mm")
	require.NoError(t, err)
	require.Equal(t, 20.0, g.Padding)
	require.Equal(t, 5.0, g.Spacing)

	_, err = overrideGeometry(layout.DefaultGeometry(), "abc", "")
	require.Error(t, err)
}

func TestNewBackend(t *testing.T) {
	_, err := newBackend("svg", ".")
	require.Error(t, err)
	b, err := newBackend("FPDF", ".")
	require.NoError(t, err)
	require.NotNil(t, b)
}
