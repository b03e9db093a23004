// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInputSpec(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "Quarterly Report.PDF")
	require.NoError(t, os.WriteFile(p, []byte("%PDF"), 0o644))

	in, err := NewInputSpec(p)
	require.NoError(t, err)

	assert.Equal(t, p, in.Source)
	assert.Equal(t, p, in.Path)
	assert.Equal(t, ".pdf", in.Ext)
	assert.Equal(t, "Quarterly Report", in.Stem)
	assert.Equal(t, dir, in.Dir)
	assert.False(t, in.IsURL())
}

func TestNewInputSpec_Relative(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	require.NoError(t, os.WriteFile("notes.txt", []byte("hi"), 0o644))

	in, err := NewInputSpec("notes.txt")
	require.NoError(t, err)

	assert.Equal(t, "notes.txt", in.Source)
	assert.True(t, filepath.IsAbs(in.Path))
	assert.Equal(t, "notes", in.Stem)
	assert.Equal(t, ".txt", in.Ext)
}

func TestNewInputSpec_NoExtension(t *testing.T) {
	p := filepath.Join(t.TempDir(), "README")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))

	in, err := NewInputSpec(p)
	require.NoError(t, err)
	assert.Equal(t, "", in.Ext)
	assert.Equal(t, "README", in.Stem)
}

func TestNewInputSpec_Missing(t *testing.T) {
	p := filepath.Join(t.TempDir(), "missing.docx")

	_, err := NewInputSpec(p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingInput))
	assert.Contains(t, err.Error(), p)
}

func TestNewInputSpec_URL(t *testing.T) {
	tests := []struct {
		name     string
		arg      string
		wantStem string
		wantExt  string
	}{
		{"file with extension", "https://example.com/papers/2301.07041.pdf", "2301.07041", ".pdf"},
		{"upper-case extension", "http://example.com/Slides.PPTX", "Slides", ".pptx"},
		{"no path", "https://example.com", defaultURLStem, ""},
		{"trailing slash", "https://example.com/docs/", "docs", ""},
		{"query ignored", "https://example.com/a/report.docx?dl=1", "report", ".docx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := NewInputSpec(tt.arg)
			require.NoError(t, err)
			assert.True(t, in.IsURL())
			assert.Empty(t, in.Path)
			assert.Equal(t, tt.wantStem, in.Stem)
			assert.Equal(t, tt.wantExt, in.Ext)

			cwd, err := os.Getwd()
			require.NoError(t, err)
			assert.Equal(t, cwd, in.Dir)
		})
	}
}

func TestNewInputSpec_InvalidURL(t *testing.T) {
	_, err := NewInputSpec("https://")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestWithLocalPath(t *testing.T) {
	in, err := NewInputSpec("https://example.com/a.pdf")
	require.NoError(t, err)

	local := in.WithLocalPath("/tmp/dl-123.pdf")
	assert.Equal(t, "/tmp/dl-123.pdf", local.Path)
	assert.Empty(t, in.Path, "original spec must not change")
	assert.Equal(t, in.Stem, local.Stem)
}

func TestResolveOutput(t *testing.T) {
	dir := t.TempDir()
	in := InputSpec{Path: filepath.Join(dir, "deck.pptx"), Stem: "deck", Ext: ".pptx", Dir: dir}

	t.Run("default beside input", func(t *testing.T) {
		out, err := ResolveOutput(in, "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "deck.md"), out.Path)
	})

	t.Run("explicit absolute", func(t *testing.T) {
		want := filepath.Join(t.TempDir(), "custom.markdown")
		out, err := ResolveOutput(in, want)
		require.NoError(t, err)
		assert.Equal(t, want, out.Path)
	})

	t.Run("explicit relative resolved against cwd", func(t *testing.T) {
		cwd := t.TempDir()
		chdirForTest(t, cwd)
		out, err := ResolveOutput(in, filepath.Join("out", "deck.md"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(cwd, "out", "deck.md"), out.Path)
	})
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.com/a.pdf"))
	assert.True(t, IsRemote("HTTP://example.com/a.pdf"))
	assert.False(t, IsRemote("ftp://example.com/a.pdf"))
	assert.False(t, IsRemote("./https-notes.txt"))
}
