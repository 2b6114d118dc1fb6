package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// run runs the app with args and returns its output and exit status.
func run(t *testing.T, dir string, args ...string) (string, int) {
	t.Helper()

	out := new(bytes.Buffer)
	app := newApp(dir)
	app.Writer = out
	app.ErrWriter = out
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"sitf"}, args...))
	if err == nil {
		return out.String(), 0
	}

	var exit cli.ExitCoder
	require.True(t, errors.As(err, &exit), "%v", err)
	return out.String(), exit.ExitCode()
}

func TestMissingArguments(t *testing.T) {
	tests := []struct {
		command string
		usage   string
	}{
		{"to-sitf", "INPUT OUTPUT [METADATA]"},
		{"to-png", "INPUT OUTPUT"},
		{"view", "INPUT OUTPUT"},
		{"scan", "DIRECTORY [METADATA]"},
		{"import", "FILE..."},
		{"export", "NAME OUTPUT"},
		{"thumbnail", "NAME OUTPUT"},
		{"delete", "NAME"},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			out, code := run(t, t.TempDir(), tt.command)
			assert.Equal(t, 1, code)
			assert.Contains(t, out, tt.command)
			assert.Contains(t, out, tt.usage)
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	out, code := run(t, t.TempDir(), "frobnicate")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Unknown mode: frobnicate")

	out, code = run(t, t.TempDir())
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "to-sitf")
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()

	m := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for x := 0; x < 4; x++ {
		m.SetNRGBA(x, 0, color.NRGBA{0xff, 0, 0, 0xff})
		m.SetNRGBA(x, 1, color.NRGBA{0, 0, 0xff, 0xff})
	}
	b := new(bytes.Buffer)
	require.NoError(t, png.Encode(b, m))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "in.png"), b.Bytes(), 0644))

	_, code := run(t, dir, "to-sitf", filepath.Join(dir, "in.png"), filepath.Join(dir, "flag.sitf"), "flag")
	require.Equal(t, 0, code)

	text, err := ioutil.ReadFile(filepath.Join(dir, "flag.sitf"))
	require.NoError(t, err)
	assert.Equal(t, "$flag@\n1-4:1+!R\n1-4:2+!B\n", string(text))

	_, code = run(t, dir, "view", "--width", "8", "--height", "0", filepath.Join(dir, "flag.sitf"), filepath.Join(dir, "view.png"))
	require.Equal(t, 0, code)

	_, code = run(t, dir, "--compression", "lz4", "import", filepath.Join(dir, "flag.sitf"))
	require.Equal(t, 0, code)

	out, code := run(t, dir, "list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "flag")
	assert.Contains(t, out, "4x2")
	assert.Contains(t, out, "lz4")

	_, code = run(t, dir, "delete", "flag")
	require.Equal(t, 0, code)

	_, code = run(t, dir, "delete", "flag")
	assert.Equal(t, 1, code)

	_, code = run(t, dir, "to-png", filepath.Join(dir, "missing.sitf"), filepath.Join(dir, "out.png"))
	assert.Equal(t, 1, code)
}
