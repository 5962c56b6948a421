package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/rectsweep/pkg/config"
	"github.com/Sumatoshi-tech/rectsweep/pkg/coverage"
	"github.com/Sumatoshi-tech/rectsweep/pkg/geom"
	"github.com/Sumatoshi-tech/rectsweep/pkg/render"
	"github.com/Sumatoshi-tech/rectsweep/pkg/scene"
)

const canonicalYAML = `base: {x: 0, y: 0, width: 20, height: 7}
obstructions:
  - {name: red, x: 0, y: 3, width: 6, height: 4}
  - {name: blue, x: 10, y: 0, width: 10, height: 2}
`

const layeredYAML = `layers:
  - {name: desktop, x: 0, y: 0, width: 10, height: 10}
  - {name: editor, x: 0, y: 0, width: 5, height: 10}
`

const canonicalGrid = `RRRRRRaaaacccccccccc
RRRRRRaaaacccccccccc
RRRRRRaaaacccccccccc
RRRRRRaaaacccccccccc
bbbbbbaaaacccccccccc
bbbbbbaaaaBBBBBBBBBB
bbbbbbaaaaBBBBBBBBBB
`

type result struct {
	stdout string
	stderr string
	err    error
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// execute runs the command tree with an isolated config file.
func execute(t *testing.T, stdin string, args []string, replace ...*cobra.Command) result {
	t.Helper()

	root := NewRootCommand()

	for _, cmd := range replace {
		for _, existing := range root.Commands() {
			if existing.Name() == cmd.Name() {
				root.RemoveCommand(existing)
			}
		}

		root.AddCommand(cmd)
	}

	var stdout, stderr bytes.Buffer

	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", writeFile(t, "rectsweep.yaml", "logging:\n  level: warn\n")}, args...))

	err := root.ExecuteContext(context.Background())

	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestDecompose_Table(t *testing.T) {
	t.Parallel()

	res := execute(t, "", []string{"decompose", writeFile(t, "scene.yaml", canonicalYAML)})
	require.NoError(t, res.err)

	out := strings.ToLower(res.stdout)
	assert.Contains(t, out, "4 rects")
	assert.Contains(t, out, "118")
}

// TestDecompose_JSONFromStdin verifies "-" reads the scene from standard input.
func TestDecompose_JSONFromStdin(t *testing.T) {
	t.Parallel()

	res := execute(t, canonicalYAML, []string{"decompose", "--format", "json", "--verify", "-"})
	require.NoError(t, res.err, res.stderr)

	var report render.Report

	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
	assert.Equal(t, geom.New(0, 0, 20, 7), report.Base)
	assert.Len(t, report.Rects, 4)
	require.NotNil(t, report.Stats)
	assert.Equal(t, 3, report.Stats.Steps)
	require.NotNil(t, report.Coverage)
	assert.Equal(t, 96, report.Coverage.FreeArea)
	require.NoError(t, coverage.Verify(report.Base, []geom.Rect{geom.New(0, 3, 6, 4), geom.New(10, 0, 10, 2)}, report.Rects))
}

func TestDecompose_Grid(t *testing.T) {
	t.Parallel()

	res := execute(t, "", []string{"decompose", "--format", "grid", "--no-color", writeFile(t, "scene.yaml", canonicalYAML)})
	require.NoError(t, res.err)

	assert.Equal(t, canonicalGrid, res.stdout)
}

func TestDecompose_VerifyTable(t *testing.T) {
	t.Parallel()

	res := execute(t, "", []string{"decompose", "--verify", "--no-color", writeFile(t, "scene.yaml", canonicalYAML)})
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "verified: 96 of 140 cells free, covered exactly (22 overlapping)")
}

func TestDecompose_YAML(t *testing.T) {
	t.Parallel()

	res := execute(t, "", []string{"decompose", "--format", "yaml", writeFile(t, "scene.json", `{"base":{"x":0,"y":0,"width":3,"height":3}}`)})
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "width: 3")
	assert.Contains(t, res.stdout, "steps: 1")
}

func TestDecompose_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no base", []string{"decompose", "-"}, scene.ErrNoBase},
		{"bad format", []string{"decompose", "--format", "svg", "-"}, config.ErrInvalidOutputFormat},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			res := execute(t, layeredYAML, tc.args)
			require.ErrorIs(t, res.err, tc.want)
		})
	}

	res := execute(t, "", []string{"decompose", filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, res.err)

	res = execute(t, "", []string{"decompose"})
	require.Error(t, res.err)
}

func TestVisible(t *testing.T) {
	t.Parallel()

	res := execute(t, layeredYAML, []string{"visible", "--format", "json", "--workers", "1", "-"})
	require.NoError(t, res.err, res.stderr)

	var visible []scene.Visible

	require.NoError(t, json.Unmarshal([]byte(res.stdout), &visible))
	require.Len(t, visible, 2)
	assert.Equal(t, []geom.Rect{geom.New(5, 0, 5, 10)}, visible[0].Rects)
	assert.Equal(t, []geom.Rect{geom.New(0, 0, 5, 10)}, visible[1].Rects)
}

func TestVisible_TableAndGrid(t *testing.T) {
	t.Parallel()

	res := execute(t, layeredYAML, []string{"visible", "-"})
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "layer 0 desktop")
	assert.Contains(t, res.stdout, "layer 1 editor")

	res = execute(t, layeredYAML, []string{"visible", "--format", "grid", "--no-color", "-"})
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "EEEEEaaaaa\n")
}

func TestVisible_Errors(t *testing.T) {
	t.Parallel()

	res := execute(t, canonicalYAML, []string{"visible", "-"})
	require.ErrorIs(t, res.err, ErrNoLayers)

	res = execute(t, layeredYAML, []string{"visible", "--workers", "-2", "-"})
	require.ErrorIs(t, res.err, config.ErrInvalidWorkers)
}

func TestVersion(t *testing.T) {
	t.Parallel()

	res := execute(t, "", []string{"version"})
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "rectsweep "))
	assert.Contains(t, res.stdout, "commit:")
}

// TestLogFlags verifies -v and --log-json reach the logger.
func TestLogFlags(t *testing.T) {
	t.Parallel()

	res := execute(t, canonicalYAML, []string{"-v", "--log-json", "decompose", "-"})
	require.NoError(t, res.err)

	assert.Contains(t, res.stderr, `"msg":"decomposed"`)
	assert.Contains(t, res.stderr, `"mode":"cli"`)
}

func TestInvalidConfig(t *testing.T) {
	t.Parallel()

	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", writeFile(t, "bad.yaml", "server:\n  port: 0\n"), "version"})

	require.ErrorIs(t, root.Execute(), config.ErrInvalidPort)
}

// keyScreen is a simulation screen that presses a key right after Init and
// remembers what was on it the first time it was shown.
type keyScreen struct {
	tcell.SimulationScreen

	shown []rune
}

func (ks *keyScreen) Init() error {
	err := ks.SimulationScreen.Init()
	if err != nil {
		return err
	}

	ks.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)

	return nil
}

func (ks *keyScreen) Show() {
	ks.SimulationScreen.Show()

	if ks.shown != nil {
		return
	}

	for x := range 20 {
		r, _, _, _ := ks.GetContent(x, 0)
		ks.shown = append(ks.shown, r)
	}
}

func TestPreview(t *testing.T) {
	t.Parallel()

	screen := &keyScreen{SimulationScreen: tcell.NewSimulationScreen("UTF-8")}
	preview := newPreviewCommandWithScreen(func() (tcell.Screen, error) { return screen, nil })

	done := make(chan result, 1)

	go func() {
		done <- execute(t, canonicalYAML, []string{"preview", "-"}, preview)
	}()

	select {
	case res := <-done:
		require.NoError(t, res.err)
	case <-time.After(5 * time.Second):
		t.Fatal("preview did not exit on key press")
	}

	assert.Equal(t, "RRRRRRaaaacccccccccc", string(screen.shown))
}
