package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSVGToStdout(t *testing.T) {
	path := writePlan(t, diamondPlan)

	buf := &bytes.Buffer{}
	cmd := NewRenderCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	svg := buf.String()
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Contains(t, svg, "Début")
	assert.Contains(t, svg, "Fin")
}

func TestRenderSVGToFile(t *testing.T) {
	path := writePlan(t, diamondPlan)
	out := filepath.Join(t.TempDir(), "diagram.svg")

	cmd := NewRenderCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"-o", out, path})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestRenderDOTToFile(t *testing.T) {
	path := writePlan(t, diamondPlan)
	out := filepath.Join(t.TempDir(), "diagram.dot")

	cmd := NewRenderCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"-o", out, path})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph")
}

func TestRenderUnknownExtension(t *testing.T) {
	path := writePlan(t, diamondPlan)

	buf := &bytes.Buffer{}
	cmd := NewRenderCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-o", "diagram.png", path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "E003")
}

func TestReportToFile(t *testing.T) {
	path := writePlan(t, diamondPlan)
	out := filepath.Join(t.TempDir(), "report.pdf")

	buf := &bytes.Buffer{}
	cmd := NewReportCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-o", out, path})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Contains(t, buf.String(), "Report written to")
}
