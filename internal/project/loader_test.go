package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tchevalier/mpm/internal/schedule"
)

func writePlan(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writePlan(t, "maison.yaml", `
name: Chantier maison
tasks:
  - name: terrassement
    duration: 3
  - name: fondations
    duration: 2
    predecessors: [terrassement]
`)

	plan, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Chantier maison", plan.Name)
	require.Len(t, plan.Tasks, 2)
	assert.Equal(t, schedule.Task{Name: "terrassement", Duration: 3}, plan.Tasks[0])
	assert.Equal(t, []string{"terrassement"}, plan.Tasks[1].Predecessors)
}

func TestLoad_JSON(t *testing.T) {
	path := writePlan(t, "plan.json", `{
  "name": "Sprint",
  "tasks": [
    {"name": "A", "duration": 1.5},
    {"name": "B", "duration": 2, "predecessors": ["A"]}
  ]
}`)

	plan, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Sprint", plan.Name)
	assert.Equal(t, 1.5, plan.Tasks[0].Duration)
}

func TestLoad_UnknownExtension(t *testing.T) {
	path := writePlan(t, "plan.toml", "tasks = []")

	_, err := Load(path)
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeFormat, le.Code)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeNotFound, le.Code)
}

func TestDecode_SchemaRejectsWrongShape(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"duration as string", `tasks: [{name: A, duration: trois}]`},
		{"missing duration", `tasks: [{name: A}]`},
		{"missing name", `tasks: [{duration: 3}]`},
		{"predecessors not a list", `tasks: [{name: A, duration: 3, predecessors: B}]`},
		{"tasks not a list", `tasks: {name: A}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.doc), FormatYAML)
			require.Error(t, err)

			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, ErrCodeSchema, le.Code)
		})
	}
}

func TestDecode_InvalidYAML(t *testing.T) {
	_, err := Decode([]byte("tasks: [unclosed"), FormatYAML)
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeDecode, le.Code)
}

func TestDecode_NegativeDurationPassesSchema(t *testing.T) {
	// Semantic validation is the engine's job; the loader only checks shape.
	plan, err := Decode([]byte(`tasks: [{name: A, duration: -1}]`), FormatYAML)
	require.NoError(t, err)

	_, err = schedule.Compute(plan.Tasks)
	assert.True(t, schedule.IsInvalidDurationError(err))
}

func TestSanitizeTasks_TrimsAndNormalizes(t *testing.T) {
	// "é" is é in decomposed form; NFC folds it to the composed rune
	// so predecessor resolution sees a single spelling.
	tasks, err := SanitizeTasks([]schedule.Task{
		{Name: "  béton  ", Duration: 2},
		{Name: "mur", Duration: 1, Predecessors: []string{" béton "}},
	})
	require.NoError(t, err)

	assert.Equal(t, "béton", tasks[0].Name)
	assert.Equal(t, []string{"béton"}, tasks[1].Predecessors)

	_, err = schedule.Compute(tasks)
	assert.NoError(t, err)
}

func TestSanitizeTasks_EmptyName(t *testing.T) {
	_, err := SanitizeTasks([]schedule.Task{{Name: "   ", Duration: 1}})
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeSchema, le.Code)
	assert.Contains(t, le.Message, "#1")
}

func TestSanitizeTasks_DoesNotMutateInput(t *testing.T) {
	in := []schedule.Task{{Name: " A ", Duration: 1}}
	_, err := SanitizeTasks(in)
	require.NoError(t, err)
	assert.Equal(t, " A ", in[0].Name)
}
