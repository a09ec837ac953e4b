package project

import (
	"encoding/json"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Format selects the plan file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Error code constants for plan loading.
const (
	ErrCodeGeneric  = "E001" // Generic/unknown error
	ErrCodeRead     = "E002" // File read error
	ErrCodeFormat   = "E003" // Unknown file extension
	ErrCodeDecode   = "E004" // YAML/JSON decode failure
	ErrCodeNotFound = "E005" // Path not found
	ErrCodeSchema   = "E006" // Schema validation failure
)

// LoadError represents an error that occurred while loading a plan file.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads and decodes a plan file, picking the format from the file
// extension (.yaml/.yml or .json).
func Load(path string) (*Plan, error) {
	format, err := formatForPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("plan file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeRead, Message: fmt.Sprintf("reading plan file: %v", err)}
	}

	return Decode(data, format)
}

// Decode parses plan data, validates it against the embedded CUE schema and
// sanitizes every task name.
func Decode(data []byte, format Format) (*Plan, error) {
	// First decode into a generic value so CUE can check the shape before
	// any typed unmarshaling fills in zero values silently.
	var raw any
	if err := unmarshal(data, format, &raw); err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Message: fmt.Sprintf("decoding %s plan: %v", format, err)}
	}
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var plan Plan
	if err := unmarshal(data, format, &plan); err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Message: fmt.Sprintf("decoding %s plan: %v", format, err)}
	}

	tasks, err := SanitizeTasks(plan.Tasks)
	if err != nil {
		return nil, err
	}
	plan.Tasks = tasks
	plan.Name = cleanName(plan.Name)

	return &plan, nil
}

func unmarshal(data []byte, format Format, v any) error {
	switch format {
	case FormatJSON:
		return json.Unmarshal(data, v)
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func formatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", &LoadError{
			Code:    ErrCodeFormat,
			Message: fmt.Sprintf("unknown plan file extension %q (want .yaml, .yml or .json)", filepath.Ext(path)),
		}
	}
}

// validateSchema unifies the decoded document with the embedded schema.
// Only structural problems are reported here; semantic validation (cycles,
// durations, references) belongs to the engine.
func validateSchema(raw any) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("compiling plan schema: %v", err)}
	}

	value := ctx.Encode(raw)
	if err := value.Err(); err != nil {
		return &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("encoding plan document: %v", err)}
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("plan does not match schema: %v", err)}
	}
	return nil
}
