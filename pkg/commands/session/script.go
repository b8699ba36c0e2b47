package session

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// ScriptVersion is the script format version written by this release.
const ScriptVersion = "1.0.0"

// supportedScriptVersions is the range of script format versions this release can execute.
var supportedScriptVersions = mustConstraint("^1.0.0")

var (
	ErrUnknownOp          = errors.New("unknown operation")
	ErrUnsupportedVersion = errors.New("unsupported script version")
)

// Op names a user store operation.
type Op string

const (
	OpAdd    Op = "add"
	OpFind   Op = "find"
	OpDelete Op = "delete"
	OpList   Op = "list"
)

// Step is a single operation in a Script. Only the fields relevant to Op are read.
type Step struct {
	Op    Op     `yaml:"op"`
	Name  string `yaml:"name,omitempty"`
	Email string `yaml:"email,omitempty"`
	ID    int64  `yaml:"id,omitempty"`
}

// Validate returns ErrUnknownOp if the step does not name a known operation.
func (s Step) Validate() error {
	switch s.Op {
	case OpAdd, OpFind, OpDelete, OpList:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, s.Op)
	}
}

// Script is an ordered list of steps executed against one fresh user store.
//
//	version: 1.0.0
//	steps:
//	  - op: add
//	    name: John Doe
//	    email: john@example.com
//	  - op: find
//	    id: 1
//	  - op: list
type Script struct {
	Version string `yaml:"version"`
	Steps   []Step `yaml:"steps"`
}

// Validate checks the script version and every step.
func (s *Script) Validate() error {
	version := s.Version
	if version == "" {
		version = ScriptVersion
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedVersion, s.Version, err)
	}
	if !supportedScriptVersions.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedVersion, v, supportedScriptVersions)
	}

	for i, step := range s.Steps {
		if err = step.Validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	return nil
}

// ParseScript decodes and validates a YAML script. Unknown fields are rejected.
func ParseScript(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	script := &Script{}
	if err := dec.Decode(script); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("script is empty")
		}

		return nil, fmt.Errorf("failed to decode script: %w", err)
	}

	if err := script.Validate(); err != nil {
		return nil, err
	}

	return script, nil
}

// LoadScript reads a script from the file at path.
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	return ParseScript(f)
}

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}

	return constraint
}
