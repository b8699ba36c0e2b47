package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScript = `
version: 1.0.0
steps:
  - op: add
    name: John Doe
    email: john@example.com
  - op: find
    id: 1
  - op: delete
    id: 999
  - op: list
`

func TestParseScript(t *testing.T) {
	t.Parallel()

	script, err := ParseScript(strings.NewReader(testScript))
	require.NoError(t, err)

	assert.Equal(t, &Script{
		Version: "1.0.0",
		Steps: []Step{
			{Op: OpAdd, Name: "John Doe", Email: "john@example.com"},
			{Op: OpFind, ID: 1},
			{Op: OpDelete, ID: 999},
			{Op: OpList},
		},
	}, script)
}

func TestParseScript_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		give      string
		wantErr   string
		wantErrIs error
	}{
		{
			name:    "empty",
			give:    "",
			wantErr: "script is empty",
		},
		{
			name:    "unknown field",
			give:    "version: 1.0.0\nsteps:\n  - op: add\n    phone: 123\n",
			wantErr: "failed to decode script",
		},
		{
			name:      "unknown op",
			give:      "steps:\n  - op: list\n  - op: update\n    id: 1\n",
			wantErr:   `step 2: unknown operation: "update"`,
			wantErrIs: ErrUnknownOp,
		},
		{
			name:      "major version too new",
			give:      "version: 2.0.0\nsteps: []\n",
			wantErr:   "2.0.0 does not satisfy",
			wantErrIs: ErrUnsupportedVersion,
		},
		{
			name:      "not a version",
			give:      "version: latest\nsteps: []\n",
			wantErrIs: ErrUnsupportedVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseScript(strings.NewReader(tt.give))
			require.Error(t, err)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
			}
			if tt.wantErrIs != nil {
				require.ErrorIs(t, err, tt.wantErrIs)
			}
		})
	}
}

func TestScript_Validate_Versions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		version string
		wantErr bool
	}{
		{version: "", wantErr: false},
		{version: "1.0.0", wantErr: false},
		{version: "1.4.2", wantErr: false},
		{version: "0.9.0", wantErr: true},
		{version: "2.0.0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("version "+tt.version, func(t *testing.T) {
			t.Parallel()

			err := (&Script{Version: tt.version}).Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedVersion)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoadScript(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testScript), 0o600))

	script, err := LoadScript(path)
	require.NoError(t, err)
	assert.Len(t, script.Steps, 4)

	_, err = LoadScript(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "failed to open script")
}
