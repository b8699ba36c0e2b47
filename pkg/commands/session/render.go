package session

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/smartcontractkit/chainlink-user-manager/internal/config"
)

// Render writes v to w in the given output format.
func Render(w io.Writer, format string, v any) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)

	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}

		return enc.Close()

	case config.FormatTOML:
		return toml.NewEncoder(w).Encode(v)

	default:
		return fmt.Errorf("%w: %q", config.ErrUnknownFormat, format)
	}
}
