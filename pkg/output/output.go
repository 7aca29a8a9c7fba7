package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bitia-ru/k8s-last-replica-pv/pkg/types"

	"sigs.k8s.io/yaml"
)

// Format selects how a resolved volume is printed.
type Format string

const (
	// Name prints the bare PersistentVolume name.
	Name Format = "name"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat validates a user-supplied format. Empty selects Name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return Name, nil
	case Name, JSON, YAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want name, json or yaml)", s)
	}
}

// Write renders a resolution with a bound volume.
func Write(w io.Writer, format Format, res *types.Resolution) error {
	switch format {
	case Name, "":
		_, err := fmt.Fprintln(w, res.VolumeName)
		return err
	case JSON:
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case YAML:
		data, err := yaml.Marshal(res)
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
