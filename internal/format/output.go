package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// Write renders v to w in the requested output format. Only "json" is
// supported; an empty format selects it.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON marshals v and writes it followed by a newline. Command output
// stays machine-readable JSON; anything human-oriented belongs in the TUI.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}
