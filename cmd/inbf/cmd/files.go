package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andreyvit/inbf"
)

// formatFor picks the explicit format if given, otherwise guesses from the
// file extension.
func formatFor(path string, explicit string) (inbf.Format, error) {
	if explicit != "" {
		return inbf.ParseFormat(explicit)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return inbf.JSON, nil
	case ".msgpack", ".mp":
		return inbf.MsgPack, nil
	default:
		return inbf.Native, nil
	}
}

func readDoc(a *inbf.Arena, path string, format string) (inbf.Handle, error) {
	f, err := formatFor(path, format)
	if err != nil {
		return inbf.Handle{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return inbf.Handle{}, err
	}
	h, err := a.Unmarshal(data, f)
	if err != nil {
		return inbf.Handle{}, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

func writeDoc(a *inbf.Arena, h inbf.Handle, path string, format string) error {
	f, err := formatFor(path, format)
	if err != nil {
		return err
	}
	data, err := a.Marshal(h, f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
