package cli

import (
	"fmt"
	"os"

	"github.com/roach88/semdoc/internal/defs"
	"github.com/roach88/semdoc/internal/registry"
)

// buildRegistry returns the builtin registry, extended with CUE
// definitions from defsDir when one is given.
func buildRegistry(defsDir string) (*registry.Registry, error) {
	reg := registry.Builtin()
	if defsDir == "" {
		return reg, nil
	}
	extra, err := defs.LoadDir(defsDir)
	if err != nil {
		return nil, fmt.Errorf("loading definitions from %s: %w", defsDir, err)
	}
	for _, def := range extra {
		if err := reg.Register(def); err != nil {
			return nil, fmt.Errorf("registering %s: %w", def.Name, err)
		}
	}
	return reg, nil
}

// readDocument reads a document file as a string.
func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
