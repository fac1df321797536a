package defs

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/semdoc/internal/registry"
)

// LoadDir loads every token definition declared under the "token"
// namespace of the CUE files in dir. Definitions are returned in CUE
// field order; registering them is the caller's business (typically via
// Registry.Register so duplicates against the builtins fail fast).
func LoadDir(dir string) ([]registry.TokenDefinition, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("definitions directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("definitions path is not a directory: %s", dir)
	}

	cueFiles, err := findCUEFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	if len(cueFiles) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	return extractDefinitions(value)
}

// LoadString compiles definitions from CUE source text. Used by tests and
// by callers that embed their definitions.
func LoadString(src string) ([]registry.TokenDefinition, error) {
	value := cuecontext.New().CompileString(src)
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return extractDefinitions(value)
}

func extractDefinitions(value cue.Value) ([]registry.TokenDefinition, error) {
	tokensVal := value.LookupPath(cue.ParsePath("token"))
	if !tokensVal.Exists() {
		return nil, fmt.Errorf("no token definitions found (expected a top-level \"token\" struct)")
	}

	iter, err := tokensVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var defs []registry.TokenDefinition
	for iter.Next() {
		def, err := CompileDefinition(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("token.%s: %w", iter.Label(), err)
		}
		defs = append(defs, *def)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("token struct declares no definitions")
	}
	return defs, nil
}

func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
