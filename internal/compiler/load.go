package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/shaderwalk/internal/ir"
)

// LoadModule compiles the module at path.
//
// A .cue file is compiled on its own. A directory is loaded as a CUE
// package, so a module may be split across several files that unify.
func LoadModule(path string) (*ir.Module, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", path, err)
	}

	if !info.IsDir() {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", path, err)
		}
		return CompileString(string(src), path)
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: path})
	if len(instances) == 0 {
		return nil, fmt.Errorf("module %s: no CUE instances loaded", path)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(inst.Err)
	}
	return CompileModule(cuecontext.New().BuildInstance(inst))
}
