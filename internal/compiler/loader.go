package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// LoadDir loads every .cue file in dir (non-recursive), builds them as one
// CUE instance, and compiles the resulting model.
func LoadDir(dir string) (*Model, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &CompileError{Field: "load", Message: fmt.Sprintf("model directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &CompileError{Field: "load", Message: fmt.Sprintf("access model directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &CompileError{Field: "load", Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	files, err := findCUEFiles(dir)
	if err != nil {
		return nil, &CompileError{Field: "load", Message: fmt.Sprintf("scan model directory: %v", err)}
	}
	if len(files) == 0 {
		return nil, &CompileError{Field: "load", Message: fmt.Sprintf("no CUE files in %s", dir)}
	}

	instances := load.Instances(files, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &CompileError{Field: "load", Message: "no CUE instances built"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &CompileError{Field: "load", Message: inst.Err.Error()}
	}

	v := cuecontext.New().BuildInstance(inst)
	if err := v.Err(); err != nil {
		return nil, &CompileError{Field: "load", Message: err.Error()}
	}
	return Compile(v)
}

// LoadFile loads a single model file.
func LoadFile(path string) (*Model, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &CompileError{Field: "load", Message: fmt.Sprintf("read %s: %v", path, err)}
	}
	return LoadSource(path, string(src))
}

// LoadSource compiles a model from an in-memory CUE source. filename is
// used for error positions only.
func LoadSource(filename, src string) (*Model, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename(filename))
	return Compile(v)
}

// findCUEFiles returns the sorted .cue file names directly under dir.
// Sorting keeps multi-file models loading in a stable order.
func findCUEFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) == ".cue" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
