package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tessellate-dev/planemesh/internal/compiler"
	"github.com/tessellate-dev/planemesh/internal/kernel"
	"github.com/tessellate-dev/planemesh/internal/session"
)

// runBuild compiles the model directory and realizes it in a full session
// against a recording Null kernel. The returned trace covers session open
// through close.
func runBuild(modelDir, exportPath string) (*compiler.Model, []kernel.Op, error) {
	model, err := compiler.LoadDir(modelDir)
	if err != nil {
		return nil, nil, err
	}

	rec := kernel.NewRecorder(kernel.NewNull())
	sess, err := session.Start(rec)
	if err != nil {
		return nil, nil, err
	}

	_, genErr := sess.Generate(model.Roots...)
	if genErr == nil && exportPath != "" {
		genErr = sess.Write(exportPath)
	}
	closeErr := sess.Close()

	if genErr != nil {
		return model, rec.Trace(), fmt.Errorf("generate %q: %w", model.Name, genErr)
	}
	if closeErr != nil {
		return model, rec.Trace(), closeErr
	}
	return model, rec.Trace(), nil
}

// renderOps writes an op trace as text lines or a JSON array.
func renderOps(w io.Writer, ops []kernel.Op, format string) error {
	if format == "json" {
		data, err := json.MarshalIndent(ops, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil
	}
	for _, op := range ops {
		fmt.Fprintln(w, op)
	}
	return nil
}
