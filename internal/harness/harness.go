package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/tessellate-dev/planemesh/internal/compiler"
	"github.com/tessellate-dev/planemesh/internal/kernel"
	"github.com/tessellate-dev/planemesh/internal/session"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when the build succeeded and all assertions held.
	Pass bool

	// Ops is the complete recorded kernel-op trace, session open through
	// close.
	Ops []kernel.Op

	// Errors lists assertion failures. Empty when Pass is true.
	Errors []string
}

// Run executes a scenario: compile the model, realize it in a full
// session against a recording Null kernel, and evaluate the assertions
// over the recorded trace.
//
// A build error (structural defect, kernel rejection) fails the run; the
// partial trace up to the failure is still returned for debugging.
func Run(scenario *Scenario) (*Result, error) {
	model, err := loadModel(scenario)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	rec := kernel.NewRecorder(kernel.NewNull())
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	sess, err := session.Start(rec, session.WithLogger(quiet))
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	result := &Result{Pass: true}

	_, genErr := sess.Generate(model.Roots...)
	if genErr == nil && scenario.Export != "" {
		genErr = sess.Write(scenario.Export)
	}
	closeErr := sess.Close()

	result.Ops = rec.Trace()

	if genErr != nil {
		return result, fmt.Errorf("generate: %w", genErr)
	}
	if closeErr != nil {
		return result, fmt.Errorf("close session: %w", closeErr)
	}

	for _, assertion := range scenario.Assertions {
		if err := evaluate(result.Ops, assertion); err != nil {
			result.Pass = false
			result.Errors = append(result.Errors, err.Error())
		}
	}
	return result, nil
}

func loadModel(scenario *Scenario) (*compiler.Model, error) {
	if scenario.Model != "" {
		return compiler.LoadSource(scenario.Name+".cue", scenario.Model)
	}
	return compiler.LoadDir(scenario.modelPath())
}
