package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot is the serialized form compared against golden files.
type TraceSnapshot struct {
	Scenario string    `json:"scenario"`
	Ops      []traceOp `json:"ops"`
}

// traceOp mirrors kernel.Op for serialization. Args maps marshal with
// sorted keys, so the JSON form is deterministic.
type traceOp struct {
	Seq  int64          `json:"seq"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
	Tag  int            `json:"tag,omitempty"`
}

// RunWithGolden executes a scenario and compares the full kernel-op trace
// against testdata/golden/{scenario.Name}.golden.
//
// Regenerate fixtures with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}

	snapshot := TraceSnapshot{Scenario: scenario.Name}
	for _, op := range result.Ops {
		snapshot.Ops = append(snapshot.Ops, traceOp{Seq: op.Seq, Name: op.Name, Args: op.Args, Tag: op.Tag})
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return nil
}
