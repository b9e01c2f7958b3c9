package runner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CosmoTheDev/bridgectl/internal/config"
)

func TestEvaluateSuccess(t *testing.T) {
	r := New(&config.Config{})
	if err := r.evaluate(0); err != nil {
		t.Fatalf("exit 0 must pass, got %v", err)
	}
}

func TestEvaluatePolicyBreakFailsByDefault(t *testing.T) {
	r := New(&config.Config{})
	err := r.evaluate(8)
	if err == nil || !strings.Contains(err.Error(), "bridge.break") {
		t.Fatalf("policy break must fail without mark_build_status, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "Workflow failed!") {
		t.Errorf("error = %q", err)
	}
}

func TestEvaluatePolicyBreakMarkedSuccess(t *testing.T) {
	r := New(&config.Config{MarkBuildStatus: "success"})
	if err := r.evaluate(8); err != nil {
		t.Fatalf("policy break must pass when marked success, got %v", err)
	}
}

func TestEvaluateMarkBuildStatusOnlySoftensPolicyBreak(t *testing.T) {
	r := New(&config.Config{MarkBuildStatus: "success"})
	if err := r.evaluate(2); err == nil {
		t.Fatal("mark_build_status must not soften adapter errors")
	}
}

func TestSetOutputAppends(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "output")
	t.Setenv("GITHUB_OUTPUT", outputFile)

	r := New(&config.Config{})
	r.setOutput("status", "8")
	r.setOutput("status", "0")

	raw, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "status=8\nstatus=0\n" {
		t.Errorf("output file = %q", raw)
	}
}

func TestSetOutputNoopWithoutOutputFile(t *testing.T) {
	t.Setenv("GITHUB_OUTPUT", "")
	New(&config.Config{}).setOutput("status", "0")
}
