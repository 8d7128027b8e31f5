package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"osrs_sim/internal/logger"
)

// captureStdout runs fn with os.Stdout redirected and returns what it printed.
func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	done := make(chan string)
	go func() {
		b, _ := io.ReadAll(r)
		done <- string(b)
	}()
	runErr := fn()
	w.Close()
	os.Stdout = orig
	_ = logger.Initialize(logger.DefaultConfig())
	out := <-done
	if runErr != nil {
		t.Fatal(runErr)
	}
	return out
}

func TestSimulateSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	out := captureStdout(t, func() error {
		return runSimulate([]string{"-config", "../../assets", "-strategy", "balanced", "-max-ticks", "300", "-record=false", "-out", path})
	})
	if !strings.HasPrefix(out, "Simulation finished. Final=") && !strings.Contains(out, "\nSimulation finished. Final=") {
		t.Errorf("summary = %q", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("outcome file: %v", err)
	}
}
