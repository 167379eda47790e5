package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAnalyzeBatch_SubdirPerFileWithCollisionSuffix(t *testing.T) {
	home := isolate(t)

	// Two files with the same basename in different directories
	d1 := filepath.Join(home, "d1")
	d2 := filepath.Join(home, "d2")
	if err := os.MkdirAll(d1, 0o755); err != nil {
		t.Fatalf("mkdir d1: %v", err)
	}
	if err := os.MkdirAll(d2, 0o755); err != nil {
		t.Fatalf("mkdir d2: %v", err)
	}
	writeFixture(t, d1, "opioids.csv")
	writeFixture(t, d2, "opioids.csv")

	outDir := filepath.Join(home, "out")
	out := runCmd(t, "analyze-batch", filepath.Join(home, "d*", "opioids.csv"), "-o", outDir, "--xlsx")
	if !strings.Contains(out, "[1/2] Processing opioids.csv...") || !strings.Contains(out, "[2/2]") {
		t.Fatalf("missing progress lines:\n%s", out)
	}

	for _, sub := range []string{"opioids", "opioids__2"} {
		dir := filepath.Join(outDir, sub)
		for _, name := range []string{"report.md", "views.xlsx", "correlation_heatmap.png", "state_rates.png", "national_trend.png"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
				t.Fatalf("missing %s in %s: %v", name, sub, err)
			}
		}
	}
}

func TestAnalyzeBatch_QuietAndNoMatches(t *testing.T) {
	home := isolate(t)
	data := writeFixture(t, home, "opioids.csv")

	out := runCmd(t, "analyze-batch", data, "-o", filepath.Join(home, "out"), "--quiet", "--no-charts")
	if strings.TrimSpace(out) != "" {
		t.Fatalf("expected no output with --quiet, got:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(home, "out", "opioids", "report.md")); err != nil {
		t.Fatalf("missing report: %v", err)
	}

	if _, err := execCmd("analyze-batch", filepath.Join(home, "*.tsv")); err == nil {
		t.Fatalf("expected error when nothing matches")
	}
}
