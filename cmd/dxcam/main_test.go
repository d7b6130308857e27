package main

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ninjatall12/DXcam/internal/config"
)

func TestSynthThenProcess(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	rootCmd.SetArgs([]string{"synth", "dumps", "--width", "10", "--height", "6", "--rotation", "270", "--pad", "2", "--name", "f"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("synth: %v", err)
	}
	dump := filepath.Join("dumps", "f.yaml")

	rootCmd.SetArgs([]string{"plan", dump, "--region", "1,1,9,5"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("plan: %v", err)
	}

	rootCmd.SetArgs([]string{"process", dump, "--color", "gray", "--region", "1,1,9,5", "--out", "png", "--workers", "1"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("process: %v", err)
	}
	if _, err := os.Stat(filepath.Join("png", "f.png")); err != nil {
		t.Fatalf("expected PNG output: %v", err)
	}

	rootCmd.SetArgs([]string{"process", dump, "--region", "0,0,11,6", "--out", "png"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("out-of-bounds region should fail the command")
	}
}

func TestLoadConfigClampsOverrides(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := loadConfig(func(c *config.Config) {
		c.Workers = 100000
		c.OutputDir = "  "
	})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if limit := runtime.NumCPU() * 4; cfg.Workers != limit {
		t.Fatalf("Workers = %d, want clamped to %d", cfg.Workers, limit)
	}
	if cfg.OutputDir != "out" {
		t.Fatalf("OutputDir = %q, want \"out\"", cfg.OutputDir)
	}
}
