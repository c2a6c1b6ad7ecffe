package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/logwindow/pkg/detector"
	"github.com/ccollicutt/logwindow/pkg/timestamp"
)

func carmenMatch(t *testing.T) *detector.FormatMatch {
	t.Helper()
	first, ok := timestamp.Encode(52, 22, 0, 30, 12, 2022)
	if !ok {
		t.Fatal("Encode failed")
	}
	last, ok := timestamp.Encode(0, 0, 0, 31, 12, 2022)
	if !ok {
		t.Fatal("Encode failed")
	}
	return &detector.FormatMatch{
		Format:     timestamp.Carmen,
		Confidence: 0.95,
		MatchCount: 95,
		SampleLine: "30.12.22 00:22:52 M     0 FILE tfcrpc.cpp:615 ServiceCall",
		First:      first,
		Last:       last,
	}
}

func TestGenerateStarterConfig(t *testing.T) {
	config := generateStarterConfig("/var/log/test.log", carmenMatch(t))

	checks := []string{
		"inputs:",
		"/var/log/test.log",
		"# start: \"30.12.2022 00:22:52\"",
		"# end: \"31.12.2022 00:00:00\"",
		"Detected format: carmen",
		"95%",
	}

	for _, check := range checks {
		if !strings.Contains(config, check) {
			t.Errorf("Config missing %q", check)
		}
	}
}

func TestWriteStarterConfig_Success(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	result := &detector.DetectionResult{
		Matches:      []detector.FormatMatch{*carmenMatch(t)},
		SampledLines: 100,
		ParsedLines:  95,
	}

	var out bytes.Buffer
	if err := writeStarterConfig(&out, result, "/var/log/app.log", configPath); err != nil {
		t.Fatalf("writeStarterConfig failed: %v", err)
	}
	if !strings.Contains(out.String(), "Wrote starter config") {
		t.Errorf("Output = %q", out.String())
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}
	if !strings.Contains(string(content), "/var/log/app.log") {
		t.Error("Config missing input path")
	}
}

func TestWriteStarterConfig_IsLoadable(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "logwindow.yaml")
	result := &detector.DetectionResult{Matches: []detector.FormatMatch{*carmenMatch(t)}}

	var out bytes.Buffer
	if err := writeStarterConfig(&out, result, "/var/log/app.log", configPath); err != nil {
		t.Fatalf("writeStarterConfig failed: %v", err)
	}

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{configPath})
	cmd.SetOut(&out)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Errorf("Generated config does not validate: %v", err)
	}
}

func TestWriteStarterConfig_NoOverwrite(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "existing.yaml")

	if err := os.WriteFile(configPath, []byte("existing content"), 0644); err != nil {
		t.Fatalf("Failed to create existing file: %v", err)
	}

	result := &detector.DetectionResult{Matches: []detector.FormatMatch{*carmenMatch(t)}}

	var out bytes.Buffer
	err := writeStarterConfig(&out, result, "/var/log/app.log", configPath)
	if err == nil {
		t.Fatal("Expected error when file exists, got nil")
	}
	if !strings.Contains(err.Error(), "will not overwrite") {
		t.Errorf("Expected 'will not overwrite' error, got: %v", err)
	}

	content, _ := os.ReadFile(configPath)
	if string(content) != "existing content" {
		t.Error("Existing file was modified")
	}
}

func TestWriteStarterConfig_NoMatch(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "test.yaml")

	result := &detector.DetectionResult{
		Matches:      []detector.FormatMatch{},
		SampledLines: 100,
	}

	var out bytes.Buffer
	err := writeStarterConfig(&out, result, "/var/log/app.log", configPath)
	if err == nil {
		t.Fatal("Expected error when no format detected, got nil")
	}
	if !strings.Contains(err.Error(), "no timestamp format detected") {
		t.Errorf("Expected 'no timestamp format detected' error, got: %v", err)
	}
}

func TestDetectOptions_Defaults(t *testing.T) {
	cmd := NewDetectCommand()

	output, _ := cmd.Flags().GetString("output")
	if output != "text" {
		t.Errorf("Expected default output 'text', got %q", output)
	}

	sample, _ := cmd.Flags().GetInt("sample")
	if sample != detector.DefaultSampleSize {
		t.Errorf("Expected default sample %d, got %d", detector.DefaultSampleSize, sample)
	}

	writeConfig, _ := cmd.Flags().GetString("write-config")
	if writeConfig != "" {
		t.Errorf("Expected default write-config '', got %q", writeConfig)
	}
}

func TestRunDetect_Text(t *testing.T) {
	logFile := filepath.Join("..", "..", "..", "testdata", "logs", "carmen.log")

	cmd := NewDetectCommand()
	cmd.SetArgs([]string{"--century", "2000", logFile})
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(out.String(), "Detected Format: carmen") {
		t.Errorf("Output missing detected format:\n%s", out.String())
	}
	if strings.Contains(out.String(), "WARNING") {
		t.Errorf("Unexpected warning:\n%s", out.String())
	}
}

func TestRunDetect_JSON(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "mixed.log")
	content := "2023-01-26 09:32:28 a\n2023-01-26 09:32:27 b\n20230729111238;edeyl6;;TfcWebserviceProvider\n"
	if err := os.WriteFile(logFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := NewDetectCommand()
	cmd.SetArgs([]string{"-o", "json", "--all", logFile})
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	var got JSONOutput
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	if len(got.Matches) != 2 {
		t.Fatalf("Matches = %d, want 2", len(got.Matches))
	}
	if got.Matches[0].Format != "yoda" || got.Matches[0].First != "2023-01-26 09:32:28" {
		t.Errorf("Matches[0] = %+v", got.Matches[0])
	}
	if got.Chronological {
		t.Error("Chronological = true, want false")
	}
}

func TestRunDetect_UnknownOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "a.log")
	if err := os.WriteFile(logFile, []byte("2023-01-26 09:32:28 a\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := NewDetectCommand()
	cmd.SetArgs([]string{"-o", "xml", logFile})
	cmd.SetOut(&bytes.Buffer{})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("Expected error for unknown output format")
	}
}

func TestRunDetect_MissingFile(t *testing.T) {
	cmd := NewDetectCommand()
	cmd.SetArgs([]string{"/nonexistent/app.log"})
	cmd.SetOut(&bytes.Buffer{})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestRunDetect_NoMatch(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "plain.log")
	if err := os.WriteFile(logFile, []byte("nothing that looks like a timestamp here\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := NewDetectCommand()
	cmd.SetArgs([]string{logFile})
	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(out.String(), "No timestamp format detected") {
		t.Errorf("Output = %s", out.String())
	}
}
