package main

import (
	"strings"
	"testing"

	"github.com/freakbeast14/SafeChat/internal/config"
)

func testRoot() *root {
	return &root{program: "safechat-avatar", config: config.New()}
}

func TestParseCropRequiresSource(t *testing.T) {
	_, err := parseCropCmd(nil, testRoot())
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "either -file or -from-clipboard"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseCropRejectsBothSources(t *testing.T) {
	_, err := parseCropCmd([]string{"-file", "a.png", "-from-clipboard"}, testRoot())
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "cannot be combined"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestCropSpecRejectsUnknownFormat(t *testing.T) {
	c := &cropCmd{root: testRoot(), format: "gif"}
	if _, err := c.spec(); err == nil {
		t.Fatalf("expected error for format gif")
	}
}

func TestCropSpecRejectsBadQuality(t *testing.T) {
	c := &cropCmd{root: testRoot(), quality: 150}
	if _, err := c.spec(); err == nil {
		t.Fatalf("expected error for quality 150")
	}
}

func TestCropSpecUsesConfigDefaults(t *testing.T) {
	r := testRoot()
	r.config.Avatar.Format = "webp"
	r.config.Avatar.Quality = 70
	c := &cropCmd{root: r}
	spec, err := c.spec()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Format.String() != "webp" {
		t.Errorf("expected webp, got %s", spec.Format)
	}
	if spec.Quality != 70 {
		t.Errorf("expected quality 70, got %d", spec.Quality)
	}
}

func TestParseExportRequiresFile(t *testing.T) {
	_, err := parseExportCmd(nil, testRoot())
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "-file is required"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestExportParseSizes(t *testing.T) {
	c := &exportCmd{root: testRoot(), sizes: "64, 128,256"}
	sizes, err := c.parseSizes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sizes) != 3 || sizes[0] != 64 || sizes[1] != 128 || sizes[2] != 256 {
		t.Fatalf("unexpected sizes: %v", sizes)
	}

	c.sizes = ""
	sizes, err = c.parseSizes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sizes) != 1 || sizes[0] != 256 {
		t.Fatalf("expected config default sizes, got %v", sizes)
	}

	c.sizes = "abc"
	if _, err := c.parseSizes(); err == nil {
		t.Fatalf("expected error for non-numeric size")
	}

	c.sizes = "0"
	if _, err := c.parseSizes(); err == nil {
		t.Fatalf("expected error for size 0")
	}
}

func TestExportOutputPathSizeSuffix(t *testing.T) {
	c := &exportCmd{root: testRoot(), output: "out/avatar.webp"}
	spec := c.root.config.Spec()

	if got := c.outputPath(spec, 256, false, nil); got != "out/avatar.webp" {
		t.Errorf("single size path: got %q", got)
	}
	if got := c.outputPath(spec, 128, true, nil); got != "out/avatar_128.webp" {
		t.Errorf("multi size path: got %q", got)
	}
}

func TestConfigRunRequiresSubcommand(t *testing.T) {
	cmd, err := parseConfigCmd(nil, testRoot())
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := cmd.Run(); err == nil {
		t.Fatalf("expected usage error")
	}
}
