package main

import (
	"bytes"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vitalens/backend/internal/domain"
)

func TestRootHelp(t *testing.T) {
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--help"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute root help: %v", err)
	}
	for _, sub := range []string{"serve", "analyse", "suggest", "best"} {
		if !strings.Contains(buf.String(), sub) {
			t.Errorf("help output missing %q subcommand", sub)
		}
	}
}

func TestAnalyseRequiresInput(t *testing.T) {
	analyseAliment, analyseImageFile = "", ""
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"analyse"})

	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "--aliment") {
		t.Fatalf("expected missing input error, got %v", err)
	}
}

func TestSuggestRequiresName(t *testing.T) {
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"suggest"})

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected an argument error")
	}
}

func TestReadImageDataURI(t *testing.T) {
	dir := t.TempDir()

	// minimal PNG signature is enough for content sniffing
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	pngPath := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(pngPath, png, 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := readImageDataURI(pngPath)
	if err != nil {
		t.Fatalf("readImageDataURI() error = %v", err)
	}
	want := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	if got != want {
		t.Errorf("readImageDataURI() = %q, want %q", got, want)
	}

	textPath := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(textPath, []byte("basilic"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := readImageDataURI(textPath); !errors.Is(err, domain.ErrInvalidImage) {
		t.Errorf("text file error = %v, want ErrInvalidImage", err)
	}

	emptyPath := filepath.Join(dir, "empty.jpg")
	if err := os.WriteFile(emptyPath, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := readImageDataURI(emptyPath); !errors.Is(err, domain.ErrInvalidImage) {
		t.Errorf("empty file error = %v, want ErrInvalidImage", err)
	}

	if _, err := readImageDataURI(filepath.Join(dir, "missing.jpg")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestPrintJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := printJSON(buf, domain.LookupResult{Aliment: "basilic", VitaminK: "415 µg (officiel CIQUAL)"}); err != nil {
		t.Fatalf("printJSON() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"vitamineK": "415 µg (officiel CIQUAL)"`) {
		t.Errorf("printJSON() output = %s", out)
	}
	if !strings.Contains(out, `"source": null`) {
		t.Errorf("printJSON() should keep a null source, got %s", out)
	}
}
