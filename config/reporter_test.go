package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newReport(t *testing.T) *Report {
	t.Helper()
	conf := ReporterConfig{Destination: filepath.Join(t.TempDir(), "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	return r
}

func archived(t *testing.T, name string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()

	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		out[f.Name] = string(data)
	}
	return out
}

func TestReport_Archive(t *testing.T) {
	r := newReport(t)

	src := t.TempDir()
	if err := os.MkdirAll(filepath.Join(src, "general"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "general", "pages.json"), []byte(`{"index":{}}`), 0644); err != nil {
		t.Fatal(err)
	}
	style := filepath.Join(t.TempDir(), "style.css")
	if err := os.WriteFile(style, []byte("body {}"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := r.StoreCopy("source", src); err != nil {
		t.Fatalf("StoreCopy(dir) error: %v", err)
	}
	if err := r.StoreCopy("style.css", style); err != nil {
		t.Fatalf("StoreCopy(file) error: %v", err)
	}
	// file changes after snapshot must not leak into report
	if err := os.WriteFile(style, []byte("changed"), 0644); err != nil {
		t.Fatal(err)
	}
	r.StoreData("config.yaml", []byte("version: 1\n"))
	r.Store("missing.log", filepath.Join(t.TempDir(), "absent.log"))

	temps := append([]string(nil), r.temps...)
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	files := archived(t, r.Name())
	want := map[string]string{
		"source/general/pages.json": `{"index":{}}`,
		"style.css":                 "body {}",
		"config.yaml":               "version: 1\n",
	}
	for name, content := range want {
		if got, ok := files[name]; !ok || got != content {
			t.Errorf("%s = %q (present %v), want %q", name, got, ok, content)
		}
	}
	if _, ok := files["missing.log"]; ok {
		t.Error("absent file archived")
	}
	if m := files["MANIFEST"]; !strings.Contains(m, "config.yaml") || !strings.Contains(m, "source") {
		t.Errorf("MANIFEST = %q", m)
	}

	if len(temps) != 2 {
		t.Fatalf("snapshots = %d, want 2", len(temps))
	}
	for _, dir := range temps {
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			os.RemoveAll(dir)
			t.Errorf("snapshot %s was not removed", dir)
		}
	}
	// stored originals stay
	if _, err := os.Stat(src); err != nil {
		t.Errorf("stored directory removed: %v", err)
	}
}

func TestReport_StoreCopyVersionsNames(t *testing.T) {
	r := newReport(t)
	defer r.Close()

	f := filepath.Join(t.TempDir(), "style.css")
	if err := os.WriteFile(f, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	for range 2 {
		if err := r.StoreCopy("style.css", f); err != nil {
			t.Fatal(err)
		}
	}
	if len(r.entries) != 2 {
		t.Errorf("entries = %d, want 2", len(r.entries))
	}
	if err := r.StoreCopy("absent", filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for absent path")
	}
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	// nil report ignores everything
	r.Store("a", "b")
	r.StoreData("a", nil)
	if err := r.StoreCopy("a", "b"); err != nil {
		t.Errorf("StoreCopy on nil report: %v", err)
	}
	if r.Name() != "" {
		t.Error("nil report has name")
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
