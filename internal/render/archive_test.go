package render

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const pkgInfo = "Metadata-Version: 1.1\nName: oslo.config\nVersion: 4.3.0\n\nThe description follows.\nVersion: bogus\n"

func writeTarball(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	tw := tar.NewWriter(gz)
	contents := []byte(pkgInfo)
	if err := tw.WriteHeader(&tar.Header{
		Name: "oslo.config-4.3.0/PKG-INFO",
		Mode: 0644,
		Size: int64(len(contents)),
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write(contents); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeZip(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	zw := zip.NewWriter(file)
	w, err := zw.Create("oslo.config-4.3.0/PKG-INFO")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(pkgInfo)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDetectVersion_Tarball(t *testing.T) {
	dir := t.TempDir()
	writeTarball(t, dir, "oslo.config-4.3.0.tar.gz")

	got, err := detectVersion([]string{dir}, "oslo.config")
	if err != nil {
		t.Fatalf("detectVersion() error = %v", err)
	}
	if got != "4.3.0" {
		t.Errorf("detectVersion() = %q, want 4.3.0", got)
	}
}

func TestDetectVersion_Zip(t *testing.T) {
	dir := t.TempDir()
	writeZip(t, dir, "oslo.config-4.3.0.zip")

	got, err := detectVersion([]string{dir}, "oslo.config")
	if err != nil {
		t.Fatalf("detectVersion() error = %v", err)
	}
	if got != "4.3.0" {
		t.Errorf("detectVersion() = %q, want 4.3.0", got)
	}
}

func TestDetectVersion_NotFound(t *testing.T) {
	dir := t.TempDir()
	// an archive for an unrelated package must not match
	writeTarball(t, dir, "otherpkg-1.0.tar.gz")

	_, err := detectVersion([]string{dir, ""}, "oslo.config")
	if !errors.Is(err, ErrVersionNotDetected) {
		t.Errorf("detectVersion() error = %v, want ErrVersionNotDetected", err)
	}
}

func TestDetectVersion_SearchOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeTarball(t, second, "oslo.config-4.3.0.tar.gz")

	// first directory has no archive, the second one wins
	got, err := detectVersion([]string{first, second}, "oslo.config")
	if err != nil {
		t.Fatalf("detectVersion() error = %v", err)
	}
	if got != "4.3.0" {
		t.Errorf("detectVersion() = %q, want 4.3.0", got)
	}
}

// zero-argument upstream_version autodetects from archives next to the
// template
func TestUpstreamVersion_Autodetect(t *testing.T) {
	dir := t.TempDir()
	writeTarball(t, dir, "oslo.config-4.3.0.tar.gz")

	c := testContext("suse", nil, nil)
	c.TemplateDir = dir
	if _, err := c.py2name(val("oslo.config")); err != nil {
		t.Fatal(err)
	}

	got, err := c.resolveUpstreamVersion()
	if err != nil {
		t.Fatalf("resolveUpstreamVersion() error = %v", err)
	}
	if got != "4.3.0" {
		t.Errorf("resolveUpstreamVersion() = %q, want 4.3.0", got)
	}
}

func TestUpstreamVersion_AutodetectNeedsName(t *testing.T) {
	c := testContext("suse", nil, nil)
	if _, err := c.resolveUpstreamVersion(); !errors.Is(err, ErrMissingContextState) {
		t.Errorf("resolveUpstreamVersion() error = %v, want ErrMissingContextState", err)
	}
}
