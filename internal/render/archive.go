package render

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ErrVersionNotDetected is returned when no source archive yields an
// upstream version.
var ErrVersionNotDetected = errors.New("upstream version not detected")

var archiveSuffixes = []string{".tar.gz", ".tgz", ".tar.bz2", ".zip"}

// detectVersion searches the given directories (in order) for source
// archives of the named package and returns the version from the first
// archive that carries package metadata. Within each search the newest
// archives are tried first.
func detectVersion(dirs []string, name string) (string, error) {
	archives := findArchives(dirs, name)
	for _, archive := range archives {
		version, err := versionFromArchive(archive)
		if err != nil {
			log.Debug("skipping unreadable archive", "archive", archive, "err", err)
			continue
		}
		if version != "" {
			return version, nil
		}
	}
	return "", fmt.Errorf("%w: no usable archive for %q in %s",
		ErrVersionNotDetected, name, strings.Join(nonEmpty(dirs), ", "))
}

// findArchives lists candidate archives for the package, newest first.
func findArchives(dirs []string, name string) []string {
	var found []string
	for _, dir := range nonEmpty(dirs) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasPrefix(e.Name(), name) {
				continue
			}
			for _, suffix := range archiveSuffixes {
				if strings.HasSuffix(e.Name(), suffix) {
					found = append(found, filepath.Join(dir, e.Name()))
					break
				}
			}
		}
	}
	sort.Slice(found, func(i, j int) bool {
		return modTime(found[i]).After(modTime(found[j]))
	})
	return found
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// versionFromArchive extracts the Version header of the package metadata
// file (PKG-INFO) inside a source archive. It returns "" when the archive
// has no such file.
func versionFromArchive(path string) (string, error) {
	if strings.HasSuffix(path, ".zip") {
		return versionFromZip(path)
	}
	return versionFromTarball(path)
}

func versionFromTarball(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening archive: %w", err)
	}
	defer file.Close()

	var reader io.Reader
	if strings.HasSuffix(path, ".tar.bz2") {
		reader = bzip2.NewReader(file)
	} else {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return "", fmt.Errorf("reading gzip: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	tr := tar.NewReader(reader)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("reading tar: %w", err)
		}
		if filepath.Base(hdr.Name) == "PKG-INFO" {
			return versionFromPkgInfo(tr)
		}
	}
	return "", nil
}

func versionFromZip(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("opening zip: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if filepath.Base(f.Name) != "PKG-INFO" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("reading zip entry: %w", err)
		}
		version, err := versionFromPkgInfo(rc)
		rc.Close()
		return version, err
	}
	return "", nil
}

// versionFromPkgInfo parses the RFC 822 style headers of a PKG-INFO file.
func versionFromPkgInfo(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			// end of headers, the description body follows
			break
		}
		if key, value, ok := strings.Cut(line, ":"); ok && strings.EqualFold(key, "Version") {
			return strings.TrimSpace(value), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading PKG-INFO: %w", err)
	}
	return "", nil
}

func nonEmpty(dirs []string) []string {
	var out []string
	for _, d := range dirs {
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}
