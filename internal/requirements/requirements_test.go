package requirements

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMerge_SingleFile(t *testing.T) {
	path := writeManifest(t, "g1.txt", `# global requirements
oslo.config>=4.3.0
paramiko>=1.16.0  # LGPL
pyasn1  # no version, skipped
`)

	table, err := Merge([]string{path})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	c, ok := table.Lookup("oslo.config")
	if !ok {
		t.Fatal("oslo.config not in table")
	}
	if c.Operator != ">=" || c.Version != "4.3.0" {
		t.Errorf("oslo.config = %+v, want >= 4.3.0", c)
	}

	if _, ok := table.Lookup("pyasn1"); ok {
		t.Error("bare name without version should not be in the table")
	}
}

func TestMerge_LastWins(t *testing.T) {
	f1 := writeManifest(t, "f1.txt", "paramiko>=1.17.0  # LGPL\nsphinx>=1.0\n")
	f2 := writeManifest(t, "f2.txt", "paramiko>=1.16.0  # LGPL\n")

	table, err := Merge([]string{f1, f2})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	c, ok := table.Lookup("paramiko")
	if !ok {
		t.Fatal("paramiko not in table")
	}
	// the later file's entry fully replaces the earlier one
	if c.Version != "1.16.0" {
		t.Errorf("paramiko version = %q, want 1.16.0", c.Version)
	}

	if _, ok := table.Lookup("sphinx"); !ok {
		t.Error("sphinx from the first file should survive the merge")
	}
}

func TestMerge_InvalidLine(t *testing.T) {
	path := writeManifest(t, "bad.txt", "ok>=1.0\n>>nonsense<<\n")

	_, err := Merge([]string{path})
	if !errors.Is(err, ErrInvalidRequirementLine) {
		t.Fatalf("Merge() error = %v, want ErrInvalidRequirementLine", err)
	}
	// the error must name file and line for a human to fix it
	if !strings.Contains(err.Error(), ":2") {
		t.Errorf("error %q does not name line 2", err)
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantName string
		want     Constraint
		wantOK   bool
	}{
		{
			name:     "simple lower bound",
			line:     "paramiko>=1.16.0",
			wantName: "paramiko",
			want:     Constraint{Operator: ">=", Version: "1.16.0"},
			wantOK:   true,
		},
		{
			name:     "lowest bound of multiple",
			line:     "sphinx>=1.1.2,!=1.2.0,!=1.3b1,<1.3",
			wantName: "sphinx",
			want:     Constraint{Operator: ">=", Version: "1.1.2"},
			wantOK:   true,
		},
		{
			name:     "exclusions ignored even when lowest",
			line:     "sphinx>=1.1.2,!=1.1.0,<1.3",
			wantName: "sphinx",
			want:     Constraint{Operator: ">=", Version: "1.1.2"},
			wantOK:   true,
		},
		{
			name:     "exact pin",
			line:     "requests==2.8.1",
			wantName: "requests",
			want:     Constraint{Operator: "==", Version: "2.8.1"},
			wantOK:   true,
		},
		{
			name:     "compatible release operator",
			line:     "oslo.i18n~=3.15.3",
			wantName: "oslo.i18n",
			want:     Constraint{Operator: "~=", Version: "3.15.3"},
			wantOK:   true,
		},
		{
			name:     "extras bracket ignored",
			line:     "requests[security]>=2.8.1",
			wantName: "requests",
			want:     Constraint{Operator: ">=", Version: "2.8.1"},
			wantOK:   true,
		},
		{
			name:   "comment line",
			line:   "# just a comment",
			wantOK: false,
		},
		{
			name:   "blank line",
			line:   "   ",
			wantOK: false,
		},
		{
			name:   "bare name",
			line:   "Paste",
			wantOK: false,
		},
		{
			name:   "win32 marker excludes entry",
			line:   "pywin32>=1.0;sys_platform=='win32'  # PSF",
			wantOK: false,
		},
		{
			name:     "linux marker keeps entry",
			line:     "pyinotify>=0.9.6;sys_platform!='win32' and sys_platform!='darwin' and sys_platform!='sunos5' # MIT",
			wantName: "pyinotify",
			want:     Constraint{Operator: ">=", Version: "0.9.6"},
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, c, ok, err := parseLine(tt.line)
			if err != nil {
				t.Fatalf("parseLine(%q) error = %v", tt.line, err)
			}
			if ok != tt.wantOK {
				t.Fatalf("parseLine(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if name != tt.wantName || c != tt.want {
				t.Errorf("parseLine(%q) = %q %+v, want %q %+v", tt.line, name, c, tt.wantName, tt.want)
			}
		})
	}
}

func TestParseLine_Invalid(t *testing.T) {
	for _, line := range []string{">>nonsense<<", "foo>=not_a_version", "foo>="} {
		if _, _, _, err := parseLine(line); err == nil {
			t.Errorf("parseLine(%q) should fail", line)
		}
	}
}

