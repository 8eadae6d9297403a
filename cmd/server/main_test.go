package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/materials/internal/core"
)

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTemplateCommand_WritesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	out, err := runCommand(t, "", "template", "--format", "csv", "--out", path)
	if err != nil {
		t.Fatalf("template error = %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("output = %q", out)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	header, err := csv.NewReader(f).Read()
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if header[0] != "Name" || len(header) != 17 {
		t.Errorf("header = %v", header)
	}
}

func TestTemplateCommand_RejectsFormat(t *testing.T) {
	if _, err := runCommand(t, "", "template", "--format", "pdf"); err == nil {
		t.Error("template --format pdf expected error")
	}
}

func TestResetCommand_MemoryStore(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	out, err := runCommand(t, "", "reset", "--yes")
	if err != nil {
		t.Fatalf("reset error = %v", err)
	}
	if !strings.Contains(out, "catalog reset") {
		t.Errorf("output = %q", out)
	}

	if _, err := runCommand(t, "no\n", "reset"); err == nil {
		t.Error("unconfirmed reset expected error")
	}
}

func TestMigrateCommand_RequiresPostgres(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	_, err := runCommand(t, "", "migrate")
	if err == nil || !strings.Contains(err.Error(), "STORE_DRIVER=postgres") {
		t.Errorf("migrate error = %v", err)
	}
}

func TestConfigErrorsSurface(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := runCommand(t, "", "reset", "--yes")
	if err == nil || !strings.Contains(err.Error(), "STORE_DRIVER") {
		t.Errorf("error = %v, want STORE_DRIVER validation", err)
	}
}

func TestImportCommand_ReportsFailures(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	path := filepath.Join(t.TempDir(), "t.csv")
	if _, err := runCommand(t, "", "template", "-f", "csv", "-o", path); err != nil {
		t.Fatalf("template error = %v", err)
	}

	out, err := runCommand(t, "", "import", path)
	if err != nil {
		t.Fatalf("import error = %v", err)
	}
	if !strings.Contains(out, "Imported 5 of") || !strings.Contains(out, "unknown material type") {
		t.Errorf("output = %q", out)
	}

	if _, err := runCommand(t, "", "import"); err == nil {
		t.Error("import without a file expected error")
	}
}

func TestKindsCommand(t *testing.T) {
	out, err := runCommand(t, "", "kinds")
	if err != nil {
		t.Fatalf("kinds error = %v", err)
	}
	for _, want := range []string{"Desk", "OfficeCabinet", "swingDirection", "SLIDING_DOORS"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderStats(t *testing.T) {
	out := renderStats(core.Stats{
		TotalCount:           3,
		RecentAdditionsCount: 1,
		KindCounts:           map[string]int{"Door": 2, "Desk": 1},
		ConditionCounts:      map[string]int{"Good": 3},
	})
	if !strings.Contains(out, "Total materials: 3") {
		t.Errorf("output = %q", out)
	}
	if strings.Index(out, "Desk") > strings.Index(out, "Door") {
		t.Error("type rows are not sorted")
	}
	if strings.Contains(out, "Category") {
		t.Error("empty grouping rendered")
	}
}

func TestErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "known failure gets support code",
			err:  errors.New("too many imports in progress, please try again later"),
			want: "Error: too many imports in progress, please try again later\nToo many imports in progress (Code: IMP002). Please wait a moment and try again",
		},
		{
			name: "unknown failure printed as is",
			err:  errors.New("boom"),
			want: "Error: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorText(tt.err); got != tt.want {
				t.Errorf("errorText() = %q, want %q", got, tt.want)
			}
		})
	}
}
