package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestRead_Basic(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "manifest-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	path := writeManifest(t, tempDir, "task-manifest.csv", `name,description,module,path,standalone
bmad-bmm-correct-course,Course correction,bmm,tasks/correct-course.md,true
bmad-core-brainstorm,Brainstorming session,core,tasks/brainstorm.md,false
`)

	rows, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	// Every row carries exactly the header keys.
	for i, row := range rows {
		if len(row) != 5 {
			t.Errorf("row %d: expected 5 keys, got %d", i, len(row))
		}
		for _, key := range []string{"name", "description", "module", "path", "standalone"} {
			if _, ok := row[key]; !ok {
				t.Errorf("row %d: missing key %q", i, key)
			}
		}
	}

	if rows[0]["name"] != "bmad-bmm-correct-course" {
		t.Errorf("unexpected name: %s", rows[0]["name"])
	}
	if rows[1]["standalone"] != "false" {
		t.Errorf("unexpected standalone: %s", rows[1]["standalone"])
	}
}

func TestRead_QuotedFields(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "manifest-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	path := writeManifest(t, tempDir, "command-manifest.csv", `module,name,description
bmm,create-prd,"Creates a PRD, with epics and stories"
bmm,review,"She said ""ship it"" #no-really"
`)

	rows, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if got := rows[0]["description"]; got != "Creates a PRD, with epics and stories" {
		t.Errorf("embedded separator mangled: %q", got)
	}
	if got := rows[1]["description"]; got != `She said "ship it" #no-really` {
		t.Errorf("escaped quote or embedded marker mangled: %q", got)
	}
}

func TestRead_CommentAndBlankLines(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "manifest-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	path := writeManifest(t, tempDir, "tool-manifest.csv", `# generated by the bmad installer
# do not edit

name,description,module,path,standalone
bmad-core-shard,Shard a document,core,tools/shard.md,true

# trailing note
`)

	rows, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0]["name"] != "bmad-core-shard" {
		t.Errorf("unexpected name: %s", rows[0]["name"])
	}
}

func TestRead_ShortAndLongRows(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "manifest-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	path := writeManifest(t, tempDir, "workflow-manifest.csv", `name,description,module,path
short-row,Only two cells
long-row,Has extras,bmm,workflows/x.yaml,surplus-a,surplus-b
`)

	rows, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	// Missing trailing fields resolve to empty string, never a panic.
	if rows[0]["module"] != "" || rows[0]["path"] != "" {
		t.Errorf("short row should fill missing fields with empty strings: %v", rows[0])
	}
	// Extra cells beyond the header are dropped.
	if len(rows[1]) != 4 {
		t.Errorf("long row should carry exactly the header keys, got %d", len(rows[1]))
	}
	if rows[1]["path"] != "workflows/x.yaml" {
		t.Errorf("unexpected path: %s", rows[1]["path"])
	}
}

func TestRead_MissingFile(t *testing.T) {
	rows, err := Read(filepath.Join(os.TempDir(), "does-not-exist", "task-manifest.csv"))
	if err != nil {
		t.Fatalf("missing file must not be an error, got: %v", err)
	}
	if rows != nil {
		t.Errorf("expected nil rows for missing file, got %v", rows)
	}
}

func TestRead_UnreadablePath(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "manifest-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	// A directory where a file is expected is a real failure, not absence.
	if _, err := Read(tempDir); err == nil {
		t.Error("expected an error reading a directory")
	}
}

func TestRead_BOM(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "manifest-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	path := writeManifest(t, tempDir, "agent-manifest.csv", "\xEF\xBB\xBFname,module\npm,bmm\n")

	rows, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if _, ok := rows[0]["name"]; !ok {
		t.Errorf("BOM leaked into the first header token: %v", rows[0])
	}
}

func TestRead_TrimsCells(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "manifest-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	path := writeManifest(t, tempDir, "task-manifest.csv", "  name , module \n  bmad-bmm-x  ,  bmm \n")

	rows, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0]["name"] != "bmad-bmm-x" {
		t.Errorf("cell not trimmed: %q", rows[0]["name"])
	}
	if rows[0]["module"] != "bmm" {
		t.Errorf("cell not trimmed: %q", rows[0]["module"])
	}
}

func TestRead_EmptyFile(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "manifest-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	path := writeManifest(t, tempDir, "empty.csv", "")

	rows, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestKind_File(t *testing.T) {
	tests := []struct {
		kind Kind
		file string
	}{
		{KindCatalog, "command-manifest.csv"},
		{KindAgent, "agent-manifest.csv"},
		{KindWorkflow, "workflow-manifest.csv"},
		{KindTask, "task-manifest.csv"},
		{KindTool, "tool-manifest.csv"},
	}

	for _, tt := range tests {
		if got := tt.kind.File(); got != tt.file {
			t.Errorf("Kind(%s).File() = %s, expected %s", tt.kind, got, tt.file)
		}
	}

	if len(Kinds()) != 5 {
		t.Errorf("expected 5 kinds, got %d", len(Kinds()))
	}
}
