package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplaintsExport(t *testing.T) {
	tests := []struct {
		format string
		ext    string
		want   string
	}{
		{"jsonl", "jsonl", `"subject":"Long queue"`},
		{"json", "json", `"subject": "Long queue"`},
		{"yaml", "yaml", "subject: Long queue"},
		{"md", "md", "## Complaint 2"},
		{"table", "txt", "Long queue"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			env := normalAdminEnv(t)
			outDir := filepath.Join(t.TempDir(), "exports")

			out, _, err := env.run("complaints", "export", "--format", tt.format, "--out", outDir, "--date", "2024-03-02")
			require.NoError(t, err)
			assert.Contains(t, out, "2 complaint(s) exported")

			files, err := filepath.Glob(filepath.Join(outDir, "complaint_*."+tt.ext))
			require.NoError(t, err)
			assert.Len(t, files, 2)

			data, err := os.ReadFile(filepath.Join(outDir, "complaint_2."+tt.ext))
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.want)
		})
	}
}

func TestComplaintsExport_InvalidFormat(t *testing.T) {
	env := normalAdminEnv(t)
	outDir := filepath.Join(t.TempDir(), "exports")

	_, _, err := env.run("complaints", "export", "--format", "xml", "--out", outDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
	assert.NoDirExists(t, outDir)
}
