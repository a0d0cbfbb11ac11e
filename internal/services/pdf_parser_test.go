package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFParser_MissingFile(t *testing.T) {
	p := NewPDFParserService()

	_, err := p.ExtractText(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file does not exist")
}

func TestPDFParser_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text pretending to be a pdf"), 0644))

	_, err := NewPDFParserService().ExtractText(path)
	assert.Error(t, err)
}

func TestCleanText(t *testing.T) {
	in := "  Senior Go Engineer \n\n\n   Requirements:\n  - Fiber\n\t\n- Postgres  \n"
	assert.Equal(t, "Senior Go Engineer\nRequirements:\n- Fiber\n- Postgres", CleanText(in))
}
