package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsahana30/AUMA-DZ/models"
)

func sampleDocument() *models.QuotationDocument {
	issue := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	return &models.QuotationDocument{
		QuotationNo:     "Q202609010001",
		RFQNo:           "RFQ202609010001",
		CustomerName:    "National Water Board",
		CustomerAddress: "Plot 12, Industrial Estate",
		ContactPerson:   "S. Iyer",
		IssueDate:       issue,
		ExpiryDate:      issue.AddDate(0, 0, 10),
		Lines: []models.QuotationLine{
			{Serial: 1, ModelCode: "SA07.6", Description: "Gate valve actuation, tag GV-101", Quantity: 2, UnitPrice: 45000, LineTotal: 90000},
			{Serial: 2, Description: "Butterfly valve actuation, tag BV-202", Quantity: 1},
		},
		GrandTotal: 90000,
	}
}

func TestRender_WritesArtifactAtFinalPath(t *testing.T) {
	renderer, err := NewPDFRenderer(t.TempDir())
	require.NoError(t, err)

	path, err := renderer.Render(sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, renderer.ArtifactPath("Q202609010001"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDiscard_RemovesArtifact(t *testing.T) {
	renderer, err := NewPDFRenderer(t.TempDir())
	require.NoError(t, err)

	path, err := renderer.Render(sampleDocument())
	require.NoError(t, err)

	renderer.Discard(path)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPurgeOrphanArtifacts_SkipsRecentFiles(t *testing.T) {
	renderer, err := NewPDFRenderer(t.TempDir())
	require.NoError(t, err)

	path, err := renderer.Render(sampleDocument())
	require.NoError(t, err)

	// Freshly rendered files are never purged, even without a matching row;
	// an issue transaction may still be in flight.
	removed, err := renderer.PurgeOrphanArtifacts(func(string) bool { return false })
	require.NoError(t, err)
	assert.Zero(t, removed)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestPurgeOrphanArtifacts_RemovesStaleOrphans(t *testing.T) {
	renderer, err := NewPDFRenderer(t.TempDir())
	require.NoError(t, err)

	orphan, err := renderer.Render(sampleDocument())
	require.NoError(t, err)
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(orphan, old, old))

	removed, err := renderer.PurgeOrphanArtifacts(func(string) bool { return false })
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, statErr := os.Stat(orphan)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPurgeOrphanArtifacts_RemovesStaleTempFiles(t *testing.T) {
	renderer, err := NewPDFRenderer(t.TempDir())
	require.NoError(t, err)

	// A crash between write and rename leaves the temp file behind.
	stranded := renderer.ArtifactPath("Q202609010009") + ".tmp"
	require.NoError(t, os.WriteFile(stranded, []byte("partial"), 0o644))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stranded, old, old))

	removed, err := renderer.PurgeOrphanArtifacts(func(string) bool { return true })
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, statErr := os.Stat(stranded)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPurgeOrphanArtifacts_KeepsIssuedQuotations(t *testing.T) {
	renderer, err := NewPDFRenderer(t.TempDir())
	require.NoError(t, err)

	path, err := renderer.Render(sampleDocument())
	require.NoError(t, err)
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	removed, err := renderer.PurgeOrphanArtifacts(func(quotationNo string) bool {
		return quotationNo == "Q202609010001"
	})
	require.NoError(t, err)
	assert.Zero(t, removed)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}
