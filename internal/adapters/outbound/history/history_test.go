package history_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modguard/modguard/internal/adapters/outbound/history"
	"github.com/modguard/modguard/internal/domain"
)

func entry(id string, score int) domain.HistoryEntry {
	return domain.HistoryEntry{
		ReportID:   id,
		ModuleName: "billing",
		Timestamp:  time.Now().UTC().Truncate(time.Second),
		Score:      score,
		Status:     domain.StatusPass,
	}
}

func TestFileHistory_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	h := history.New()

	require.NoError(t, h.Save(dir, entry("r1", 80)))
	require.NoError(t, h.Save(dir, entry("r2", 95)))

	entries, err := h.Load(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2, "save appends")
	assert.Equal(t, "r1", entries[0].ReportID)
	assert.Equal(t, "r2", entries[1].ReportID)
	assert.Equal(t, 95, entries[1].Score)

	assert.FileExists(t, filepath.Join(dir, ".modguard", "history", "reports.json"))
}

func TestFileHistory_LoadMissingIsEmpty(t *testing.T) {
	entries, err := history.New().Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileHistory_LoadCorruptFileErrors(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, ".modguard", "history", "reports.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(fp), 0o755))
	require.NoError(t, os.WriteFile(fp, []byte("{corrupt"), 0o644))

	_, err := history.New().Load(dir)
	assert.Error(t, err)
}
