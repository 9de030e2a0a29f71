package history

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/modguard/modguard/internal/domain"
)

const historyFile = ".modguard/history/reports.json"

// FileHistory implements domain.ReportHistory using JSON file storage.
type FileHistory struct{}

func New() *FileHistory {
	return &FileHistory{}
}

func (h *FileHistory) Save(modulePath string, entry domain.HistoryEntry) error {
	entries, err := h.Load(modulePath)
	if err != nil {
		return err
	}

	entries = append(entries, entry)

	fp := filepath.Join(modulePath, historyFile)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(fp, data, 0644)
}

func (h *FileHistory) Load(modulePath string) ([]domain.HistoryEntry, error) {
	fp := filepath.Join(modulePath, historyFile)

	data, err := os.ReadFile(fp)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}
