package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/x4x3r/google-text-to-speach/internal/domain/audio"
)

// FileStore saves audio bytes to local directory (default audio/).
type FileStore struct {
	Dir string
	Ext string
}

func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = "audio"
	}
	return &FileStore{Dir: dir, Ext: ".wav"}
}

// Save writes data to {dir}/{fileName}{ext} and returns the path.
func (fs *FileStore) Save(data []byte, fileName string) (audio.Path, error) {
	return fs.WriteFile(filepath.Join(fs.Dir, fileName+fs.Ext), data)
}

// WriteFile writes data to path, creating parent directories. The file is
// written to a temporary sibling first and renamed so a failed run never
// leaves a truncated container behind.
func (fs *FileStore) WriteFile(path string, data []byte) (audio.Path, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename to %s: %w", path, err)
	}
	return audio.Path(path), nil
}

// PartStore keeps the raw audio of each chunk under {dir}/parts/{runID}/.
type PartStore struct {
	Dir string
}

// SavePart writes part index (1-based) of run runID.
func (ps *PartStore) SavePart(runID string, index int, data []byte) (audio.Path, error) {
	partsDir := filepath.Join(ps.Dir, "parts", runID)
	if err := os.MkdirAll(partsDir, 0o755); err != nil {
		return "", fmt.Errorf("create parts dir: %w", err)
	}
	path := filepath.Join(partsDir, fmt.Sprintf("part%d.pcm", index))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write part file: %w", err)
	}
	return audio.Path(path), nil
}
