package audio

import "context"

// Path is the saved location of audio file (local path or URL).
type Path string

// Store persists synthesized audio.
type Store interface {
	// Save persists data with given file name (without extension) and returns the saved path.
	Save(data []byte, fileName string) (Path, error)
	// WriteFile persists data at exactly path.
	WriteFile(path string, data []byte) (Path, error)
}

// Uploader publishes a stored file somewhere remote (e.g. Google Drive).
type Uploader interface {
	Upload(ctx context.Context, localPath string) (remoteID, link string, err error)
}
