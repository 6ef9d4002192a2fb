package artifacts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"tafrigh/internal/services"
)

// Stage artifact file names. Stages write a machine-readable JSON artifact
// and, where useful, a human-readable sibling.
const (
	FileMetadata        = "metadata.json"
	FileTranscript      = "transcript.json"
	FileTranscriptText  = "transcript.txt"
	FileDiarization     = "diarization.json"
	FileDiarizationRTTM = "diarization.rttm"
	FileAttribution     = "attribution.json"
	FileEntities        = "entities.json"
	FileSummary         = "summary.txt"
	FileReport          = "report.txt"
)

// Store persists episode artifacts beneath a root directory, one
// subdirectory per episode identifier.
type Store struct {
	root string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the store's base directory.
func (s *Store) Root() string {
	return s.root
}

// Path returns the location of an episode artifact without checking that it
// exists.
func (s *Store) Path(episodeID, name string) string {
	return filepath.Join(s.root, episodeID, name)
}

// Exists reports whether an artifact has been written for the episode.
func (s *Store) Exists(episodeID, name string) bool {
	_, err := os.Stat(s.Path(episodeID, name))
	return err == nil
}

// PutJSON writes v as indented JSON to the episode's artifact directory.
func (s *Store) PutJSON(episodeID, name string, v any) error {
	data, err := encodeJSON(v)
	if err != nil {
		return services.Wrap(services.ErrPersistence, "", "encode artifact", name, err)
	}
	return s.writeAtomic(episodeID, name, data)
}

// PutText writes a human-readable artifact.
func (s *Store) PutText(episodeID, name, contents string) error {
	return s.writeAtomic(episodeID, name, []byte(contents))
}

// GetJSON reads an artifact into v. Missing artifacts return
// services.ErrNotFound.
func (s *Store) GetJSON(episodeID, name string, v any) error {
	data, err := os.ReadFile(s.Path(episodeID, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: artifact %s/%s", services.ErrNotFound, episodeID, name)
		}
		return services.Wrap(services.ErrPersistence, "", "read artifact", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return services.Wrap(services.ErrPersistence, "", "decode artifact", name, err)
	}
	return nil
}

// ReadText reads a human-readable artifact. Missing artifacts return
// services.ErrNotFound.
func (s *Store) ReadText(episodeID, name string) (string, error) {
	data, err := os.ReadFile(s.Path(episodeID, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: artifact %s/%s", services.ErrNotFound, episodeID, name)
		}
		return "", services.Wrap(services.ErrPersistence, "", "read artifact", name, err)
	}
	return string(data), nil
}

func (s *Store) writeAtomic(episodeID, name string, data []byte) error {
	dir := filepath.Join(s.root, episodeID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrPersistence, "", "create artifact directory", dir, err)
	}
	tmp, err := os.CreateTemp(dir, name+".tmp-*")
	if err != nil {
		return services.Wrap(services.ErrPersistence, "", "stage artifact", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return services.Wrap(services.ErrPersistence, "", "write artifact", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return services.Wrap(services.ErrPersistence, "", "close artifact", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		os.Remove(tmpName)
		return services.Wrap(services.ErrPersistence, "", "publish artifact", name, err)
	}
	return nil
}

func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
