package store

import (
	"sort"
	"sync"

	"github.com/qrdrop/qrdrop/models"
)

// FileStore holds uploaded files in memory, keyed by file id. Session
// membership is found by scanning the SessionID field; at the expected scale
// (tens to low hundreds of files) a secondary index is not worth carrying.
type FileStore struct {
	mu    sync.Mutex
	files map[string]*models.StoredFile
}

// NewFileStore returns an empty file store.
func NewFileStore() *FileStore {
	return &FileStore{files: map[string]*models.StoredFile{}}
}

// Put inserts a file record. Validation (session validity, size, type)
// belongs to the boundary; the store only keeps what it is given.
func (s *FileStore) Put(f *models.StoredFile) {
	s.mu.Lock()
	s.files[f.ID] = f
	s.mu.Unlock()
}

// Get returns the file or nil.
func (s *FileStore) Get(id string) *models.StoredFile {
	s.mu.Lock()
	f := s.files[id]
	s.mu.Unlock()
	return f
}

// ListBySession returns all files owned by the session, newest first.
// Ties on UploadedAt fall back to id so the order is stable within a run.
func (s *FileStore) ListBySession(sessionID string) []*models.StoredFile {
	var out []*models.StoredFile
	s.mu.Lock()
	for _, f := range s.files {
		if f.SessionID == sessionID {
			out = append(out, f)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].UploadedAt.After(out[j].UploadedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Delete removes a single file, reporting whether it existed.
func (s *FileStore) Delete(id string) bool {
	s.mu.Lock()
	_, ok := s.files[id]
	delete(s.files, id)
	s.mu.Unlock()
	return ok
}

// DeleteBySession removes every file owned by the session and returns how
// many were deleted.
func (s *FileStore) DeleteBySession(sessionID string) int {
	n := 0
	s.mu.Lock()
	for id, f := range s.files {
		if f.SessionID == sessionID {
			delete(s.files, id)
			n++
		}
	}
	s.mu.Unlock()
	return n
}

// Count returns the number of stored files.
func (s *FileStore) Count() int {
	s.mu.Lock()
	n := len(s.files)
	s.mu.Unlock()
	return n
}

// TotalBytes recomputes the total stored payload size by full scan. A running
// counter could drift under concurrent mutation; recomputing cannot.
func (s *FileStore) TotalBytes() int64 {
	var total int64
	s.mu.Lock()
	for _, f := range s.files {
		total += f.Size
	}
	s.mu.Unlock()
	return total
}
