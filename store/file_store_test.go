package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrdrop/qrdrop/models"
)

func newFile(id, sessionID string, uploadedAt time.Time, content []byte) *models.StoredFile {
	return &models.StoredFile{
		ID:         id,
		SessionID:  sessionID,
		Filename:   id + ".png",
		MimeType:   "image/png",
		Size:       int64(len(content)),
		Content:    content,
		UploadedAt: uploadedAt,
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	s := NewFileStore()
	content := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}
	s.Put(newFile("f1", "sess", time.Now(), content))

	got := s.Get("f1")
	require.NotNil(t, got)
	assert.Equal(t, "f1", got.ID)
	assert.Equal(t, "sess", got.SessionID)
	assert.Equal(t, "f1.png", got.Filename)
	assert.Equal(t, "image/png", got.MimeType)
	assert.Equal(t, int64(len(content)), got.Size)
	assert.Equal(t, content, got.Content)

	assert.Nil(t, s.Get("missing"))
}

func TestListBySessionNewestFirst(t *testing.T) {
	s := NewFileStore()
	base := time.Now()
	s.Put(newFile("old", "sess", base.Add(-2*time.Minute), nil))
	s.Put(newFile("new", "sess", base, nil))
	s.Put(newFile("mid", "sess", base.Add(-time.Minute), nil))
	s.Put(newFile("other", "elsewhere", base, nil))

	got := s.ListBySession("sess")
	require.Len(t, got, 3)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "mid", got[1].ID)
	assert.Equal(t, "old", got[2].ID)
}

func TestListBySessionTieBreakDeterministic(t *testing.T) {
	s := NewFileStore()
	ts := time.Now()
	for _, id := range []string{"c", "a", "b"} {
		s.Put(newFile(id, "sess", ts, nil))
	}

	first := s.ListBySession("sess")
	for i := 0; i < 10; i++ {
		again := s.ListBySession("sess")
		require.Len(t, again, 3)
		for j := range first {
			assert.Equal(t, first[j].ID, again[j].ID)
		}
	}
}

func TestDeleteBySession(t *testing.T) {
	s := NewFileStore()
	now := time.Now()
	s.Put(newFile("f1", "sess", now, nil))
	s.Put(newFile("f2", "sess", now, nil))
	s.Put(newFile("f3", "other", now, nil))

	assert.Equal(t, 2, s.DeleteBySession("sess"))
	assert.Nil(t, s.Get("f1"))
	assert.Nil(t, s.Get("f2"))
	assert.NotNil(t, s.Get("f3"))

	assert.Equal(t, 0, s.DeleteBySession("sess"))
}

func TestDeleteSingle(t *testing.T) {
	s := NewFileStore()
	s.Put(newFile("f1", "sess", time.Now(), nil))
	assert.True(t, s.Delete("f1"))
	assert.False(t, s.Delete("f1"))
}

func TestCountAndTotalBytes(t *testing.T) {
	s := NewFileStore()
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, int64(0), s.TotalBytes())

	for i := 0; i < 4; i++ {
		s.Put(newFile(fmt.Sprintf("f%d", i), "sess", time.Now(), make([]byte, 100)))
	}
	assert.Equal(t, 4, s.Count())
	assert.Equal(t, int64(400), s.TotalBytes())

	s.Delete("f0")
	assert.Equal(t, 3, s.Count())
	assert.Equal(t, int64(300), s.TotalBytes())
}
