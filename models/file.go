package models

import "time"

const (
	// MaxFileSize is the upload ceiling. A payload of exactly this size is
	// accepted; one byte over is rejected at the boundary.
	MaxFileSize = 10 << 20 // 10 MiB
)

// AllowedMIMETypes lists the content types uploads may declare. Images and
// PDFs only.
var AllowedMIMETypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// StoredFile is one uploaded file held in memory for the lifetime of its
// owning session. Records are never mutated after creation.
type StoredFile struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"sessionId"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mimetype"`
	Size       int64     `json:"size"`
	Content    []byte    `json:"-"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// FileMeta is the content-free view of a StoredFile returned by list
// endpoints.
type FileMeta struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"sessionId"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mimetype"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Meta returns the metadata view of the file.
func (f *StoredFile) Meta() FileMeta {
	return FileMeta{
		ID:         f.ID,
		SessionID:  f.SessionID,
		Filename:   f.Filename,
		MimeType:   f.MimeType,
		Size:       f.Size,
		UploadedAt: f.UploadedAt,
	}
}
