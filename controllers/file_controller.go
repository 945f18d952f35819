package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/qrdrop/qrdrop/models"
	"github.com/qrdrop/qrdrop/store"
	"github.com/qrdrop/qrdrop/utils"
)

// FileController handles upload, listing, download and deletion of shared
// files. All validation lives here; the store only keeps what it is given.
type FileController struct {
	store *store.Store
}

// NewFileController creates a new FileController instance.
func NewFileController(s *store.Store) *FileController {
	return &FileController{store: s}
}

// Upload accepts a multipart file for a session. The session must be valid
// at the moment the request is checked; if it is invalidated while the bytes
// are read, the file is stored anyway and purged by the next sweep.
func (fc *FileController) Upload(ctx *gin.Context) {
	sessionID := ctx.PostForm("sessionId")
	file, header, err := ctx.Request.FormFile("file")
	if err != nil || sessionID == "" {
		utils.Error(ctx, http.StatusBadRequest, 40010, "missing sessionId or file")
		return
	}
	defer file.Close()

	if !fc.store.Sessions.IsValid(sessionID) {
		utils.Error(ctx, http.StatusNotFound, 40401, "invalid or expired session")
		return
	}

	if header.Size > models.MaxFileSize {
		utils.Error(ctx, http.StatusRequestEntityTooLarge, 41301, "file size exceeds 10MB limit")
		return
	}

	// Multipart headers can lie about size; read through a limiter and
	// re-check.
	content, err := io.ReadAll(io.LimitReader(file, models.MaxFileSize+1))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to read upload")
		return
	}
	if int64(len(content)) > models.MaxFileSize {
		utils.Error(ctx, http.StatusRequestEntityTooLarge, 41301, "file size exceeds 10MB limit")
		return
	}

	declared := header.Header.Get("Content-Type")
	if !models.AllowedMIMETypes[declared] {
		utils.Error(ctx, http.StatusBadRequest, 40031, "only images and PDFs are allowed")
		return
	}
	// Cross-check the declared type against the actual payload.
	if sniffed := mimetype.Detect(content); !models.AllowedMIMETypes[sniffed.String()] {
		utils.Error(ctx, http.StatusBadRequest, 40032, "file content does not match an allowed type")
		return
	}

	name := filepath.Base(header.Filename)
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}

	stored := &models.StoredFile{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Filename:   name,
		MimeType:   declared,
		Size:       int64(len(content)),
		Content:    content,
		UploadedAt: time.Now(),
	}

	if err := fc.store.StoreFile(stored); err != nil {
		if errors.Is(err, store.ErrInvalidSession) {
			utils.Error(ctx, http.StatusNotFound, 40401, "invalid or expired session")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to store file")
		return
	}

	utils.Sugar.Infof("stored file %s (%s, %d bytes) for session %s", stored.ID, stored.MimeType, stored.Size, sessionID)
	utils.Success(ctx, gin.H{"file": stored.Meta()})
}

// List returns metadata for every file in the session, newest first.
func (fc *FileController) List(ctx *gin.Context) {
	sessionID := ctx.Param("sessionId")
	if !fc.store.Sessions.IsValid(sessionID) {
		utils.Error(ctx, http.StatusNotFound, 40401, "invalid or expired session")
		return
	}

	files := fc.store.Files.ListBySession(sessionID)
	metas := make([]models.FileMeta, 0, len(files))
	for _, f := range files {
		metas = append(metas, f.Meta())
	}
	utils.Success(ctx, gin.H{"files": metas})
}

// Download streams a file's content. The owning session is deliberately not
// re-validated: files of an expired-but-unswept session stay downloadable
// until the reclaimer cascades.
func (fc *FileController) Download(ctx *gin.Context) {
	f := fc.store.Files.Get(ctx.Param("fileId"))
	if f == nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "file not found")
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Filename))
	ctx.Data(http.StatusOK, f.MimeType, f.Content)
}

// Delete removes a single file from its session.
func (fc *FileController) Delete(ctx *gin.Context) {
	id := ctx.Param("fileId")
	if !fc.store.Files.Delete(id) {
		utils.Error(ctx, http.StatusNotFound, 40402, "file not found")
		return
	}
	utils.Success(ctx, gin.H{"deleted": id})
}
