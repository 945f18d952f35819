package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qrdrop/qrdrop/config"
	"github.com/qrdrop/qrdrop/store"
	"github.com/qrdrop/qrdrop/utils"
)

const maxSessionIDLength = 128

// SessionController manages sharing session lifecycle endpoints.
type SessionController struct {
	store *store.Store
}

// NewSessionController creates a new SessionController instance.
func NewSessionController(s *store.Store) *SessionController {
	return &SessionController{store: s}
}

// CreateSession mints a session under a caller-chosen opaque token.
func (sc *SessionController) CreateSession(ctx *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "missing or invalid sessionId")
		return
	}

	id := strings.TrimSpace(req.SessionID)
	if id == "" || len(id) > maxSessionIDLength {
		utils.Error(ctx, http.StatusBadRequest, 40011, "sessionId must be a non-empty token of at most 128 chars")
		return
	}

	sess := sc.store.CreateSession(id)
	utils.Sugar.Infof("created session %s, expires %s", sess.ID, sess.ExpiresAt.Format("15:04:05"))
	utils.Success(ctx, gin.H{"session": gin.H{
		"id":        sess.ID,
		"expiresAt": sess.ExpiresAt,
	}})
}

// Validate reports whether a session exists and has not expired.
func (sc *SessionController) Validate(ctx *gin.Context) {
	id := ctx.Param("sessionId")
	utils.Success(ctx, gin.H{"valid": sc.store.Sessions.IsValid(id)})
}

// Reset terminates the given session, purges its files, and hands back a
// fresh one.
func (sc *SessionController) Reset(ctx *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "missing sessionId")
		return
	}

	fresh, purged := sc.store.Reset(req.SessionID)
	utils.Sugar.Infof("reset session %s: purged %d files, new session %s", req.SessionID, purged, fresh.ID)
	utils.Success(ctx, gin.H{
		"newSessionId": fresh.ID,
		"expiresAt":    fresh.ExpiresAt,
	})
}

// QRCode renders a PNG QR code pointing a sender's phone at the upload page
// for the session.
func (sc *SessionController) QRCode(ctx *gin.Context) {
	id := ctx.Param("sessionId")
	if !sc.store.Sessions.IsValid(id) {
		utils.Error(ctx, http.StatusNotFound, 40401, "invalid or expired session")
		return
	}

	size := 256
	if v := ctx.Query("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 64 && n <= 1024 {
			size = n
		}
	}

	target := strings.TrimRight(config.Get().PublicBaseURL, "/") + "/upload/" + id
	png, err := utils.QRCodePNG(target, size)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to render QR code")
		return
	}
	ctx.Data(http.StatusOK, "image/png", png)
}
