package controllers

import (
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/qrdrop/qrdrop/models"
	"github.com/qrdrop/qrdrop/store"
	"github.com/qrdrop/qrdrop/utils"
)

// ConfigController serves the fixed sharing contract so the frontend does
// not hardcode it.
type ConfigController struct{}

// NewConfigController creates a new ConfigController instance.
func NewConfigController() *ConfigController {
	return &ConfigController{}
}

// GetLimits returns the session TTL, upload ceiling and MIME allow-list.
func (cc *ConfigController) GetLimits(ctx *gin.Context) {
	types := make([]string, 0, len(models.AllowedMIMETypes))
	for t := range models.AllowedMIMETypes {
		types = append(types, t)
	}
	sort.Strings(types)

	utils.Success(ctx, gin.H{
		"sessionTTLSeconds": int(store.SessionTTL.Seconds()),
		"maxFileSizeBytes":  models.MaxFileSize,
		"allowedMimeTypes":  types,
	})
}
