package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/qrdrop/qrdrop/store"
	"github.com/qrdrop/qrdrop/utils"
)

// StatsController exposes store introspection for the ops dashboard.
type StatsController struct {
	store *store.Store
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(s *store.Store) *StatsController {
	return &StatsController{store: s}
}

// GetStats returns live counters. Totals are recomputed by full scan on each
// call; at this scale that is cheaper than keeping counters honest.
func (sc *StatsController) GetStats(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"sessions":   sc.store.Sessions.Count(),
		"files":      sc.store.Files.Count(),
		"totalBytes": sc.store.Files.TotalBytes(),
	})
}
