package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"qrkatalog_back_end/internal/stats"
)

const statsCacheTTL = 60 * time.Second

// BranchStats serves the per-branch scan summary, cached in Redis for a
// minute when a client is available.
func (h *Handler) BranchStats(c *gin.Context) {
	branchID, ok := uintParam(c, "branch_id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	cacheKey := fmt.Sprintf("branch_stats:%d", branchID)

	if h.rdb != nil {
		if val, err := h.rdb.Get(ctx, cacheKey).Result(); err == nil && val != "" {
			var cached stats.Summary
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				c.JSON(http.StatusOK, cached)
				return
			}
		}
	}

	summary, err := h.stats.BranchSummary(ctx, branchID)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.rdb != nil {
		if data, err := json.Marshal(summary); err == nil {
			h.rdb.Set(ctx, cacheKey, data, statsCacheTTL)
		}
	}

	c.JSON(http.StatusOK, summary)
}
