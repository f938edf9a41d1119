package api

import (
	"coachdesk/coach-admin/internal/storage"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ArchiveHandler exposes the snapshot archive for manual recovery: fetching a
// presigned download link for a snapshot and cleaning snapshots up.
type ArchiveHandler struct {
	archive storage.ArchiveStore // nil when archival is disabled
}

// NewArchiveHandler creates a new ArchiveHandler.
func NewArchiveHandler(archive storage.ArchiveStore) *ArchiveHandler {
	return &ArchiveHandler{archive: archive}
}

func (h *ArchiveHandler) requireArchive(c *gin.Context) bool {
	if h.archive == nil {
		abortWithError(c, http.StatusServiceUnavailable, "Archive store is not configured")
		return false
	}
	return true
}

// GetSnapshotURL returns a temporary download URL for the snapshot at ?key=.
func (h *ArchiveHandler) GetSnapshotURL(c *gin.Context) {
	if !h.requireArchive(c) {
		return
	}
	key := c.Query("key")
	if key == "" {
		abortWithError(c, http.StatusBadRequest, "Query parameter \"key\" is required")
		return
	}

	url, err := h.archive.GeneratePresignedDownloadURL(c.Request.Context(), key, storage.DefaultPresignedURLExpiry)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to generate snapshot URL")
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "url": url})
}

// DeleteSnapshot removes the snapshot at ?key= from the archive.
func (h *ArchiveHandler) DeleteSnapshot(c *gin.Context) {
	if !h.requireArchive(c) {
		return
	}
	key := c.Query("key")
	if key == "" {
		abortWithError(c, http.StatusBadRequest, "Query parameter \"key\" is required")
		return
	}

	if err := h.archive.DeleteObject(c.Request.Context(), key); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to delete snapshot")
		return
	}
	c.Status(http.StatusNoContent)
}
