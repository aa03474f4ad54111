package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qrkatalog_back_end/internal/storage"
)

// Upload stores a standalone image and returns its public URL.
func (h *Handler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if !validImageExt(header.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file type (png/jpg/jpeg/webp)"})
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	key := storage.UploadsPrefix + "/" + uniqueObjectName(header.Filename)
	url, err := h.store.Upload(c.Request.Context(), key, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url, "key": key})
}
