package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/nba-lineup/internal/models"
	"github.com/stitts-dev/nba-lineup/pkg/utils"
)

// DirectoryReader is the read side of the player directory.
type DirectoryReader interface {
	All(ctx context.Context) ([]models.DirectoryEntry, error)
	Get(ctx context.Context, nickname string) (models.DirectoryEntry, bool, error)
}

type DirectoryHandler struct {
	store DirectoryReader
}

func NewDirectoryHandler(store DirectoryReader) *DirectoryHandler {
	return &DirectoryHandler{store: store}
}

// ListEntries returns every stored directory entry.
func (h *DirectoryHandler) ListEntries(c *gin.Context) {
	entries, err := h.store.All(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		utils.SendInternalError(c, "Failed to load directory")
		return
	}
	utils.SendSuccess(c, entries)
}

// GetEntry looks up one player by nickname; the path value is normalized
// the same way slate nicknames are.
func (h *DirectoryHandler) GetEntry(c *gin.Context) {
	nickname := models.Nickname(c.Param("nickname"))
	entry, found, err := h.store.Get(c.Request.Context(), nickname)
	if err != nil {
		_ = c.Error(err)
		utils.SendInternalError(c, "Failed to load directory")
		return
	}
	if !found {
		utils.SendNotFound(c, "Player not in directory")
		return
	}
	utils.SendSuccess(c, entry)
}
