package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/nba-lineup/internal/models"
	"github.com/stitts-dev/nba-lineup/internal/projection"
	"github.com/stitts-dev/nba-lineup/pkg/utils"
)

type ProjectionHandler struct {
	model *projection.Model
}

func NewProjectionHandler(model *projection.Model) *ProjectionHandler {
	return &ProjectionHandler{model: model}
}

type ProjectRequest struct {
	Baseline float64 `json:"baseline"`
	// Games are box-score lines in chronological order, keyed by column
	// label (PTS, TRB, AST, BLK, STL, TOV).
	Games []map[string]float64 `json:"games" binding:"required"`
}

// Project returns the projection for the posted games.
func (h *ProjectionHandler) Project(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, "Invalid request body", err.Error())
		return
	}

	rows := make([]models.GameRow, len(req.Games))
	for i, game := range req.Games {
		rows[i] = models.GameRow{Values: game}
	}
	utils.SendSuccess(c, h.model.Project(rows, req.Baseline))
}
