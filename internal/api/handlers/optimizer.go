package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/nba-lineup/internal/dfs"
	"github.com/stitts-dev/nba-lineup/internal/models"
	"github.com/stitts-dev/nba-lineup/internal/optimizer"
	"github.com/stitts-dev/nba-lineup/internal/report"
	"github.com/stitts-dev/nba-lineup/pkg/utils"
)

type OptimizerHandler struct {
	rules   optimizer.Rules
	solver  optimizer.SolverOptions
	timeout time.Duration
	logger  *logrus.Entry
}

func NewOptimizerHandler(rules optimizer.Rules, solver optimizer.SolverOptions, timeout time.Duration, logger *logrus.Entry) *OptimizerHandler {
	return &OptimizerHandler{rules: rules, solver: solver, timeout: timeout, logger: logger}
}

type PlayerRequest struct {
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	Nickname  string  `json:"nickname"`
	Position  string  `json:"position" binding:"required"`
	Salary    int     `json:"salary" binding:"required,min=1"`
	FPPG      float64 `json:"fppg"`
	// ModelFPPG defaults to FPPG when omitted.
	ModelFPPG *float64 `json:"model_fppg"`
}

type OptimizeRequest struct {
	SalaryCap int             `json:"salary_cap" binding:"omitempty,min=1"`
	Players   []PlayerRequest `json:"players" binding:"required,min=1,dive"`
}

// OptimizeLineup solves for the best lineup from the posted players.
func (h *OptimizerHandler) OptimizeLineup(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, "Invalid request body", err.Error())
		return
	}

	players := make([]models.Player, 0, len(req.Players))
	for i, p := range req.Players {
		position, err := models.ParsePosition(p.Position)
		if err != nil {
			utils.SendBadRequest(c, fmt.Sprintf("players[%d]: %v", i, err))
			return
		}
		player := models.NewPlayer(p.FirstName, p.LastName, p.Nickname, position, p.Salary, p.FPPG)
		if p.ModelFPPG != nil {
			player.ModelFPPG = *p.ModelFPPG
		}
		players = append(players, *player)
	}

	rules := h.rules
	if req.SalaryCap > 0 {
		rules.SalaryCap = req.SalaryCap
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := optimizer.Optimize(ctx, players, rules, h.solver, h.logger)
	switch {
	case err == nil:
		utils.SendSuccess(c, result)
	case errors.Is(err, dfs.ErrInfeasible):
		utils.SendValidationError(c, report.InfeasibleMessage, err.Error())
	case errors.Is(err, optimizer.ErrNodeLimit), errors.Is(err, context.DeadlineExceeded):
		_ = c.Error(err)
		utils.SendInternalError(c, "Optimization did not finish")
	default:
		utils.SendBadRequest(c, err.Error())
	}
}
