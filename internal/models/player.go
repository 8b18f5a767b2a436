package models

import (
	"fmt"
	"strings"
)

type Position string

const (
	PositionPG Position = "PG"
	PositionSG Position = "SG"
	PositionSF Position = "SF"
	PositionPF Position = "PF"
	PositionC  Position = "C"
)

// Positions lists the roster positions in lineup order.
var Positions = []Position{PositionPG, PositionSG, PositionSF, PositionPF, PositionC}

func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Positions {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown position %q", s)
}

// ProjectionSource records where a player's ModelFPPG came from.
type ProjectionSource string

const (
	SourceBaseline ProjectionSource = "baseline"
	SourceGameLog  ProjectionSource = "gamelog"
)

type Player struct {
	FirstName  string   `json:"first_name" binding:"required"`
	LastName   string   `json:"last_name" binding:"required"`
	Nickname   string   `json:"nickname"`
	Position   Position `json:"position" binding:"required"`
	Salary     int      `json:"salary" binding:"required,min=1"`
	FPPG       float64  `json:"fppg"`
	ProfileURL string   `json:"profile_url,omitempty"`

	// Projection state, overwritten once by the projector
	ModelFPPG        float64          `json:"model_fppg"`
	ProjectionSource ProjectionSource `json:"projection_source,omitempty"`
	GamesUsed        int              `json:"games_used,omitempty"`
}

// NewPlayer builds a player whose projection starts at the baseline FPPG.
func NewPlayer(firstName, lastName, nickname string, position Position, salary int, fppg float64) *Player {
	if nickname == "" {
		nickname = firstName + " " + lastName
	}
	return &Player{
		FirstName:        SanitizeName(firstName),
		LastName:         SanitizeName(lastName),
		Nickname:         Nickname(nickname),
		Position:         position,
		Salary:           salary,
		FPPG:             fppg,
		ModelFPPG:        fppg,
		ProjectionSource: SourceBaseline,
	}
}

func (p *Player) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Value returns projected points per 1000 salary units.
func (p *Player) Value() float64 {
	if p.Salary == 0 {
		return 0
	}
	return p.ModelFPPG / float64(p.Salary) * 1000
}
