package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/stitts-dev/nba-lineup/internal/models"
	"github.com/stitts-dev/nba-lineup/internal/optimizer"
	"github.com/stitts-dev/nba-lineup/internal/report"
)

type memoryDirectory map[string]models.DirectoryEntry

func (d memoryDirectory) All(context.Context) ([]models.DirectoryEntry, error) {
	entries := make([]models.DirectoryEntry, 0, len(d))
	for _, e := range d {
		entries = append(entries, e)
	}
	return entries, nil
}

func (d memoryDirectory) Get(_ context.Context, nickname string) (models.DirectoryEntry, bool, error) {
	e, ok := d[nickname]
	return e, ok, nil
}

type RouterTestSuite struct {
	suite.Suite
	router *gin.Engine
}

func (s *RouterTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	s.router = NewRouter(RouterOptions{
		Rules: optimizer.FanDuelRules(60000),
		Directory: memoryDirectory{
			"StevenAdams": {Nickname: "StevenAdams", Name: "Steven Adams", URL: "https://example.test/adams"},
		},
	}, logrus.NewEntry(logger))
}

func (s *RouterTestSuite) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func rosterRequest(salary int) []map[string]interface{} {
	var players []map[string]interface{}
	positions := []string{"PG", "PG", "SG", "SG", "SF", "SF", "PF", "PF", "C", "C"}
	for i, pos := range positions {
		players = append(players, map[string]interface{}{
			"first_name": fmt.Sprintf("Player%d", i),
			"last_name":  "Test",
			"position":   pos,
			"salary":     salary,
			"fppg":       float64(20 + i),
		})
	}
	return players
}

func (s *RouterTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"status":"ok"`)
	s.NotEmpty(w.Header().Get("X-Request-ID"))
}

func (s *RouterTestSuite) TestOptimize() {
	w := s.do(http.MethodPost, "/api/v1/optimize", map[string]interface{}{"players": rosterRequest(6000)})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data optimizer.Result `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Len(resp.Data.Lineup.Players, 9)
	s.Equal(10, resp.Data.NumVariables)
	// the better center (29) is chosen over 28
	s.InDelta(float64(20+21+22+23+24+25+26+27+29), resp.Data.Objective, 1e-6)
}

func (s *RouterTestSuite) TestOptimize_ModelProjectionOverride() {
	players := rosterRequest(6000)
	players[8]["model_fppg"] = 90.0

	w := s.do(http.MethodPost, "/api/v1/optimize", map[string]interface{}{"players": players})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"nickname":"Player8Test"`)
	s.NotContains(w.Body.String(), `"nickname":"Player9Test"`)
}

func (s *RouterTestSuite) TestOptimize_Infeasible() {
	w := s.do(http.MethodPost, "/api/v1/optimize", map[string]interface{}{"players": rosterRequest(8000)})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Contains(w.Body.String(), report.InfeasibleMessage)
}

func (s *RouterTestSuite) TestOptimize_SalaryCapOverride() {
	w := s.do(http.MethodPost, "/api/v1/optimize", map[string]interface{}{
		"salary_cap": 80000,
		"players":    rosterRequest(8000),
	})
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterTestSuite) TestOptimize_BadRequests() {
	w := s.do(http.MethodPost, "/api/v1/optimize", map[string]interface{}{})
	s.Equal(http.StatusBadRequest, w.Code)

	players := rosterRequest(6000)
	players[0]["position"] = "G"
	w = s.do(http.MethodPost, "/api/v1/optimize", map[string]interface{}{"players": players})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "players[0]")

	players = rosterRequest(6000)
	delete(players[3], "salary")
	w = s.do(http.MethodPost, "/api/v1/optimize", map[string]interface{}{"players": players})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterTestSuite) TestProject() {
	games := make([]map[string]float64, 10)
	for i := range games {
		games[i] = map[string]float64{"PTS": 20, "TRB": 10, "AST": 5, "BLK": 1, "STL": 2, "TOV": 3}
	}

	w := s.do(http.MethodPost, "/api/v1/project", map[string]interface{}{"baseline": 30, "games": games})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"source":"gamelog"`)
	s.Contains(w.Body.String(), `"value":45.5`)

	w = s.do(http.MethodPost, "/api/v1/project", map[string]interface{}{"baseline": 30, "games": games[:3]})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"value":30`)
	s.Contains(w.Body.String(), `"source":"baseline"`)
}

func (s *RouterTestSuite) TestDirectory() {
	w := s.do(http.MethodGet, "/api/v1/directory/Steven%20Adams", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "https://example.test/adams")

	w = s.do(http.MethodGet, "/api/v1/directory/Nobody", nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/v1/directory", nil)
	s.Equal(http.StatusOK, w.Code)
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
