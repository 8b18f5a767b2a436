// Package slate reads FanDuel player lists and player directory files.
package slate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/nba-lineup/internal/models"
)

const (
	colFirstName = "first name"
	colLastName  = "last name"
	colNickname  = "nickname"
	colPosition  = "position"
	colSalary    = "salary"
	colFPPG      = "fppg"
)

var slateColumns = []string{colFirstName, colLastName, colNickname, colPosition, colSalary, colFPPG}

// header maps lowercased column names to their index.
type header map[string]int

func readHeader(r *csv.Reader, required []string) (header, error) {
	record, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	h := make(header, len(record))
	for i, name := range record {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}
	for _, name := range required {
		if _, ok := h[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return h, nil
}

func (h header) get(record []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// ReadPlayers parses a FanDuel NBA player list. Extra columns are ignored,
// rows with positions outside PG/SG/SF/PF/C are skipped with a warning and a
// repeated nickname is an error.
func ReadPlayers(r io.Reader, logger *logrus.Entry) ([]models.Player, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	h, err := readHeader(reader, slateColumns)
	if err != nil {
		return nil, fmt.Errorf("slate: %w", err)
	}

	var players []models.Player
	rowOf := make(map[string]int)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("slate line %d: %w", line, err)
		}

		positionText := h.get(record, colPosition)
		position, err := models.ParsePosition(positionText)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"line":     line,
				"player":   h.get(record, colNickname),
				"position": positionText,
			}).Warn("skipping player with unsupported position")
			continue
		}

		salary, err := strconv.Atoi(h.get(record, colSalary))
		if err != nil {
			return nil, fmt.Errorf("slate line %d: invalid salary %q", line, h.get(record, colSalary))
		}
		fppg, err := strconv.ParseFloat(h.get(record, colFPPG), 64)
		if err != nil {
			return nil, fmt.Errorf("slate line %d: invalid FPPG %q", line, h.get(record, colFPPG))
		}

		player := models.NewPlayer(h.get(record, colFirstName), h.get(record, colLastName), h.get(record, colNickname), position, salary, fppg)
		if player.Nickname == "" {
			return nil, fmt.Errorf("slate line %d: player has no usable name", line)
		}
		if first, dup := rowOf[player.Nickname]; dup {
			return nil, fmt.Errorf("slate line %d: nickname %s already used on line %d", line, player.Nickname, first)
		}
		rowOf[player.Nickname] = line
		players = append(players, *player)
	}
	return players, nil
}

// LoadPlayers reads a slate file from disk.
func LoadPlayers(path string, logger *logrus.Entry) ([]models.Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	players, err := ReadPlayers(f, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.WithFields(logrus.Fields{"path": path, "players": len(players)}).Info("slate loaded")
	return players, nil
}
