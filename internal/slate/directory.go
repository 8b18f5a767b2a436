package slate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/stitts-dev/nba-lineup/internal/models"
)

const (
	colName      = "name"
	colURL       = "url"
	colExtension = "extension"
)

// ReadDirectory parses a nickname to URL file. The URL column may be named
// URL or Extension; Name is optional.
func ReadDirectory(r io.Reader) ([]models.DirectoryEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	h, err := readHeader(reader, []string{colNickname})
	if err != nil {
		return nil, fmt.Errorf("directory: %w", err)
	}
	urlColumn := colURL
	if _, ok := h[colURL]; !ok {
		urlColumn = colExtension
	}
	if _, ok := h[urlColumn]; !ok {
		return nil, fmt.Errorf("directory: missing column %q", colURL)
	}

	var entries []models.DirectoryEntry
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("directory line %d: %w", line, err)
		}
		nickname := models.Nickname(h.get(record, colNickname))
		url := h.get(record, urlColumn)
		if nickname == "" || url == "" {
			continue
		}
		entries = append(entries, models.DirectoryEntry{
			Nickname: nickname,
			Name:     h.get(record, colName),
			URL:      url,
		})
	}
	return entries, nil
}

func LoadDirectory(path string) ([]models.DirectoryEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	entries, err := ReadDirectory(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// WriteDirectory writes entries with a Name, Nickname, URL header.
func WriteDirectory(w io.Writer, entries []models.DirectoryEntry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Name", "Nickname", "URL"}); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := writer.Write([]string{entry.Name, entry.Nickname, entry.URL}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
