package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stitts-dev/nba-lineup/internal/models"
	"github.com/stitts-dev/nba-lineup/internal/providers"
	"github.com/stitts-dev/nba-lineup/pkg/database"
)

const upsertBatchSize = 200

// DirectoryStore persists the nickname to game log URL directory.
type DirectoryStore struct {
	db     *database.DB
	logger *logrus.Entry
}

func NewDirectoryStore(db *database.DB, logger *logrus.Entry) *DirectoryStore {
	return &DirectoryStore{db: db, logger: logger}
}

func (s *DirectoryStore) Migrate() error {
	if err := s.db.AutoMigrate(&models.DirectoryEntry{}); err != nil {
		return fmt.Errorf("failed to migrate player directory: %w", err)
	}
	return nil
}

// Upsert inserts entries, replacing the name and URL of nicknames already stored.
func (s *DirectoryStore) Upsert(ctx context.Context, entries []models.DirectoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "nickname"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "url", "updated_at"}),
	}).CreateInBatches(entries, upsertBatchSize).Error
	if err != nil {
		return fmt.Errorf("failed to save directory entries: %w", err)
	}
	s.logger.WithField("entries", len(entries)).Info("directory entries saved")
	return nil
}

func (s *DirectoryStore) All(ctx context.Context) ([]models.DirectoryEntry, error) {
	var entries []models.DirectoryEntry
	if err := s.db.WithContext(ctx).Order("nickname").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load directory: %w", err)
	}
	return entries, nil
}

// Get returns the entry for nickname; found is false when none is stored.
func (s *DirectoryStore) Get(ctx context.Context, nickname string) (entry models.DirectoryEntry, found bool, err error) {
	err = s.db.WithContext(ctx).Where("nickname = ?", nickname).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entry, false, nil
	}
	if err != nil {
		return entry, false, fmt.Errorf("failed to load directory entry: %w", err)
	}
	return entry, true, nil
}

// Load returns the stored directory as a resolver lookup.
func (s *DirectoryStore) Load(ctx context.Context) (providers.DirectoryMap, error) {
	entries, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	directory := make(providers.DirectoryMap, len(entries))
	for _, entry := range entries {
		directory[entry.Nickname] = entry.URL
	}
	return directory, nil
}

func (s *DirectoryStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.DirectoryEntry{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count directory: %w", err)
	}
	return count, nil
}
