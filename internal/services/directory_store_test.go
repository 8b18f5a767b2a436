package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/stitts-dev/nba-lineup/internal/models"
	"github.com/stitts-dev/nba-lineup/pkg/database"
)

type DirectoryStoreTestSuite struct {
	suite.Suite
	db    *database.DB
	store *DirectoryStore
}

func (s *DirectoryStoreTestSuite) SetupSuite() {
	db, err := database.NewConnection(":memory:", false)
	s.Require().NoError(err)
	s.db = db
	s.store = NewDirectoryStore(db, quietLogger())
	s.Require().NoError(s.store.Migrate())
}

func (s *DirectoryStoreTestSuite) TearDownSuite() {
	s.Require().NoError(s.db.Close())
}

func (s *DirectoryStoreTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM player_directory")
}

func (s *DirectoryStoreTestSuite) TestUpsertAndLoad() {
	ctx := context.Background()
	s.Require().NoError(s.store.Upsert(ctx, []models.DirectoryEntry{
		{Nickname: "StevenAdams", Name: "Steven Adams", URL: "https://example.test/players/a/adamsst01/gamelog/2024"},
		{Nickname: "BradleyBeal", Name: "Bradley Beal", URL: "https://example.test/players/b/bealbr01/gamelog/2024"},
	}))

	directory, err := s.store.Load(ctx)
	s.Require().NoError(err)
	s.Len(directory, 2)

	url, ok := directory.Lookup("BradleyBeal")
	s.True(ok)
	s.Equal("https://example.test/players/b/bealbr01/gamelog/2024", url)

	_, ok = directory.Lookup("Nobody")
	s.False(ok)
}

func (s *DirectoryStoreTestSuite) TestUpsertReplacesURL() {
	ctx := context.Background()
	s.Require().NoError(s.store.Upsert(ctx, []models.DirectoryEntry{
		{Nickname: "StevenAdams", Name: "Steven Adams", URL: "https://example.test/2023"},
	}))
	s.Require().NoError(s.store.Upsert(ctx, []models.DirectoryEntry{
		{Nickname: "StevenAdams", Name: "Steven Adams", URL: "https://example.test/2024"},
	}))

	count, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), count)

	entries, err := s.store.All(ctx)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("https://example.test/2024", entries[0].URL)
}

func (s *DirectoryStoreTestSuite) TestGet() {
	ctx := context.Background()
	s.Require().NoError(s.store.Upsert(ctx, []models.DirectoryEntry{
		{Nickname: "StevenAdams", Name: "Steven Adams", URL: "https://example.test/adams"},
	}))

	entry, found, err := s.store.Get(ctx, "StevenAdams")
	s.Require().NoError(err)
	s.True(found)
	s.Equal("Steven Adams", entry.Name)
	s.Equal("https://example.test/adams", entry.URL)

	_, found, err = s.store.Get(ctx, "Nobody")
	s.Require().NoError(err)
	s.False(found)
}

func (s *DirectoryStoreTestSuite) TestUpsertEmpty() {
	s.NoError(s.store.Upsert(context.Background(), nil))
}

func TestDirectoryStoreTestSuite(t *testing.T) {
	suite.Run(t, new(DirectoryStoreTestSuite))
}
