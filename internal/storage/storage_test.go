package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/testutil"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewMemoryStorage(nil)
	testutil.AssertNoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPreferences(t *testing.T) {
	s := newTestStorage(t)

	t.Run("defaults when empty", func(t *testing.T) {
		prefs, err := s.LoadPreferences()
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, prefs.Depth, 3)
		testutil.AssertEqual(t, prefs.QuiescenceDepth, 5)
		testutil.AssertEqual(t, prefs.PlayerColor, board.White)
		testutil.AssertFalse(t, prefs.StrictCastling)
	})

	t.Run("round trip", func(t *testing.T) {
		want := &Preferences{Depth: 5, QuiescenceDepth: 2, PlayerColor: board.Black, StrictCastling: true}
		testutil.AssertNoError(t, s.SavePreferences(want))
		testutil.AssertFalse(t, want.LastPlayed.IsZero(), "LastPlayed not stamped")

		got, err := s.LoadPreferences()
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, got.Depth, 5)
		testutil.AssertEqual(t, got.QuiescenceDepth, 2)
		testutil.AssertEqual(t, got.PlayerColor, board.Black)
		testutil.AssertTrue(t, got.StrictCastling)
	})
}

func TestFirstLaunch(t *testing.T) {
	s := newTestStorage(t)

	first, err := s.IsFirstLaunch()
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, first)

	testutil.AssertNoError(t, s.MarkFirstLaunchComplete())
	first, err = s.IsFirstLaunch()
	testutil.AssertNoError(t, err)
	testutil.AssertFalse(t, first)
}

func TestRecordGame(t *testing.T) {
	s := newTestStorage(t)

	results := []GameResult{
		{Won: true, Depth: 3, Duration: time.Minute},
		{Won: true, Depth: 3, Duration: time.Minute},
		{Draw: true, Depth: 4, Duration: time.Minute},
		{Won: true, Depth: 4, Duration: time.Minute},
		{Depth: 5, Duration: time.Minute},
	}
	for _, r := range results {
		testutil.AssertNoError(t, s.RecordGame(r))
	}

	stats, err := s.LoadStats()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, stats.GamesPlayed, 5)
	testutil.AssertEqual(t, stats.Wins, 3)
	testutil.AssertEqual(t, stats.Losses, 1)
	testutil.AssertEqual(t, stats.Draws, 1)
	testutil.AssertEqual(t, stats.LongestWinStrk, 2)
	testutil.AssertEqual(t, stats.CurrentStreak, 0)
	testutil.AssertEqual(t, stats.WinsByDepth, map[int]int{3: 2, 4: 1})
	testutil.AssertEqual(t, stats.TotalPlayTime, 5*time.Minute)
	testutil.AssertEqual(t, stats.WinRate(), 60.0)
}

func TestWinRate(t *testing.T) {
	testutil.AssertEqual(t, NewGameStats().WinRate(), 0.0)

	stats := &GameStats{GamesPlayed: 10, Wins: 5, Losses: 3, Draws: 2}
	testutil.AssertEqual(t, stats.WinRate(), 50.0)
}

func TestSavedGame(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.LoadGame()
	testutil.AssertErrorIs(t, err, ErrNoSavedGame)

	want := &SavedGame{StartFEN: board.StartFEN, Moves: []string{"e2e4", "e7e5", "g1f3"}, PlayerColor: board.White}
	testutil.AssertNoError(t, s.SaveGame(want))

	got, err := s.LoadGame()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got.StartFEN, want.StartFEN)
	testutil.AssertEqual(t, got.Moves, want.Moves)
	testutil.AssertEqual(t, got.PlayerColor, board.White)

	testutil.AssertNoError(t, s.ClearGame())
	_, err = s.LoadGame()
	testutil.AssertErrorIs(t, err, ErrNoSavedGame)
	testutil.AssertNoError(t, s.ClearGame())
}

func TestNewStoragePersists(t *testing.T) {
	dir := t.TempDir()

	s, err := NewStorage(dir, nil)
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, s.SavePreferences(&Preferences{Depth: 6, QuiescenceDepth: 1, PlayerColor: board.Black}))
	testutil.AssertNoError(t, s.Close())

	if _, err := os.Stat(filepath.Join(dir, "db")); err != nil {
		t.Fatalf("database directory not created: %v", err)
	}

	s, err = NewStorage(dir, nil)
	testutil.AssertNoError(t, err)
	defer s.Close()
	prefs, err := s.LoadPreferences()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, prefs.Depth, 6)
	testutil.AssertEqual(t, prefs.PlayerColor, board.Black)
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dataDir, err := GetDataDir()
	testutil.AssertNoError(t, err)
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("data directory was not created: %s", dataDir)
	}

	dbDir, err := GetDatabaseDir("")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, dbDir, filepath.Join(dataDir, "db"))
}
