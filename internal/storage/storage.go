package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chesscore/internal/board"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keySavedGame   = "saved_game"
	keyFirstLaunch = "first_launch"
)

// ErrNoSavedGame is returned by LoadGame when nothing has been saved.
var ErrNoSavedGame = errors.New("no saved game")

// Preferences stores the settings a user last played with.
type Preferences struct {
	Depth           int         `json:"depth"`
	QuiescenceDepth int         `json:"quiescence_depth"`
	PlayerColor     board.Color `json:"player_color"`
	StrictCastling  bool        `json:"strict_castling"`
	LastPlayed      time.Time   `json:"last_played"`
}

// DefaultPreferences returns default preferences
func DefaultPreferences() *Preferences {
	return &Preferences{
		Depth:           3,
		QuiescenceDepth: 5,
		PlayerColor:     board.White,
	}
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed    int           `json:"games_played"`
	Wins           int           `json:"wins"`
	Losses         int           `json:"losses"`
	Draws          int           `json:"draws"`
	WinsByDepth    map[int]int   `json:"wins_by_depth"`
	TotalPlayTime  time.Duration `json:"total_play_time"`
	LongestWinStrk int           `json:"longest_win_streak"`
	CurrentStreak  int           `json:"current_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{WinsByDepth: make(map[int]int)}
}

// WinRate returns the win rate as a percentage (0-100)
func (s *GameStats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// GameResult is the outcome of a finished game from the human's side.
type GameResult struct {
	Won      bool
	Draw     bool
	Depth    int // engine depth the game was played at
	Duration time.Duration
}

// SavedGame is a game in progress: the start position plus the moves
// played from it in coordinate notation.
type SavedGame struct {
	StartFEN    string      `json:"start_fen"`
	Moves       []string    `json:"moves"`
	PlayerColor board.Color `json:"player_color"`
	SavedAt     time.Time   `json:"saved_at"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db     *badger.DB
	logger *log.Logger
}

// NewStorage opens the database under dataDir (the platform data directory
// when empty). A nil logger discards.
func NewStorage(dataDir string, logger *log.Logger) (*Storage, error) {
	dbDir, err := GetDatabaseDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("storage: data dir: %w", err)
	}
	s, err := open(badger.DefaultOptions(dbDir), logger)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("[STORAGE] opened %s", dbDir)
	return s, nil
}

// NewMemoryStorage opens a database that lives only in memory.
func NewMemoryStorage(logger *log.Logger) (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), logger)
}

func open(opts badger.Options, logger *log.Logger) (*Storage, error) {
	opts.Logger = nil // badger's own logging is too chatty

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Storage{db: db, logger: logger}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// put stores v as JSON under key.
func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	return nil
}

// get decodes the JSON stored under key into v. It reports false, leaving v
// untouched, when the key is absent.
func (s *Storage) get(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if err != nil {
		return false, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return found, nil
}

// SavePreferences saves preferences
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	if err := s.put(keyPreferences, prefs); err != nil {
		return err
	}
	s.logger.Printf("[STORAGE] saved preferences: depth %d, quiescence %d, player %s",
		prefs.Depth, prefs.QuiescenceDepth, prefs.PlayerColor)
	return nil
}

// LoadPreferences loads preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	if _, err := s.get(keyPreferences, prefs); err != nil {
		return DefaultPreferences(), err
	}
	return prefs, nil
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.put(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	if _, err := s.get(keyStats, stats); err != nil {
		return NewGameStats(), err
	}
	if stats.WinsByDepth == nil {
		stats.WinsByDepth = make(map[int]int)
	}
	return stats, nil
}

// RecordGame records a completed game and updates statistics
func (s *Storage) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += result.Duration

	switch {
	case result.Draw:
		stats.Draws++
		stats.CurrentStreak = 0
	case result.Won:
		stats.Wins++
		stats.CurrentStreak++
		stats.LongestWinStrk = max(stats.LongestWinStrk, stats.CurrentStreak)
		stats.WinsByDepth[result.Depth]++
	default:
		stats.Losses++
		stats.CurrentStreak = 0
	}

	if err := s.SaveStats(stats); err != nil {
		return err
	}
	s.logger.Printf("[STORAGE] recorded game %d: %d wins, %d losses, %d draws",
		stats.GamesPlayed, stats.Wins, stats.Losses, stats.Draws)
	return nil
}

// SaveGame stores the game in progress, replacing any earlier one.
func (s *Storage) SaveGame(g *SavedGame) error {
	g.SavedAt = time.Now()
	if err := s.put(keySavedGame, g); err != nil {
		return err
	}
	s.logger.Printf("[STORAGE] saved game: %d moves", len(g.Moves))
	return nil
}

// LoadGame returns the saved game, or ErrNoSavedGame.
func (s *Storage) LoadGame() (*SavedGame, error) {
	var g SavedGame
	found, err := s.get(keySavedGame, &g)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoSavedGame
	}
	return &g, nil
}

// ClearGame deletes the saved game. Clearing when nothing is saved is not
// an error.
func (s *Storage) ClearGame() error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keySavedGame))
	})
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", keySavedGame, err)
	}
	return nil
}
