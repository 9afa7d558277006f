// chesscore runs the engine from the command line: move generation checks,
// static evaluation, best-move search, batch analysis and a text game.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

var (
	fenFlag        = flag.String("fen", board.StartFEN, "position to work on")
	depthFlag      = flag.Int("depth", 3, "search depth in plies")
	qdepthFlag     = flag.Int("qdepth", engine.DefaultQuiescenceDepth, "quiescence depth in plies")
	strictFlag     = flag.Bool("strict-castling", false, "forbid castling out of, through or into check")
	workersFlag    = flag.Int("workers", 0, "concurrent searches for -analyze (0 = one per CPU)")
	verboseFlag    = flag.Bool("v", false, "log engine and game activity to stderr")
	perftFlag      = flag.Int("perft", 0, "count leaf nodes to this depth")
	divideFlag     = flag.Int("divide", 0, "perft split by root move")
	evalFlag       = flag.Bool("eval", false, "print the static evaluation")
	bestMoveFlag   = flag.Bool("bestmove", false, "search the position and print the best move")
	analyzeFlag    = flag.String("analyze", "", "file of positions, one per line, to search (- for stdin)")
	playFlag       = flag.Bool("play", false, "play a game against the engine")
	colorFlag      = flag.String("color", "white", "your side in -play")
	resumeFlag     = flag.Bool("resume", false, "continue the saved game in -play")
	dbFlag         = flag.String("db", "", "data directory for preferences and saved games")
	pgnFlag        = flag.String("pgn", "", "write the game to this PGN file when -play ends")
	loadFlag       = flag.String("load", "", "start -play from the game in this PGN file")
	cpuprofileFlag = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	profilePath := *cpuprofileFlag
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	if err := run(); err != nil {
		log.Printf("chesscore: %v", err)
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	logger := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	eng := engine.NewEngine(engine.Options{
		Depth:           cfg.Depth,
		QuiescenceDepth: cfg.QuiescenceDepth,
		Logger:          logger,
	})

	if *playFlag {
		return play(cfg, eng, logger)
	}
	if *analyzeFlag != "" {
		return analyze(cfg, logger)
	}

	pos, err := board.ParseFEN(*fenFlag)
	if err != nil {
		return err
	}
	pos.Rules = cfg.Rules()

	switch {
	case *perftFlag > 0:
		fmt.Printf("nodes %d\n", eng.Perft(pos, *perftFlag))
	case *divideFlag > 0:
		printDivide(os.Stdout, pos, *divideFlag)
	case *evalFlag:
		printEval(os.Stdout, pos)
	case *bestMoveFlag:
		printBestMove(os.Stdout, eng, pos)
	default:
		fmt.Println(pos)
		printEval(os.Stdout, pos)
	}
	return nil
}

// buildConfig starts from the defaults and applies the flags. In -play mode
// stored preferences come first, so only flags given explicitly override them.
func buildConfig() (config.Config, error) {
	cfg := config.Default()
	cfg.DataDir = *dbFlag
	cfg.Verbose = *verboseFlag
	if *workersFlag > 0 {
		cfg.Workers = *workersFlag
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if *playFlag {
		if err := applyStoredPreferences(&cfg, set); err != nil {
			log.Printf("[STORAGE] preferences not loaded: %v", err)
		}
	}

	if set["depth"] {
		cfg.Depth = *depthFlag
	}
	if set["qdepth"] {
		cfg.QuiescenceDepth = *qdepthFlag
	}
	if set["strict-castling"] {
		cfg.StrictCastling = *strictFlag
	}
	if set["color"] {
		c, err := config.ParseColor(*colorFlag)
		if err != nil {
			return cfg, err
		}
		cfg.PlayerColor = c
	}
	return cfg, cfg.Validate()
}

func applyStoredPreferences(cfg *config.Config, set map[string]bool) error {
	store, err := storage.NewStorage(cfg.DataDir, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	prefs, err := store.LoadPreferences()
	if err != nil {
		return err
	}
	cfg.Depth = prefs.Depth
	cfg.QuiescenceDepth = prefs.QuiescenceDepth
	cfg.PlayerColor = prefs.PlayerColor
	cfg.StrictCastling = prefs.StrictCastling
	return nil
}
