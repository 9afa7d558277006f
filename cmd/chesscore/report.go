package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/hailam/chesscore/internal/analysis"
	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/notation"
)

func printDivide(w io.Writer, pos *board.Position, depth int) {
	var total uint64
	for _, e := range pos.Divide(depth) {
		fmt.Fprintf(w, "%s: %d\n", e.Move, e.Nodes)
		total += e.Nodes
	}
	fmt.Fprintf(w, "\nNodes searched: %d\n", total)
}

func printEval(w io.Writer, pos *board.Position) {
	b := engine.Explain(pos)
	row := func(name string, s engine.Score) {
		fmt.Fprintf(w, "%-15s %6d %6d\n", name, s.MG, s.EG)
	}
	fmt.Fprintf(w, "%-15s %6s %6s\n", "term", "mg", "eg")
	row("material", b.Material)
	row("piece-square", b.PieceSquare)
	row("pawn structure", b.PawnStructure)
	row("mobility", b.Mobility)
	row("king safety", b.KingSafety)
	row("passed pawns", b.PassedPawns)
	row("pieces", b.Pieces)
	fmt.Fprintf(w, "phase %d/%d, total %d (%s)\n", b.Phase, engine.MaxPhase, b.Total, engine.ScoreToString(b.Total))
}

func printBestMove(w io.Writer, eng *engine.Engine, pos *board.Position) {
	res := eng.Search(pos)
	if !res.Found {
		if pos.InCheck() {
			fmt.Fprintln(w, "bestmove 0000 (checkmate)")
		} else {
			fmt.Fprintln(w, "bestmove 0000 (stalemate)")
		}
		return
	}
	fmt.Fprintf(w, "bestmove %s (%s) score %s nodes %d\n",
		res.Move, sanOrEmpty(pos, res.Move), engine.ScoreToString(res.Score), res.Nodes)
}

// sanOrEmpty returns the algebraic form of m, or "" when the notation
// library rejects the move (castling through check under permissive rules).
func sanOrEmpty(pos *board.Position, m board.Move) string {
	san, err := notation.SAN(pos, m)
	if err != nil {
		return ""
	}
	return san
}

func analyze(cfg config.Config, logger *log.Logger) error {
	fens, err := readPositions(*analyzeFlag)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &analysis.Analyzer{
		Depth:           cfg.Depth,
		QuiescenceDepth: cfg.QuiescenceDepth,
		Workers:         cfg.Workers,
		Rules:           cfg.Rules(),
		Logger:          logger,
	}
	reports, err := a.Run(ctx, fens)
	for _, r := range reports {
		switch {
		case r.FEN == "":
			// not started
		case r.Err != nil:
			fmt.Printf("%d\terror\t%v\n", r.Index+1, r.Err)
		case r.Checkmate:
			fmt.Printf("%d\tcheckmate\t%s\n", r.Index+1, r.FEN)
		case r.Stalemate:
			fmt.Printf("%d\tstalemate\t%s\n", r.Index+1, r.FEN)
		default:
			fmt.Printf("%d\t%s\t%s\teval %s\tnodes %d\t%s\n", r.Index+1, r.Move,
				engine.ScoreToString(r.Score), engine.ScoreToString(r.Eval), r.Nodes, r.FEN)
		}
	}
	return err
}

// readPositions reads one position string per line, skipping blank lines
// and lines starting with '#'.
func readPositions(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var fens []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fens = append(fens, line)
	}
	return fens, scanner.Err()
}
