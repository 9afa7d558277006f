package board

// Perft counts the leaf nodes of the legal move tree to the given depth.
func (p *Position) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for _, m := range moves.Slice() {
		saved := p.MakeMove(m)
		nodes += p.Perft(depth - 1)
		p.UnmakeMove(m, saved)
	}
	return nodes
}

// DivideEntry is the perft count below one root move.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// Divide runs perft below each legal root move, in generation order.
func (p *Position) Divide(depth int) []DivideEntry {
	if depth < 1 {
		depth = 1
	}
	moves := p.GenerateLegalMoves()
	entries := make([]DivideEntry, 0, moves.Len())
	for _, m := range moves.Slice() {
		saved := p.MakeMove(m)
		entries = append(entries, DivideEntry{Move: m, Nodes: p.Perft(depth - 1)})
		p.UnmakeMove(m, saved)
	}
	return entries
}
