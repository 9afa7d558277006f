package board

// GeneratePseudoLegalMoves returns every move the side to move could make
// if leaving its own king in check were allowed. Moves come out grouped by
// piece: knights, king, pawns, rooks, bishops, queens, then castling.
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := NewMoveList()
	us := p.SideToMove

	p.generateStepperMoves(ml, us, Knight, knightAttacks[:])
	p.generateStepperMoves(ml, us, King, kingAttacks[:])
	p.generatePawnMoves(ml, us)
	p.generateSliderMoves(ml, us, Rook, rookDirections)
	p.generateSliderMoves(ml, us, Bishop, bishopDirections)
	p.generateSliderMoves(ml, us, Queen, queenDirections)
	p.generateCastlingMoves(ml, us)

	return ml
}

// GenerateLegalMoves returns the pseudo-legal moves that do not leave the
// mover's king in check.
func (p *Position) GenerateLegalMoves() *MoveList {
	return p.filterLegalMoves(p.GeneratePseudoLegalMoves(), false)
}

// GenerateLegalCaptures returns the legal moves that remove an enemy piece,
// en passant included.
func (p *Position) GenerateLegalCaptures() *MoveList {
	return p.filterLegalMoves(p.GeneratePseudoLegalMoves(), true)
}

func (p *Position) filterLegalMoves(pseudo *MoveList, capturesOnly bool) *MoveList {
	legal := NewMoveList()
	us := p.SideToMove
	for _, m := range pseudo.Slice() {
		if capturesOnly && !m.IsCapture() {
			continue
		}
		saved := p.MakeMove(m)
		inCheck := p.KingInCheck(us)
		p.UnmakeMove(m, saved)
		if !inCheck {
			legal.Add(m)
		}
	}
	return legal
}

// generateStepperMoves handles knights and kings from their tables.
func (p *Position) generateStepperMoves(ml *MoveList, us Color, pt PieceType, table []Bitboard) {
	pieces := p.Pieces[us][pt]
	for pieces != 0 {
		from := pieces.PopLSB()
		targets := table[from] &^ p.Occupied[us]
		for targets != 0 {
			to := targets.PopLSB()
			ml.Add(newMove(from, to, p.PieceAt(to)))
		}
	}
}

// generateSliderMoves walks each ray until the edge, a friendly piece (no
// move) or an enemy piece (capture, then stop).
func (p *Position) generateSliderMoves(ml *MoveList, us Color, pt PieceType, dirs []Direction) {
	pieces := p.Pieces[us][pt]
	for pieces != 0 {
		from := pieces.PopLSB()
		for _, d := range dirs {
			for to, ok := step(from, d); ok; to, ok = step(to, d) {
				target := p.PieceAt(to)
				if target == NoPiece {
					ml.Add(newMove(from, to, NoPiece))
					continue
				}
				if target.Color() != us {
					ml.Add(newMove(from, to, target))
				}
				break
			}
		}
	}
}

func (p *Position) generatePawnMoves(ml *MoveList, us Color) {
	push, startRank, promoRank := dirNorth, 1, 7
	captureDirs := [2]Direction{dirNorthWest, dirNorthEast}
	if us == Black {
		push, startRank, promoRank = dirSouth, 6, 0
		captureDirs = [2]Direction{dirSouthWest, dirSouthEast}
	}
	them := us.Other()

	pawns := p.Pieces[us][Pawn]
	for pawns != 0 {
		from := pawns.PopLSB()

		if to, ok := step(from, push); ok && p.IsEmpty(to) {
			if to.Rank() == promoRank {
				addPromotions(ml, from, to, NoPiece)
			} else {
				ml.Add(newMove(from, to, NoPiece))
				if from.Rank() == startRank {
					if to2, ok := step(to, push); ok && p.IsEmpty(to2) {
						ml.Add(newMove(from, to2, NoPiece))
					}
				}
			}
		}

		for _, d := range captureDirs {
			to, ok := step(from, d)
			if !ok {
				continue
			}
			target := p.PieceAt(to)
			switch {
			case target != NoPiece && target.Color() == them:
				if to.Rank() == promoRank {
					addPromotions(ml, from, to, target)
				} else {
					ml.Add(newMove(from, to, target))
				}
			case target == NoPiece && to == p.EnPassant:
				victim := NewPiece(Pawn, them)
				if p.PieceAt(enPassantVictim(to, us)) != victim {
					continue
				}
				m := newMove(from, to, victim)
				m.EnPassant = true
				ml.Add(m)
			}
		}
	}
}

// addPromotions emits one move per promotion piece.
func addPromotions(ml *MoveList, from, to Square, captured Piece) {
	for _, pt := range PromotionTypes {
		m := newMove(from, to, captured)
		m.Promote = true
		m.Promotion = pt
		ml.Add(m)
	}
}

func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	home, rank := E1, Rank1
	if us == Black {
		home, rank = E8, Rank8
	}
	if p.PieceAt(home) != NewPiece(King, us) {
		return
	}
	them := us.Other()
	strict := p.Rules.StrictCastling
	if strict && p.IsSquareAttacked(home, them) {
		return
	}

	for _, kingSide := range [2]bool{true, false} {
		if !p.CastlingRights.CanCastle(us, kingSide) {
			continue
		}

		var rookSq, kingTo, transit Square
		var between Bitboard
		if kingSide {
			rookSq, kingTo, transit = home+3, home+2, home+1
			between = (FileF | FileG) & rank
		} else {
			rookSq, kingTo, transit = home-4, home-2, home-1
			between = (FileB | FileC | FileD) & rank
		}

		if p.PieceAt(rookSq) != NewPiece(Rook, us) {
			continue
		}
		if p.AllOccupied&between != 0 {
			continue
		}
		if strict && (p.IsSquareAttacked(transit, them) || p.IsSquareAttacked(kingTo, them)) {
			continue
		}

		m := newMove(home, kingTo, NoPiece)
		m.Castling = true
		ml.Add(m)
	}
}

// HasLegalMoves reports whether the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	us := p.SideToMove
	for _, m := range p.GeneratePseudoLegalMoves().Slice() {
		saved := p.MakeMove(m)
		inCheck := p.KingInCheck(us)
		p.UnmakeMove(m, saved)
		if !inCheck {
			return true
		}
	}
	return false
}

// IsCheckmate reports whether the side to move is mated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move has no move but is not in check.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}
