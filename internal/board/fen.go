package board

import (
	"strconv"
	"strings"
)

// StartFEN is the position string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a six-field position string. The fullmove number must be
// a valid integer but is otherwise ignored. Every failure is a
// *PositionError that matches ErrInvalidPosition.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return nil, positionError("fields", fen, errFieldCount)
	}

	pos := &Position{EnPassant: NoSquare}

	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, positionError("side to move", parts[1], errSideToMove)
	}

	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, positionError("en passant", parts[3], err)
		}
		pos.EnPassant = sq
	}

	hmc, err := strconv.Atoi(parts[4])
	if err != nil || hmc < 0 {
		return nil, positionError("halfmove clock", parts[4], errNumber)
	}
	pos.HalfMoveClock = hmc

	if n, err := strconv.Atoi(parts[5]); err != nil || n < 0 {
		return nil, positionError("fullmove number", parts[5], errNumber)
	}

	if err := pos.Validate(); err != nil {
		return nil, err
	}
	return pos, nil
}

// MustParseFEN is ParseFEN for known-good literals; it panics on error.
func MustParseFEN(fen string) *Position {
	pos, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return pos
}

func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return positionError("placement", placement, errRankCount)
	}

	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				if file > 8 {
					return positionError("placement", rankStr, errRankWidth)
				}
				continue
			}
			piece := PieceFromChar(c)
			if piece == NoPiece {
				return positionError("placement", string(c), errPieceLetter)
			}
			if file > 7 {
				return positionError("placement", rankStr, errRankWidth)
			}
			pos.setPiece(piece, NewSquare(file, rank))
			file++
		}
		if file != 8 {
			return positionError("placement", rankStr, errRankWidth)
		}
	}
	return nil
}

func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		return nil
	}
	if castling == "" {
		return positionError("castling", castling, errCastling)
	}
	for i := 0; i < len(castling); i++ {
		var cr CastlingRights
		switch castling[i] {
		case 'K':
			cr = WhiteKingSideCastle
		case 'Q':
			cr = WhiteQueenSideCastle
		case 'k':
			cr = BlackKingSideCastle
		case 'q':
			cr = BlackQueenSideCastle
		default:
			return positionError("castling", castling, errCastling)
		}
		if pos.CastlingRights&cr != 0 {
			return positionError("castling", castling, errCastling)
		}
		pos.CastlingRights |= cr
	}
	return nil
}

// placement renders the piece placement field.
func (p *Position) placement() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// ToFEN returns the position string. The fullmove number is always 1.
func (p *Position) ToFEN() string {
	var sb strings.Builder
	sb.WriteString(p.placement())

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.CastlingRights.String())
	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteString(" 1")

	return sb.String()
}
