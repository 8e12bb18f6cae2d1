package search

import (
	"sync/atomic"
	"time"

	"github.com/chesscore/chesscore/internal/board"
)

// Search bounds and ply limits.
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

// PVTable stores the principal variation collected during the last search.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// Searcher performs negamax alpha-beta search with quiescence, iterative
// deepening, and move ordering over a single Position. A Searcher is not
// safe for concurrent use; callers that want parallel analysis run
// separate Searchers over separate Positions.
type Searcher struct {
	pos     *board.Position
	tt      *TranspositionTable
	orderer *MoveOrderer
	timer   *TimeManager

	nodes    uint64
	stopFlag atomic.Bool

	pv        PVTable
	pawnCache pawnCache

	undoStack [MaxPly]board.UndoInfo
}

// NewSearcher creates a Searcher. tt may be nil, in which case the search
// runs without a transposition table.
func NewSearcher(tt *TranspositionTable) *Searcher {
	return &Searcher{
		tt:      tt,
		orderer: NewMoveOrderer(),
		timer:   NewTimeManager(),
	}
}

// Stop signals the current search to return as soon as it next polls
// the flag. Safe to call from another goroutine. Each new search clears
// the flag when it starts (see Reset), so a Stop issued between
// searches has no effect on the next one.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Reset clears per-search state without touching the transposition table,
// whose entries are meant to survive across searches.
func (s *Searcher) Reset() {
	s.stopFlag.Store(false)
	s.nodes = 0
	s.orderer.Clear()
	if s.tt != nil {
		s.tt.NewSearch()
	}
}

// Nodes returns the number of nodes visited by the most recent search.
func (s *Searcher) Nodes() uint64 { return s.nodes }

// Info is reported to the caller once per completed iterative-deepening
// depth, mirroring what a UCI "info" line needs.
type Info struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	PV    []board.Move
}

// IterativeDeepening searches pos with increasingly deep iterations until
// limits are reached or Stop is called, calling report after each
// completed depth. It returns the best move and score found at the
// deepest completed iteration.
func (s *Searcher) IterativeDeepening(pos *board.Position, limits UCILimits, report func(Info)) (board.Move, int) {
	s.pos = pos
	s.Reset()
	s.timer.Init(limits, pos.SideToMove, pos.FullMoveNumber*2)

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > MaxPly-1 {
		maxDepth = MaxPly - 1
	}

	var bestMove board.Move
	var bestScore int
	start := time.Now()

	stability, changes := 0, 0

	for depth := 1; depth <= maxDepth; depth++ {
		score := s.negamax(depth, 0, -Infinity, Infinity)

		if s.stopFlag.Load() {
			break
		}

		bestScore = score
		if s.pv.length[0] > 0 {
			newBest := s.pv.moves[0][0]
			if depth > 1 && newBest == bestMove {
				stability++
				changes = 0
			} else if depth > 1 {
				changes++
				stability = 0
			}
			bestMove = newBest
		}

		if report != nil {
			report(Info{
				Depth: depth,
				Score: bestScore,
				Nodes: s.nodes,
				Time:  time.Since(start),
				PV:    s.GetPV(),
			})
		}

		if limits.Nodes > 0 && s.nodes >= limits.Nodes {
			break
		}

		if !limits.Infinite && limits.MoveTime == 0 {
			if stability > 0 {
				s.timer.AdjustForStability(stability)
			} else if changes > 0 {
				s.timer.AdjustForInstability(changes)
			}
		}
		if !limits.Infinite && s.timer.PastOptimum() {
			break
		}
	}

	return bestMove, bestScore
}

// Search runs a single fixed-depth search, without iterative deepening
// or time control.
func (s *Searcher) Search(pos *board.Position, depth int) (board.Move, int) {
	s.pos = pos
	s.Reset()

	score := s.negamax(depth, 0, -Infinity, Infinity)

	var bestMove board.Move
	if s.pv.length[0] > 0 {
		bestMove = s.pv.moves[0][0]
	}
	return bestMove, score
}

func (s *Searcher) negamax(depth, ply int, alpha, beta int) int {
	if s.nodes&4095 == 0 && s.stopFlag.Load() {
		return 0
	}

	s.nodes++
	s.pv.length[ply] = ply

	if ply > 0 && s.isDraw() {
		return 0
	}

	var ttMove board.Move
	if s.tt != nil {
		ttEntry, found := s.tt.Probe(s.pos.Hash)
		if found {
			ttMove = ttEntry.BestMove
			if int(ttEntry.Depth) >= depth {
				score := AdjustScoreFromTT(int(ttEntry.Score), ply)
				switch ttEntry.Flag {
				case TTExact:
					if score >= beta {
						return beta
					}
					if score <= alpha {
						return alpha
					}
					return score
				case TTLowerBound:
					if score > alpha {
						alpha = score
					}
				case TTUpperBound:
					if score < beta {
						beta = score
					}
				}
				if alpha >= beta {
					if ttEntry.Flag == TTLowerBound {
						return beta
					}
					return alpha
				}
			}
		}
	}

	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}

	inCheck := s.pos.InCheck()

	// Null move pruning: if passing the move entirely still lets the
	// opponent fail high, the real position is safely above beta too.
	// Skipped near the root, in check, and in pure pawn endings, where
	// zugzwang makes the null move's assumption unsound.
	if depth >= 3 && ply > 0 && !inCheck && s.pos.HasNonPawnMaterial() {
		const nullReduction = 3
		nullUndo := s.pos.MakeNullMove()
		score := -s.negamax(depth-1-nullReduction, ply+1, -beta, -beta+1)
		s.pos.UnmakeNullMove(nullUndo)

		if score >= beta {
			return beta
		}
	}

	moves := s.pos.GenerateLegalMoves()

	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	scores := s.orderer.ScoreMoves(s.pos, moves, ply, ttMove)

	bestScore := -Infinity
	bestMove := board.NoMove
	flag := TTUpperBound

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		s.undoStack[ply] = s.pos.MakeMove(move)
		if !s.undoStack[ply].Valid {
			continue
		}

		score := -s.negamax(depth-1, ply+1, -beta, -alpha)

		s.pos.UnmakeMove(move, s.undoStack[ply])

		if s.stopFlag.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = move

			if score > alpha {
				alpha = score
				flag = TTExact

				s.pv.moves[ply][ply] = move
				for j := ply + 1; j < s.pv.length[ply+1]; j++ {
					s.pv.moves[ply][j] = s.pv.moves[ply+1][j]
				}
				s.pv.length[ply] = s.pv.length[ply+1]
			}
		}

		if score >= beta {
			if s.tt != nil {
				s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(score, ply), TTLowerBound, bestMove)
			}
			if !move.IsCapture(s.pos) {
				s.orderer.UpdateKillers(move, ply)
				s.orderer.UpdateHistory(move, depth, true)
			}
			return beta
		}
	}

	if s.tt != nil {
		s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(bestScore, ply), flag, bestMove)
	}

	return alpha
}

// quiescence extends search along captures only, so the static eval at
// the search horizon isn't fooled by a hanging piece one ply deep.
func (s *Searcher) quiescence(ply int, alpha, beta int) int {
	const maxQuiescencePly = 32
	if ply >= MaxPly || ply > maxQuiescencePly {
		return evaluate(s.pos, &s.pawnCache)
	}
	if s.stopFlag.Load() {
		return 0
	}

	s.nodes++

	standPat := evaluate(s.pos, &s.pawnCache)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	bigDelta := QueenValue
	if standPat+bigDelta < alpha {
		return alpha
	}

	moves := s.pos.GenerateCaptures()
	scores := s.orderer.ScoreMoves(s.pos, moves, ply, board.NoMove)

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		if !s.pos.InCheck() {
			var captureValue int
			if move.IsEnPassant() {
				captureValue = PawnValue
			} else if captured := s.pos.PieceAt(move.To()); captured != board.NoPiece {
				captureValue = pieceValues[captured.Type()]
			}
			if move.IsPromotion() {
				captureValue += QueenValue - PawnValue
			}
			if standPat+captureValue+200 < alpha {
				continue
			}
		}

		undo := s.pos.MakeMove(move)
		if !undo.Valid {
			continue
		}

		score := -s.quiescence(ply+1, -beta, -alpha)
		s.pos.UnmakeMove(move, undo)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

func (s *Searcher) isDraw() bool {
	if s.pos.HalfMoveClock >= 100 {
		return true
	}
	if s.pos.IsInsufficientMaterial() {
		return true
	}
	return s.pos.IsThreefoldRepetition()
}

// GetPV returns the principal variation collected by the last search.
func (s *Searcher) GetPV() []board.Move {
	pv := make([]board.Move, s.pv.length[0])
	for i := 0; i < s.pv.length[0]; i++ {
		pv[i] = s.pv.moves[0][i]
	}
	return pv
}
