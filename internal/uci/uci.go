// Package uci implements the Universal Chess Interface protocol: a
// line-oriented text loop over stdin/stdout that a GUI or tournament
// manager drives, translating "go"/"position"/"stop" commands into
// calls against internal/board and internal/search.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"

	"github.com/chesscore/chesscore/internal/board"
	"github.com/chesscore/chesscore/internal/bookstore"
	"github.com/chesscore/chesscore/internal/perft"
	"github.com/chesscore/chesscore/internal/search"
	"github.com/chesscore/chesscore/internal/telemetry"
	"github.com/chesscore/chesscore/internal/xlog"
)

const defaultHashMB = 64

// UCI implements the Universal Chess Interface protocol over the
// board/search packages.
type UCI struct {
	searcher *search.Searcher
	tt       *search.TranspositionTable
	position *board.Position
	log      logr.Logger
	telem    *telemetry.Recorder

	hashMB int
	debug  bool

	bookPath string
	book     *bookstore.Store

	searching     bool
	searchDone    chan struct{}
	stopRequested atomic.Bool
}

// New creates a UCI protocol handler with a fresh starting position and
// a transposition table sized to defaultHashMB.
func New() *UCI {
	tt := search.NewTranspositionTable(defaultHashMB)
	telem, err := telemetry.NewRecorder(nil)
	if err != nil {
		telem = nil
	}
	return &UCI{
		searcher: search.NewSearcher(tt),
		tt:       tt,
		position: board.NewPosition(),
		log:      xlog.New("uci"),
		telem:    telem,
		hashMB:   defaultHashMB,
	}
}

// Run starts the UCI main loop, reading commands from stdin until
// "quit" or EOF.
func (u *UCI) Run() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleQuit()
		case "setoption":
			u.handleSetOption(args)
		case "d":
			fmt.Println(u.position.String())
		case "perft":
			u.handlePerft(args)
		}
	}
}

func (u *UCI) handleUCI() {
	fmt.Println("id name chesscore")
	fmt.Println("id author the chesscore contributors")
	fmt.Println()
	fmt.Println("option name Hash type spin default 64 min 1 max 4096")
	fmt.Println("option name BookPath type string default <empty>")
	fmt.Println("option name Debug type check default false")
	fmt.Println("uciok")
}

func (u *UCI) handleNewGame() {
	u.tt.Clear()
	u.position = board.NewPosition()
}

// handlePosition parses and sets up a position.
//
//	position startpos
//	position startpos moves e2e4 e7e5
//	position fen <fen>
//	position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var moveStart int

	switch args[0] {
	case "startpos":
		u.position = board.NewPosition()
		moveStart = 1
		for i, arg := range args {
			if arg == "moves" {
				moveStart = i + 1
				break
			}
		}
	case "fen":
		fenEnd := len(args)
		for i, arg := range args[1:] {
			if arg == "moves" {
				fenEnd = i + 1
				break
			}
		}

		fenStr := strings.Join(args[1:fenEnd], " ")
		pos, err := board.ParseFEN(fenStr)
		if err != nil {
			u.log.Error(err, "invalid FEN", "fen", fenStr)
			return
		}
		u.position = pos

		moveStart = len(args)
		for i, arg := range args {
			if arg == "moves" {
				moveStart = i + 1
				break
			}
		}
	default:
		return
	}

	if moveStart >= len(args) {
		return
	}
	for _, moveStr := range args[moveStart:] {
		move, err := board.ParseMove(moveStr, u.position)
		if err != nil {
			u.log.Error(err, "invalid move in position command", "move", moveStr)
			return
		}
		u.position.MakeMove(move)
	}
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth     int
	Nodes     uint64
	MoveTime  time.Duration
	Infinite  bool
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
}

func (u *UCI) handleGo(args []string) {
	opts := parseGoOptions(args)
	limits := u.toLimits(opts)

	u.searching = true
	u.stopRequested.Store(false)
	u.searchDone = make(chan struct{})

	pos := u.position
	searcher := u.searcher

	go func() {
		defer close(u.searchDone)

		bestMove, _ := searcher.IterativeDeepening(pos, limits, func(info search.Info) {
			u.sendInfo(info)
		})

		u.searching = false

		if bestMove != board.NoMove {
			fmt.Printf("bestmove %s\n", bestMove.String())
			return
		}

		legal := pos.GenerateLegalMoves()
		if legal.Len() > 0 {
			fmt.Printf("bestmove %s\n", legal.Get(0).String())
		} else {
			fmt.Println("bestmove 0000")
		}
	}()
}

func parseGoOptions(args []string) GoOptions {
	var opts GoOptions

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "nodes":
			if i+1 < len(args) {
				n, _ := strconv.ParseUint(args[i+1], 10, 64)
				opts.Nodes = n
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "infinite":
			opts.Infinite = true
		case "wtime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.WTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "btime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.BTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "winc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.WInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "binc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.BInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "movestogo":
			if i+1 < len(args) {
				opts.MovesToGo, _ = strconv.Atoi(args[i+1])
				i++
			}
		}
	}

	return opts
}

// toLimits converts GoOptions to search.UCILimits, relative to the side
// to move in the current position.
func (u *UCI) toLimits(opts GoOptions) search.UCILimits {
	limits := search.UCILimits{
		Depth:     opts.Depth,
		Nodes:     opts.Nodes,
		MoveTime:  opts.MoveTime,
		Infinite:  opts.Infinite,
		MovesToGo: opts.MovesToGo,
	}
	limits.Time[board.White] = opts.WTime
	limits.Time[board.Black] = opts.BTime
	limits.Inc[board.White] = opts.WInc
	limits.Inc[board.Black] = opts.BInc
	return limits
}

// sendInfo prints one iterative-deepening iteration as a UCI "info" line.
func (u *UCI) sendInfo(info search.Info) {
	var parts []string

	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))

	if info.Score > search.MateScore-search.MaxPly {
		mateIn := (search.MateScore - info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else if info.Score < -search.MateScore+search.MaxPly {
		mateIn := -(search.MateScore + info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))

	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	parts = append(parts, fmt.Sprintf("hashfull %d", u.tt.HashFull()))

	if len(info.PV) > 0 {
		pvStrs := make([]string, len(info.PV))
		for i, m := range info.PV {
			pvStrs[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(pvStrs, " "))
	}

	fmt.Printf("info %s\n", strings.Join(parts, " "))

	u.telem.RecordIteration(context.Background(), info.Depth, info.Nodes, u.tt.HitRate())

	if u.debug {
		u.log.Info("iteration complete",
			"depth", info.Depth, "nodes", humanize.Comma(int64(info.Nodes)), "tthitrate", humanize.Commaf(u.tt.HitRate()))
	}
}

func (u *UCI) handleStop() {
	if u.searching {
		u.stopRequested.Store(true)
		u.searcher.Stop()
		<-u.searchDone
	}
}

func (u *UCI) handleQuit() {
	u.handleStop()
	if u.book != nil {
		if err := u.book.Close(); err != nil {
			u.log.Error(err, "closing book store")
		}
	}
	os.Exit(0)
}

func (u *UCI) handleSetOption(args []string) {
	name, value := parseSetOption(args)

	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb < 1 {
			return
		}
		u.hashMB = mb
		u.tt = search.NewTranspositionTable(mb)
		u.searcher = search.NewSearcher(u.tt)
	case "bookpath":
		u.bookPath = value
		u.openBook()
	case "debug":
		u.debug = strings.ToLower(value) == "true"
		if u.debug {
			u.log.Info("debug mode enabled")
		}
	}
}

func parseSetOption(args []string) (name, value string) {
	readingName, readingValue := false, false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName, readingValue = true, false
		case "value":
			readingName, readingValue = false, true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	return name, value
}

// openBook (re)opens the disk-backed book store at u.bookPath, closing
// any store already open. A failure here only disables the book hook;
// the engine keeps searching without it.
func (u *UCI) openBook() {
	if u.book != nil {
		u.book.Close()
		u.book = nil
	}
	if u.bookPath == "" {
		return
	}

	store, err := bookstore.Open(u.bookPath)
	if err != nil {
		u.log.Error(err, "opening book store", "path", u.bookPath)
		return
	}
	u.book = store
}

// handlePerft runs a perft node count, or a per-root-move divide when
// called as "perft divide <depth>".
func (u *UCI) handlePerft(args []string) {
	divide := false
	if len(args) > 0 && args[0] == "divide" {
		divide = true
		args = args[1:]
	}

	depth := 5
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil {
			depth = d
		}
	}

	start := time.Now()

	if divide {
		entries := perft.Divide(u.position, depth)
		var total uint64
		for _, e := range entries {
			fmt.Printf("%s: %d\n", e.Move.String(), e.Nodes)
			total += e.Nodes
		}
		fmt.Printf("\nNodes searched: %s\n", humanize.Comma(int64(total)))
		return
	}

	nodes := perft.Count(u.position, depth)
	elapsed := time.Since(start)

	fmt.Printf("Nodes: %s\n", humanize.Comma(int64(nodes)))
	fmt.Printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		fmt.Printf("NPS: %s\n", humanize.Comma(int64(nps)))
	}
}
