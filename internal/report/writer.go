package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/park285/checkers-bot-tournament/internal/checkers"
	"github.com/park285/checkers-bot-tournament/internal/match"
	"github.com/park285/checkers-bot-tournament/internal/tournament"
)

const (
	SummaryFile = "game_result_summary.txt"
	StatsFile   = "game_result_stats.txt"
	dirPrefix   = "checkers_game_results_"
	dirLayout   = "20060102_150405"
)

// Writer renders match summaries and the standings table as plain text.
type Writer struct {
	cat *Catalog
}

func NewWriter(cat *Catalog) *Writer { return &Writer{cat: cat} }

type sideView struct {
	Name      string
	Colour    string
	KingsMade int
	Captures  int
}

type matchView struct {
	GameID    int
	Round     int
	Result    string
	Reason    string
	FailedBot string
	Error     string
	Decisive  bool
	First     sideView
	Second    sideView
	Moves     int
	PDN       string
}

func viewOf(r *match.Result) matchView {
	white := sideView{Name: r.White, Colour: strings.ToUpper(checkers.White.String()), KingsMade: r.WhiteStats.KingsMade, Captures: r.WhiteStats.Captures}
	black := sideView{Name: r.Black, Colour: strings.ToUpper(checkers.Black.String()), KingsMade: r.BlackStats.KingsMade, Captures: r.BlackStats.Captures}
	v := matchView{
		GameID:    r.GameID,
		Round:     r.Round,
		Result:    resultLabel(r.Outcome),
		Reason:    string(r.Reason),
		FailedBot: r.FailedBot,
		Error:     r.Error,
		First:     white,
		Second:    black,
		Moves:     r.Moves,
		PDN:       r.PDN,
	}
	switch r.Outcome {
	case checkers.WhiteWins:
		v.Decisive = true
	case checkers.BlackWins:
		v.Decisive = true
		v.First, v.Second = black, white
	}
	return v
}

func resultLabel(r checkers.Result) string {
	switch r {
	case checkers.WhiteWins, checkers.BlackWins:
		return r.String() + " wins"
	default:
		return r.String()
	}
}

// WriteSummary writes one block per result in the given order.
func (w *Writer) WriteSummary(out io.Writer, results []*match.Result) error {
	for _, r := range results {
		s, err := w.cat.Render("report.match.summary", viewOf(r))
		if err != nil {
			return err
		}
		if _, err := io.WriteString(out, s); err != nil {
			return err
		}
	}
	return nil
}

type plyView struct {
	Ply   int
	Side  string
	From  int
	To    int
	Book  bool
	Board string
}

// WriteGame writes a single result followed by its PDN move text and, for
// verbose games, the board after every ply.
func (w *Writer) WriteGame(out io.Writer, r *match.Result) error {
	if err := w.WriteSummary(out, []*match.Result{r}); err != nil {
		return err
	}
	s, err := w.cat.Render("report.match.moves", viewOf(r))
	if err != nil {
		return err
	}
	if _, err := io.WriteString(out, s); err != nil {
		return err
	}
	if len(r.Trace) == 0 {
		return nil
	}
	plies := make([]plyView, 0, len(r.Trace))
	for _, p := range r.Trace {
		plies = append(plies, plyView{Ply: p.Ply, Side: p.Side.String(), From: p.From, To: p.To, Book: p.Book, Board: p.Board})
	}
	if s, err = w.cat.Render("report.match.trace", plies); err != nil {
		return err
	}
	_, err = io.WriteString(out, s)
	return err
}

// WriteStats writes the table in rank order.
func (w *Writer) WriteStats(out io.Writer, st *tournament.Standings) error {
	var b strings.Builder
	s, err := w.cat.Render("report.stats.header", nil)
	if err != nil {
		return err
	}
	b.WriteString(s)
	if st != nil {
		for _, e := range st.Entries {
			s, err := w.cat.Render("report.stats.entry", e)
			if err != nil {
				return err
			}
			b.WriteString(s)
		}
	}
	if s, err = w.cat.Render("report.stats.footer", nil); err != nil {
		return err
	}
	b.WriteString(s)
	_, err = io.WriteString(out, b.String())
	return err
}

// WriteDir creates checkers_game_results_<timestamp> under root and writes the
// summary, the stats table and one game_<id>.txt per game with moves.
// It returns the created directory.
func (w *Writer) WriteDir(root string, now time.Time, results []*match.Result, st *tournament.Standings) (string, error) {
	dir := filepath.Join(root, dirPrefix+now.Format(dirLayout))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	if err := writeFile(filepath.Join(dir, SummaryFile), func(f io.Writer) error { return w.WriteSummary(f, results) }); err != nil {
		return dir, err
	}
	for _, r := range results {
		if len(r.History) == 0 && len(r.Trace) == 0 {
			continue
		}
		name := filepath.Join(dir, fmt.Sprintf("game_%d.txt", r.GameID))
		if err := writeFile(name, func(f io.Writer) error { return w.WriteGame(f, r) }); err != nil {
			return dir, err
		}
	}
	if err := writeFile(filepath.Join(dir, StatsFile), func(f io.Writer) error { return w.WriteStats(f, st) }); err != nil {
		return dir, err
	}
	return dir, nil
}

func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(f)
}
