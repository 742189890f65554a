package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/park285/checkers-bot-tournament/internal/bot"
	"github.com/park285/checkers-bot-tournament/internal/builder"
	"github.com/park285/checkers-bot-tournament/internal/config"
	"github.com/park285/checkers-bot-tournament/internal/obslog"
	"github.com/park285/checkers-bot-tournament/internal/statusapi"
	"github.com/park285/checkers-bot-tournament/internal/store"
	"github.com/park285/checkers-bot-tournament/pkg/resultdto"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

type runFlags struct {
	configPath  string
	outputDir   string
	statusAddr  string
	feedAddr    string
	templateDir string
	bots        []string
	mode        string
	challenger  string
	boardSize   int
	rounds      int
	doubled     bool
	concurrency int
	seed        int64
	moveLimit   time.Duration
	quiet       bool
	verbose     bool
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	rf := &runFlags{}
	root := &cobra.Command{
		Use:          "checkers",
		Short:        "Run checkers bot tournaments",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         func(cmd *cobra.Command, _ []string) error { return runTournament(cmd, rf, stdout) },
	}
	root.PersistentFlags().StringVar(&rf.configPath, "config", "", "YAML config file (default $CHECKERS_CONFIG)")

	run := &cobra.Command{
		Use:   "run",
		Short: "Play a tournament and print the results",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, _ []string) error { return runTournament(cmd, rf, stdout) },
	}
	for _, c := range []*cobra.Command{root, run} {
		f := c.Flags()
		f.StringVar(&rf.outputDir, "output-dir", "", "write checkers_game_results_<ts>/ under this directory")
		f.StringVar(&rf.statusAddr, "status-addr", "", "serve the status API on this address while running")
		f.StringVar(&rf.feedAddr, "feed-addr", "", "serve the live WebSocket feed on this address while running")
		f.StringVar(&rf.templateDir, "template-dir", "", "directory of report template overrides")
		f.StringSliceVar(&rf.bots, "bots", nil, "roster as Bot or id=Bot, comma separated")
		f.StringVar(&rf.mode, "mode", "", "pairing mode: all or one")
		f.StringVar(&rf.challenger, "challenger", "", "challenger ID for mode one")
		f.IntVar(&rf.boardSize, "board-size", 0, "board size (even, 6 to 16)")
		f.IntVar(&rf.rounds, "rounds", 0, "rounds to play")
		f.BoolVar(&rf.doubled, "doubled", false, "play every pairing with both colours")
		f.IntVar(&rf.concurrency, "concurrency", 0, "matches played at once")
		f.Int64Var(&rf.seed, "seed", 0, "seed for the random bots")
		f.DurationVar(&rf.moveLimit, "move-time-limit", 0, "time allowed per move")
		f.BoolVar(&rf.quiet, "quiet", false, "do not print the report to stdout")
		f.BoolVar(&rf.verbose, "verbose", false, "keep a board trace of every ply in game_<id>.txt")
	}

	root.AddCommand(run, newBotsCmd(stdout), newStatusCmd(stdout, rf), newWatchCmd(stdout))
	return root
}

func (rf *runFlags) apply(cmd *cobra.Command, cfg *config.AppConfig) error {
	f := cmd.Flags()
	if f.Changed("bots") {
		cfg.Bots = nil
		for _, s := range rf.bots {
			spec, err := config.ParseBotSpec(s)
			if err != nil {
				return err
			}
			cfg.Bots = append(cfg.Bots, spec)
		}
	}
	if f.Changed("mode") {
		cfg.Mode = rf.mode
	}
	if f.Changed("challenger") {
		cfg.Challenger = rf.challenger
	}
	if f.Changed("board-size") {
		cfg.BoardSize = rf.boardSize
	}
	if f.Changed("rounds") {
		cfg.Rounds = rf.rounds
	}
	if f.Changed("doubled") {
		cfg.Doubled = rf.doubled
	}
	if f.Changed("concurrency") {
		cfg.ConcurrencyLimit = rf.concurrency
	}
	if f.Changed("seed") {
		cfg.Seed = rf.seed
	}
	if f.Changed("move-time-limit") {
		cfg.MoveTimeLimit = rf.moveLimit
	}
	if f.Changed("output-dir") {
		cfg.OutputDir = rf.outputDir
	}
	if f.Changed("status-addr") {
		cfg.StatusAddr = rf.statusAddr
	}
	if f.Changed("feed-addr") {
		cfg.FeedAddr = rf.feedAddr
	}
	if f.Changed("template-dir") {
		cfg.TemplateDir = rf.templateDir
	}
	if f.Changed("verbose") {
		cfg.Verbose = rf.verbose
	}
	return nil
}

func runTournament(cmd *cobra.Command, rf *runFlags, stdout io.Writer) error {
	if err := obslog.Init(obslog.OptionsFromEnv()); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer obslog.Sync()
	logger := obslog.L()

	cfg, err := config.Load(rf.configPath)
	if err != nil {
		return err
	}
	if err := rf.apply(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := builder.New(ctx, cfg, bot.DefaultRegistry(), logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := deps.Close(); cerr != nil {
			logger.Warn("close_failed", zap.Error(cerr))
		}
	}()

	if cfg.StatusAddr != "" {
		go func() {
			if err := deps.Status.ListenAndServe(cfg.StatusAddr); err != nil {
				logger.Error("status_api_failed", zap.Error(err))
			}
		}()
		defer func() { _ = deps.Status.Shutdown() }()
	}
	if cfg.FeedAddr != "" {
		feedSrv := &http.Server{Addr: cfg.FeedAddr, Handler: deps.Feed, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			logger.Info("feed_listen", zap.String("addr", cfg.FeedAddr))
			if err := feedSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("feed_failed", zap.Error(err))
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = feedSrv.Shutdown(sctx)
		}()
	}

	st, results, err := deps.Run(ctx)
	if err != nil {
		return err
	}

	if !rf.quiet {
		if err := deps.Report.WriteSummary(stdout, results); err != nil {
			return err
		}
		if err := deps.Report.WriteStats(stdout, st); err != nil {
			return err
		}
	}
	if cfg.OutputDir != "" {
		dir, err := deps.Report.WriteDir(cfg.OutputDir, time.Now(), results, st)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "results written to %s\n", dir)
	}
	return nil
}

func newBotsCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "bots",
		Short: "List the registered bots",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			for _, name := range bot.DefaultRegistry().Names() {
				fmt.Fprintln(stdout, name)
			}
			return nil
		},
	}
}

func newStatusCmd(stdout io.Writer, rf *runFlags) *cobra.Command {
	var addr, runID, redisURL, databaseURL string
	c := &cobra.Command{
		Use:   "status",
		Short: "Show progress and standings of a running or stored tournament",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()
			if runID != "" {
				cfg, err := config.Load(rf.configPath)
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("redis-url") {
					cfg.RedisURL = redisURL
				}
				if cmd.Flags().Changed("database-url") {
					cfg.DatabaseURL = databaseURL
				}
				return showStoredRun(ctx, stdout, cfg, runID)
			}
			client := statusapi.NewClient(addr)
			p, err := client.Progress(ctx)
			if err != nil {
				return err
			}
			st, err := client.Standings(ctx)
			if err != nil {
				return err
			}
			printProgress(stdout, *p)
			printStandings(stdout, *st)
			return nil
		},
	}
	f := c.Flags()
	f.StringVar(&addr, "addr", "http://127.0.0.1:8080", "status API base URL")
	f.StringVar(&runID, "run", "", "read this run from Redis or Postgres instead of the status API")
	f.StringVar(&redisURL, "redis-url", "", "Redis holding the run (default from config)")
	f.StringVar(&databaseURL, "database-url", "", "Postgres holding the run, preferred over Redis (default from config)")
	return c
}

func showStoredRun(ctx context.Context, w io.Writer, cfg *config.AppConfig, runID string) error {
	rd, err := store.OpenReader(ctx, cfg.RedisURL, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer rd.Close()
	rep, err := store.LoadRun(ctx, rd, runID)
	if err != nil {
		return err
	}
	status := store.StatusRunning
	if rep.Finished() {
		status = store.StatusFinished
	}
	run := rep.Run
	fmt.Fprintf(w, "run %s: %s, %d/%d games, mode %s on %dx%d\n",
		run.ID, status, len(rep.Matches), run.Games, run.Mode, run.BoardSize, run.BoardSize)
	for _, m := range rep.Matches {
		line := fmt.Sprintf("game %d %s vs %s: %s (%s) %d moves", m.GameID, m.White, m.Black, m.Result, m.Reason, m.Moves)
		if m.FailedBot != "" {
			line += " forfeit by " + m.FailedBot
		}
		fmt.Fprintln(w, line)
	}
	for _, s := range rep.Standings {
		fmt.Fprintf(w, "%3d. %-20s %5.1f  W%d D%d L%d  elo %.0f\n", s.Rank, s.BotID, s.Score, s.Wins, s.Draws, s.Losses, s.Rating)
	}
	return nil
}

func newWatchCmd(stdout io.Writer) *cobra.Command {
	var url string
	c := &cobra.Command{
		Use:   "watch",
		Short: "Follow a running tournament over the live feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return statusapi.Watch(ctx, url, func(ev resultdto.Event) {
				switch ev.Type {
				case resultdto.EventMatch:
					if m := ev.Match; m != nil {
						winner := m.Winner
						if winner == "" {
							winner = "-"
						}
						fmt.Fprintf(stdout, "[%d/%d] game %d %s vs %s: %s (%s) winner %s\n",
							ev.Progress.Done, ev.Progress.Total, m.GameID, m.White, m.Black, m.Result, m.Reason, winner)
					}
				case resultdto.EventFinished:
					if ev.Standings != nil {
						printStandings(stdout, *ev.Standings)
					}
				default:
					printProgress(stdout, ev.Progress)
				}
			})
		},
	}
	c.Flags().StringVar(&url, "url", "ws://127.0.0.1:8081/", "live feed WebSocket URL")
	return c
}

func printProgress(w io.Writer, p resultdto.Progress) {
	fmt.Fprintf(w, "run %s: %s, %d/%d games\n", orDash(p.RunID), p.Status, p.Done, p.Total)
}

func printStandings(w io.Writer, st resultdto.Standings) {
	label := "provisional"
	if st.Final {
		label = "final"
	}
	fmt.Fprintf(w, "%s standings after %d games\n", label, st.Games)
	for _, e := range st.Entries {
		fmt.Fprintf(w, "%3d. %-20s %5.1f  W%d D%d L%d  elo %.0f\n", e.Rank, e.ID, e.Score, e.Wins, e.Draws, e.Losses, e.Rating)
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
