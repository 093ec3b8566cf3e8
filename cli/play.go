package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"igo-local/app"
	"igo-local/config"
	"igo-local/engine"
	"igo-local/engine/gtp"
	"igo-local/engine/local"
	"igo-local/fpscounter"
	"igo-local/game"
	"igo-local/ui"
)

// PlayOptions holds the flags of the root command.
type PlayOptions struct {
	*RootOptions

	BoardSize int
	Engine    string
	Komi      float64
	Seed      uint64
	TPS       int
	MaxMoves  int
	NoRecord  bool

	Headless bool
	Ticks    int
}

func addPlayFlags(cmd *cobra.Command, opts *PlayOptions) {
	f := cmd.Flags()
	f.IntVar(&opts.BoardSize, "boardsize", 0, "board size (9, 13 or 19)")
	f.StringVar(&opts.Engine, "engine", "", "rules engine (local|gnugo)")
	f.Float64Var(&opts.Komi, "komi", 0, "komi added to white's score")
	f.Uint64Var(&opts.Seed, "seed", 0, "seed for the random players (0 picks one)")
	f.IntVar(&opts.TPS, "tps", 0, "ticks per second")
	f.IntVar(&opts.MaxMoves, "max-moves", 0, "end the game after this many moves (0 uses the engine default)")
	f.BoolVar(&opts.NoRecord, "no-record", false, "do not write SGF records")
	f.BoolVar(&opts.Headless, "headless", false, "play one game without the terminal UI and print the result")
	f.IntVar(&opts.Ticks, "ticks", 0, "stop a headless run after this many ticks (0 means no limit)")
}

// apply overrides cfg with the flags that were set on cmd.
func (o *PlayOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("boardsize") {
		cfg.Game.BoardSize = o.BoardSize
	}
	if f.Changed("engine") {
		cfg.Game.Engine = o.Engine
	}
	if f.Changed("komi") {
		cfg.Game.Komi = o.Komi
	}
	if f.Changed("seed") {
		cfg.Game.Seed = o.Seed
	}
	if f.Changed("tps") {
		cfg.Game.TicksPerSecond = o.TPS
	}
	if f.Changed("max-moves") {
		cfg.Game.MaxMoves = o.MaxMoves
	}
	if o.NoRecord {
		cfg.Game.Record = false
	}
	return cfg.Validate()
}

func runPlay(cmd *cobra.Command, opts *PlayOptions) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	if err := opts.apply(cmd, cfg); err != nil {
		return err
	}

	logPath := "stderr"
	if !opts.Headless {
		if logPath, err = cfg.LogPath(); err != nil {
			return fmt.Errorf("locate log file: %w", err)
		}
	}
	log, err := newLogger(cfg.Log.Level, logPath)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	a, err := newApp(cfg, opts.ConfigPath, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("close session", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Startup()
	if opts.Headless {
		return runHeadless(ctx, a, cfg.Game.TicksPerSecond, opts.Ticks, cmd.OutOrStdout())
	}
	return ui.NewView(a, cfg.Theme, log).Run(ctx, cfg.Game.TicksPerSecond)
}

// newApp opens the configured engine and wires it into an App. Overlay toggles are
// saved to configPath, or to the XDG config file when it is empty.
func newApp(cfg *config.Config, configPath string, log *zap.Logger) (*app.App, error) {
	session, err := openEngine(cfg.Engine(), log)
	if err != nil {
		return nil, err
	}

	seed := cfg.Game.Seed
	if seed == 0 {
		if seed, err = game.NewSeed(); err != nil {
			return nil, err
		}
	}
	log.Info("session configured",
		zap.String("engine", cfg.Game.Engine),
		zap.Int("board_size", cfg.Game.BoardSize),
		zap.Uint64("seed", seed))

	return app.New(app.Options{
		Engine:     session,
		Chooser:    game.NewRandomChooser(seed),
		Palette:    ui.Palette(cfg.Theme),
		Overlay:    cfg.FPSCounter,
		Komi:       cfg.Game.Komi,
		HistoryDir: cfg.HistoryPath(),
		Record:     cfg.Game.Record,
		SaveOverlay: func(o fpscounter.Options) error {
			cfg.FPSCounter = o
			path := configPath
			if path == "" {
				var err error
				if path, err = config.FilePath(); err != nil {
					return err
				}
			}
			return config.SaveOverlay(path, o)
		},
		Log: log,
	}), nil
}

func openEngine(cfg engine.GameConfig, log *zap.Logger) (engine.Game, error) {
	if cfg.Engine == "gnugo" {
		e, err := gtp.Start(cfg, log)
		if err != nil {
			return nil, fmt.Errorf("start gnugo: %w", err)
		}
		return e, nil
	}
	return local.New(cfg), nil
}

// runHeadless plays a single game and prints its result to out.
func runHeadless(ctx context.Context, a *app.App, tps, maxTicks int, out io.Writer) error {
	a.OnGameOver(func(engine.Result) { a.RequestExit() })
	a.StartGame()
	if err := a.Run(ctx, tps, maxTicks); err != nil {
		return err
	}

	res, ok := a.Result()
	if !ok {
		fmt.Fprintf(out, "unfinished after %d ticks (%d moves)\n", a.Ticks(), a.Session().Board().MoveNumber)
		return nil
	}
	fmt.Fprintf(out, "%s %s\n", a.SessionID(), res)
	if path := a.RecordPath(); path != "" {
		fmt.Fprintf(out, "recorded to %s\n", path)
	}
	return nil
}
