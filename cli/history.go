package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"igo-local/sgf"
	"igo-local/types"
	"igo-local/ui"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Dir    string
	Browse bool
}

// NewHistoryCommand lists and inspects recorded games.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded games",
		Long: `List the SGF records written by previous sessions, newest first.

Examples:
  igo-local history
  igo-local history --browse
  igo-local history show ~/.local/share/igo-local/history/2026-10-18_120000_ab12cd34_9x9.sgf`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.Dir, "dir", "", "history directory (default from config)")
	cmd.Flags().BoolVar(&opts.Browse, "browse", false, "open the interactive history browser")

	cmd.AddCommand(newHistoryShowCommand())
	return cmd
}

func newHistoryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "show <file>",
		Short:         "Print the final position of a record",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(args[0], cmd.OutOrStdout())
		},
	}
}

func (o *HistoryOptions) dir() (string, error) {
	if o.Dir != "" {
		return o.Dir, nil
	}
	cfg, err := loadConfig(o.RootOptions)
	if err != nil {
		return "", err
	}
	return cfg.HistoryPath(), nil
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	dir, err := opts.dir()
	if err != nil {
		return err
	}

	if opts.Browse {
		level := opts.LogLevel
		if level == "" {
			level = "warn"
		}
		log, err := newLogger(level, "stderr")
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
		return ui.NewHistoryBrowser(dir, log, nil).Run()
	}

	games, err := sgf.ListGames(dir)
	if err != nil {
		return fmt.Errorf("list %s: %w", dir, err)
	}
	out := cmd.OutOrStdout()
	if len(games) == 0 {
		fmt.Fprintf(out, "No games found in %s\n", dir)
		return nil
	}
	for _, g := range games {
		result := g.Result
		if result == "" || result == "?" {
			result = "Unfinished"
		}
		fmt.Fprintf(out, "%-10s  %2dx%-2d  %4d moves  %-10s  %s\n",
			g.Date, g.BoardSize, g.BoardSize, g.MoveCount, result, g.FileName)
	}
	return nil
}

func runHistoryShow(path string, out io.Writer) error {
	info, err := sgf.ParseHeader(path)
	if err != nil {
		return err
	}
	board, moves, err := sgf.ReplayToEnd(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s  %dx%d  komi %.1f  %d moves\n", info.GameName, info.BoardSize, info.BoardSize, info.Komi, moves)
	fmt.Fprint(out, renderBoard(board))
	if info.Result != "" {
		fmt.Fprintf(out, "Result: %s\n", info.Result)
	}
	return nil
}

// renderBoard draws a position as text, one row per line.
func renderBoard(b *types.BoardState) string {
	var sb strings.Builder
	size := b.Width()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if x > 0 {
				sb.WriteByte(' ')
			}
			switch s, _ := b.Stone(x, y); s {
			case types.Black:
				sb.WriteRune('●')
			case types.White:
				sb.WriteRune('○')
			default:
				sb.WriteRune('·')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
