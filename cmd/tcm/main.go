// Package main provides the CLI entrypoint for tcm.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tcm/internal/browse"
	"github.com/verte-zerg/tcm/internal/config"
	"github.com/verte-zerg/tcm/internal/model"
	"github.com/verte-zerg/tcm/internal/movelist"
	"github.com/verte-zerg/tcm/internal/notation"
	"github.com/verte-zerg/tcm/internal/stats"
	"github.com/verte-zerg/tcm/internal/store"
	"github.com/verte-zerg/tcm/internal/tcm"
)

const defaultLimit = 10

var (
	globalDB     string
	globalSource string
	globalStrict bool

	reportSince string
	topLimit    int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tcm",
		Short:         "Table of correct moves for suspicious chess moves",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&globalDB, "db", config.DefaultDBPath(), "path to the journal database")
	rootCmd.PersistentFlags().StringVar(&globalSource, "source", "", "source label stored with new events and used to filter replay")
	rootCmd.PersistentFlags().BoolVar(&globalStrict, "strict", false, "reject moves that are not UCI or SAN")

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newConfirmCmd())
	rootCmd.AddCommand(newRecordCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newTopCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <suspicious> [correct...]",
		Short: "Add a suspicious move and candidate corrections",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAddCmd,
	}
}

func runAddCmd(cmd *cobra.Command, args []string) error {
	moves, cfg, err := prepareMoves(cmd, args)
	if err != nil {
		return err
	}
	suspicious := moves[0]
	events := []model.Event{{Kind: model.EventSuspicious, Suspicious: suspicious, Source: cfg.Source}}
	for _, correct := range moves[1:] {
		events = append(events, model.Event{Kind: model.EventCandidate, Suspicious: suspicious, Correct: correct, Source: cfg.Source})
	}
	table, err := journal(commandContext(cmd), cfg, events)
	if err != nil {
		return err
	}
	corrections, _ := table.GetCorrectMoves(suspicious)
	logErrf("%s has %d candidate correction(s)\n", suspicious, len(corrections))
	return nil
}

func newConfirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <suspicious> <correct>",
		Short: "Count one confirmation of a known correction",
		Args:  cobra.ExactArgs(2),
		RunE:  runConfirmCmd,
	}
}

func runConfirmCmd(cmd *cobra.Command, args []string) error {
	moves, cfg, err := prepareMoves(cmd, args)
	if err != nil {
		return err
	}
	events := []model.Event{{Kind: model.EventConfirm, Suspicious: moves[0], Correct: moves[1], Source: cfg.Source}}
	table, err := journal(commandContext(cmd), cfg, events)
	if err != nil {
		return err
	}
	return reportFrequency(cmd, table, moves[0], moves[1])
}

func newRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record <suspicious> <correct>",
		Short: "Add a pair if needed and count one confirmation",
		Args:  cobra.ExactArgs(2),
		RunE:  runRecordCmd,
	}
}

func runRecordCmd(cmd *cobra.Command, args []string) error {
	moves, cfg, err := prepareMoves(cmd, args)
	if err != nil {
		return err
	}
	table, err := journal(commandContext(cmd), cfg, stats.RecordEvents(moves[0], moves[1], cfg.Source))
	if err != nil {
		return err
	}
	return reportFrequency(cmd, table, moves[0], moves[1])
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Record every \"suspicious correct\" pair listed in a file",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	pairs, err := movelist.LoadPairs(args[0])
	if err != nil {
		return fmt.Errorf("failed to load pairs: %w", err)
	}
	var events []model.Event
	for i, pair := range pairs {
		suspicious := notation.Normalize(pair.Suspicious)
		correct := notation.Normalize(pair.Correct)
		if cfg.Strict {
			if err := validateMoves(suspicious, correct); err != nil {
				return fmt.Errorf("pair %d: %w", i+1, err)
			}
		}
		events = append(events, stats.RecordEvents(suspicious, correct, cfg.Source)...)
	}
	if _, err := journal(commandContext(cmd), cfg, events); err != nil {
		return err
	}
	logErrf("Imported %d pair(s) from %s\n", len(pairs), args[0])
	return nil
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [suspicious]",
		Short: "Show corrections for a suspicious move, or a summary",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runShowCmd,
	}
	addSinceFlag(cmd)
	return cmd
}

func runShowCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := commandContext(cmd)
	table, err := stats.BuildTable(ctx, st, eventFilter(cfg))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		counts, err := st.CountEvents(ctx, eventFilter(cfg))
		if err != nil {
			return fmt.Errorf("failed to count events: %w", err)
		}
		return stats.RenderSummary(out, table, counts)
	}
	suspicious := notation.Normalize(args[0])
	moves, ok := table.GetCorrectMoves(suspicious)
	if !ok {
		return fmt.Errorf("no entry for suspicious move %q", suspicious)
	}
	return stats.RenderCorrections(out, suspicious, moves)
}

func newTopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top",
		Short: "List the most frequently confirmed corrections",
		Args:  cobra.NoArgs,
		RunE:  runTopCmd,
	}
	cmd.Flags().IntVar(&topLimit, "limit", defaultLimit, "number of pairs to show")
	addSinceFlag(cmd)
	return cmd
}

func runTopCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	table, err := stats.BuildTable(commandContext(cmd), st, eventFilter(cfg))
	if err != nil {
		return err
	}
	top := stats.TopCorrections(stats.Flatten(table), cfg.Limit)
	return stats.RenderTop(cmd.OutOrStdout(), top)
}

func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the correction table",
		Args:  cobra.NoArgs,
		RunE:  runBrowseCmd,
	}
	addSinceFlag(cmd)
	return cmd
}

func addSinceFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&reportSince, "since", "", "count only confirmations recorded on or after this date (YYYY-MM-DD)")
}

func runBrowseCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	program := tea.NewProgram(browse.NewModel(st, eventFilter(cfg)), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path, err := ensureConfigFile(config.DefaultConfigPath())
	if err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return "", fmt.Errorf("failed to write config: %w", err)
		}
	}
	return path, nil
}

// journal replays the journal, applies events on top and appends them only
// when every one of them succeeds.
func journal(ctx context.Context, cfg model.Config, events []model.Event) (*tcm.Table, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer closeStore(st)

	table, err := stats.BuildTable(ctx, st, model.EventFilter{Source: cfg.Source})
	if err != nil {
		return nil, err
	}
	if err := stats.ApplyAll(table, events); err != nil {
		return nil, err
	}
	if err := st.AppendEvents(ctx, events); err != nil {
		return nil, fmt.Errorf("failed to append events: %w", err)
	}
	return table, nil
}

func reportFrequency(cmd *cobra.Command, table *tcm.Table, suspicious, correct string) error {
	count, _ := table.Frequency(suspicious, correct)
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s: %d\n", suspicious, correct, count); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func prepareMoves(cmd *cobra.Command, args []string) ([]string, model.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, model.Config{}, err
	}
	moves := make([]string, len(args))
	for i, arg := range args {
		moves[i] = notation.Normalize(arg)
	}
	if cfg.Strict {
		if err := validateMoves(moves...); err != nil {
			return nil, model.Config{}, err
		}
	}
	return moves, cfg, nil
}

func validateMoves(moves ...string) error {
	var errs []error
	for _, move := range moves {
		if err := notation.Validate(move); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func loadConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := model.Config{
		DBPath: globalDB,
		Source: globalSource,
		Strict: globalStrict,
		Limit:  topLimit,
	}
	applyStringConfig(cmd, "db", &cfg.DBPath, fileCfg.Journal.DB)
	applyStringConfig(cmd, "source", &cfg.Source, fileCfg.Journal.Source)
	applyBoolConfig(cmd, "strict", &cfg.Strict, fileCfg.Notation.Strict)
	applyIntConfig(cmd, "limit", &cfg.Limit, fileCfg.Report.Limit)
	if reportSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", reportSince, time.Local)
		if err != nil {
			return model.Config{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if strings.TrimSpace(cfg.DBPath) == "" {
		return fmt.Errorf("--db must not be empty")
	}
	if cfg.Limit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}
	return nil
}

func openStore(cfg model.Config) (*store.Store, error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func eventFilter(cfg model.Config) model.EventFilter {
	return model.EventFilter{Source: cfg.Source, Since: cfg.Since}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tcm configuration
# Uncomment a value to enable it. CLI flags override config values.

[journal]
# db = %q
# source = ""          # Label stored with new events; also filters replay

[notation]
# strict = false       # Reject moves that are not UCI (e2e4) or SAN (Nf3)

[report]
# limit = %d           # Pairs shown by "tcm top"
`,
		config.DefaultDBPath(),
		defaultLimit,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
