package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/felixgeelhaar/todos/pkg/observability"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	jsonOutput bool
	logger     *slog.Logger
)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = NewRootCommand()

// NewRootCommand builds the todos root command with its global flags and
// invocation logging. Subcommands are added by the caller.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todos",
		Short: "todos - a task list client for a JSON task store",
		Long: `todos mirrors a remote task collection and lets you filter it,
draft new todos, edit and delete existing ones.

The draft, the todo being edited and the filter are kept between
invocations, so "todos edit 3" followed by "todos draft set -p LOW"
and "todos submit" updates todo 3.`,
		SilenceUsage:      true,
		PersistentPreRun:  startCommand,
		PersistentPostRun: endCommand,
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print store metrics after the command")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	return cmd
}

func startCommand(cmd *cobra.Command, args []string) {
	if logger == nil {
		logger = slog.Default()
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	info := commandContext{
		correlationID: uuid.New(),
		startedAt:     time.Now(),
	}
	ctx = context.WithValue(ctx, commandContextKey{}, info)
	ctx = observability.WithCorrelationID(ctx, info.correlationID.String())
	cmd.SetContext(ctx)
	logger.InfoContext(ctx, "command start", "command", cmd.CommandPath())
}

func endCommand(cmd *cobra.Command, args []string) {
	if logger == nil {
		logger = slog.Default()
	}
	info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
	if !ok {
		return
	}
	logger.InfoContext(cmd.Context(), "command end",
		"command", cmd.CommandPath(),
		"duration_ms", time.Since(info.startedAt).Milliseconds(),
	)

	if verbose {
		if a := GetApp(); a != nil && a.Metrics != nil {
			printCounters(cmd, a.Metrics.Counters())
		}
	}
}

func printCounters(cmd *cobra.Command, counters map[string]int64) {
	keys := make([]string, 0, len(counters))
	for k := range counters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	w := cmd.ErrOrStderr()
	for _, k := range keys {
		fmt.Fprintf(w, "%s %d\n", k, counters[k])
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// AddCommand adds commands to the root command.
func AddCommand(cmds ...*cobra.Command) {
	rootCmd.AddCommand(cmds...)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// JSONOutput reports whether --json was given.
func JSONOutput() bool {
	return jsonOutput
}
