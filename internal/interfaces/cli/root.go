package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/PatentBot-AI/internal/config"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentBot-AI/pkg/client"
	"github.com/turtacn/PatentBot-AI/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Output formats accepted by --output.
const (
	OutputText  = "text"
	OutputJSON  = "json"
	OutputTable = "table"
)

type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	EnvFile      string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration
	ServerAddr   string
	APIKey       string
}

// CLIContext carries initialized dependencies through the command tree.
// Client is nil unless --server is set; commands then run in-process.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Client       *client.Client
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration
}

// NewRootCommand creates the root command with all global flags and subcommands.
func NewRootCommand() *cobra.Command {
	return newRootCommand(openBackend)
}

func newRootCommand(open BackendOpener) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "patentbot",
		Short: "PatentBot AI CLI for prior-art search",
		Long: "PatentBot AI finds prior art for invention drafting sessions, scores each\n" +
			"reference against the invention and stores the ranked results.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (environment only when empty)")
	pf.StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before the configuration")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", OutputText, "output format (text, json, table)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&opts.Timeout, "timeout", 2*time.Minute, "global operation timeout")
	pf.StringVar(&opts.ServerAddr, "server", "", "API server address; run in-process when empty")
	pf.StringVar(&opts.APIKey, "api-key", "", "API key sent to --server")

	cmd.AddCommand(
		NewSearchCmd(open),
		NewResultsCmd(open),
		NewMigrateCmd(),
		NewVersionCmd(),
	)
	return cmd
}

// persistentPreRun initializes config, logger, and client, then stores CLIContext.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	switch strings.ToLower(opts.OutputFormat) {
	case OutputText, OutputJSON, OutputTable:
	default:
		return errors.InvalidParam(fmt.Sprintf("unknown output format %q (want text, json or table)", opts.OutputFormat))
	}

	cfg, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := initLogger(cfg, opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	var apiClient *client.Client
	if opts.ServerAddr != "" {
		apiClient, err = initClient(opts)
		if err != nil {
			return fmt.Errorf("client initialization failed: %w", err)
		}
	}

	if opts.NoColor {
		color.NoColor = true
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		Client:       apiClient,
		OutputFormat: strings.ToLower(opts.OutputFormat),
		Verbose:      opts.Verbose,
		NoColor:      opts.NoColor,
		Timeout:      opts.Timeout,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

// initConfig loads configuration with priority: env > .env file > config file > defaults.
func initConfig(opts *RootOptions) (*config.Config, error) {
	if err := config.LoadDotEnv(opts.EnvFile); err != nil {
		return nil, err
	}
	return config.Load(opts.ConfigPath)
}

// initLogger creates a console logger on stderr so stdout stays parseable.
func initLogger(cfg *config.Config, opts *RootOptions) (logging.Logger, error) {
	level := strings.ToLower(opts.LogLevel)
	if opts.Verbose {
		level = "debug"
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		ServiceName:      cfg.Log.ServiceName,
	})
}

func initClient(opts *RootOptions) (*client.Client, error) {
	clientOpts := []client.Option{
		client.WithTimeout(opts.Timeout),
		client.WithUserAgent("patentbot-cli/" + Version),
	}
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, client.WithAPIKey(opts.APIKey))
	}
	return client.NewClient(opts.ServerAddr, clientOpts...)
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.InvalidParam("command context is nil")
	}

	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.InvalidParam("CLIContext not found in command context")
	}
	return cliCtx, nil
}

// commandContext bounds a command by the global --timeout.
func commandContext(cmd *cobra.Command, cliCtx *CLIContext) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if cliCtx.Timeout > 0 {
		return context.WithTimeout(ctx, cliCtx.Timeout)
	}
	return context.WithCancel(ctx)
}

// Execute is the main entry point for the CLI application.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// tableProvider is implemented by values that render as a table.
type tableProvider interface {
	TableHeaders() []string
	TableRows() [][]string
}

// PrintResult outputs data in the format specified by CLIContext.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return printJSON(cmd.OutOrStdout(), data)
	}

	switch cliCtx.OutputFormat {
	case OutputJSON:
		return printJSON(cmd.OutOrStdout(), data)
	case OutputTable:
		if tp, ok := data.(tableProvider); ok {
			FormatTable(cmd.OutOrStdout(), tp.TableHeaders(), tp.TableRows())
			return nil
		}
	}
	return printText(cmd.OutOrStdout(), data)
}

func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printText(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case string:
		fmt.Fprintln(w, v)
	case fmt.Stringer:
		fmt.Fprintln(w, v.String())
	default:
		fmt.Fprintf(w, "%+v\n", v)
	}
	return nil
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.RedString("Error:"), err.Error())
}

// PrintSuccess writes a formatted success message to stdout.
func PrintSuccess(cmd *cobra.Command, msg string) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("OK:"), msg)
}

// FormatTable renders headers and rows as an aligned table.
func FormatTable(w io.Writer, headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
}

func truncateString(s string, maxRunes int) string {
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(r[:maxRunes])
	}
	return string(r[:maxRunes-3]) + "..."
}
