package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/specialistvlad/modulegrid/internal/app"
)

// EnvPrefix is prepended to every environment override, e.g.
// MODULEGRID_LOG_LEVEL.
const EnvPrefix = "MODULEGRID"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// usageArgs turns the argument validator's failures into usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError("%v", err)
		}
		return nil
	}
}

// options carries the state shared by all commands of one invocation.
type options struct {
	v       *viper.Viper
	cfgFile string
	outW    io.Writer
}

// NewRootCommand builds the modulegrid command tree writing to outW. Every
// call gets its own viper instance, so commands can be built repeatedly.
func NewRootCommand(outW io.Writer) *cobra.Command {
	o := &options{v: viper.New(), outW: outW}

	root := &cobra.Command{
		Use:   "modulegrid",
		Short: "Module registry for a pluggable dataflow runtime",
		Long: `modulegrid - a registry of reusable source, sink and transform modules.

Modules register under a namespace and a version. A pipeline manifest (.hcl)
names the modules it needs; modulegrid checks them against the registry and
builds them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Arguments that are not a subcommand are reported as an unknown
		// command by NoArgs.
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.initConfig()
		},
	}
	root.SetOut(outW)
	root.SetErr(outW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("%v", err)
	})

	flags := root.PersistentFlags()
	flags.StringVarP(&o.cfgFile, "config", "c", "", "Config file (yaml, json or toml).")
	flags.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.String("log-format", "text", "Log output format. Options: 'text', 'json' or 'pretty'.")
	flags.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	flags.Bool("tracing", false, "Export OpenTelemetry spans to the output.")

	_ = o.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = o.v.BindPFlag("log_format", flags.Lookup("log-format"))
	_ = o.v.BindPFlag("healthcheck_port", flags.Lookup("healthcheck-port"))
	_ = o.v.BindPFlag("tracing", flags.Lookup("tracing"))

	o.v.SetEnvPrefix(EnvPrefix)
	o.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	o.v.AutomaticEnv()

	root.AddCommand(
		newRunCommand(o),
		newModulesCommand(o),
		newCheckVersionCommand(o),
		newVersionCommand(o),
	)
	return root
}

// initConfig reads the config file if one was given.
func (o *options) initConfig() error {
	if o.cfgFile == "" {
		return nil
	}
	o.v.SetConfigFile(o.cfgFile)
	if err := o.v.ReadInConfig(); err != nil {
		return usageError("failed to read config file: %v", err)
	}
	return nil
}

// appConfig validates the merged flags, environment and config file.
func (o *options) appConfig() (*app.Config, error) {
	cfg, err := app.NewConfig(app.Config{
		ManifestPath:    o.v.GetString("manifest"),
		LogLevel:        strings.ToLower(o.v.GetString("log_level")),
		LogFormat:       strings.ToLower(o.v.GetString("log_format")),
		HealthcheckPort: o.v.GetInt("healthcheck_port"),
		Tracing:         o.v.GetBool("tracing"),
	})
	if err != nil {
		return nil, usageError("%v", err)
	}
	return cfg, nil
}

// Execute runs the command line in args and returns an *ExitError for usage
// problems.
func Execute(ctx context.Context, outW io.Writer, args []string) error {
	root := NewRootCommand(outW)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
