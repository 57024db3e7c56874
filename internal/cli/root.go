// Package cli contains the commands of the povertyd binary.
package cli

import (
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCommand returns the povertyd command. Without a subcommand,
// it runs the API server.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "povertyd",
		Short: "Poverty eradication program backend",
		Long: `povertyd classifies families into poverty levels and allocates
intervention support within each family's lifetime support cap.

Without a subcommand, the API server is started.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			setupLogging(cmd.ErrOrStderr())
			return loadSchedule()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}

	cmd.AddCommand(
		newServeCommand(),
		newClassifyCommand(),
		newScheduleCommand(),
		newVersionCommand(),
	)

	return cmd
}

// setupLogging configures the global logger from the environment.
func setupLogging(out io.Writer) {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := out
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: out}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()
}
