package cli

import (
	"fmt"
	"os"

	"github.com/pe-program/backend/internal/schedule"
	"github.com/spf13/cobra"
)

// loadSchedule activates the schedule in SCHEDULE_FILE, if set.
func loadSchedule() error {
	path, ok := os.LookupEnv("SCHEDULE_FILE")
	if !ok || path == "" {
		return nil
	}

	err := schedule.Load(path)
	if err != nil {
		return fmt.Errorf("loading poverty schedule: %w", err)
	}

	return nil
}

func newScheduleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Inspect and validate poverty schedules",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a poverty schedule file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schedule.LoadFile(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid, version %s, currency %s\n", args[0], s.Version, s.Currency)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the active poverty schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := schedule.Current().Marshal()
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})

	return cmd
}
