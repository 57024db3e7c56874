package cli

import (
	"fmt"

	"github.com/pe-program/backend/internal/schedule"
	"github.com/pe-program/backend/internal/types"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newClassifyCommand() *cobra.Command {
	var (
		income  string
		members uint
		area    string
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a household with the active poverty schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			amount, err := decimal.NewFromString(income)
			if err != nil {
				return fmt.Errorf("invalid income '%s': %w", income, err)
			}

			s := schedule.Current()
			assessment, err := s.Assess(amount, members, types.Area(area))
			if err != nil {
				return err
			}

			unit := s.Unit()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "schedule:          %s\n", assessment.Version)
			fmt.Fprintf(out, "area:              %s\n", types.Area(area).OrRural())
			fmt.Fprintf(out, "per-capita income: %s %s\n", unit, assessment.PerCapitaIncome.StringFixed(2))
			fmt.Fprintf(out, "self-sufficiency:  %s\n", assessment.SelfSufficiencyRatio.StringFixed(4))
			fmt.Fprintf(out, "level:             %s\n", assessment.Level)
			fmt.Fprintf(out, "support cap:       %s %s\n", unit, assessment.Cap.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&income, "income", "0", "Monthly household income")
	cmd.Flags().UintVar(&members, "members", 1, "Number of household members")
	cmd.Flags().StringVar(&area, "area", string(types.AreaRural), "Area of the residence (rural, urban, peri-urban)")

	return cmd
}
