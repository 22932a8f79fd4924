package main

import (
	"fmt"

	"github.com/reugn/go-rotation/rotation"
	"github.com/spf13/cobra"
)

func newDatesCmd(flags *globalFlags) *cobra.Command {
	var direction string
	cmd := &cobra.Command{
		Use:   "dates",
		Short: "Print the dates to retain",
		Long: `Print the dates to retain under the policy, one per line. Past dates are
listed newest first, future dates oldest first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, calendar, err := flags.calendar(cmd.Context())
			if err != nil {
				return err
			}

			dir, err := cfg.DateDirection()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("direction") {
				if dir, err = rotation.ParseDirection(direction); err != nil {
					return err
				}
			}

			dates, err := calendar.DatesAsStrings(dir)
			if err != nil {
				return err
			}
			for _, date := range dates {
				fmt.Fprintln(cmd.OutOrStdout(), date)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&direction, "direction", "d", "past", "date direction: past or future")
	return cmd
}
