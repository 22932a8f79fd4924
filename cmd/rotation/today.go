package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTodayCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Print the current date of the policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, calendar, err := flags.calendar(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), calendar.Today())
			return nil
		},
	}
}
