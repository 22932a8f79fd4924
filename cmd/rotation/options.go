package main

import (
	"github.com/reugn/go-rotation/config"
	"github.com/spf13/cobra"
)

func newOptionsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Print the normalized policy as YAML",
		Long: `Print the normalized policy as YAML. The output is a valid policy file;
schedule fields show the values derived from the anchor date and the
auto-correction of late days of the month.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, calendar, err := flags.calendar(cmd.Context())
			if err != nil {
				return err
			}
			data, err := config.PolicyConfigOf(calendar.Options()).Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
