package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mehulBhatt911/Studysyn/backend/tracker"
)

// NewTodayCommand creates the today command.
func NewTodayCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Print the date all trackers treat as today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			today := tracker.Today(rootOpts.Clock.Now())
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", tracker.FormatDate(today), tracker.AnchorZone)
			return nil
		},
	}
}
