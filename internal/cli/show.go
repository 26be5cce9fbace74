package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"retail-price-alerts/internal/app"
)

var (
	showLimit int
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the latest stored observation per URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		if showLimit < 0 {
			return fmt.Errorf("--limit cannot be negative")
		}

		opts := app.ShowOptions{
			Limit: showLimit,
		}

		return getApp().Show(cmd.Context(), opts)
	},
}

func init() {
	showCmd.Flags().IntVar(&showLimit, "limit", 0, "Maximum number of entries to display ( 0 = all)")
}
