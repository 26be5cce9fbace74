package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"retail-price-alerts/internal/app"
)

var (
	simulateName string
	simulateURL  string
	simulateOld  int64
	simulateNew  int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate-alert",
	Short: "Send a fabricated price change through the notifier",
	RunE: func(cmd *cobra.Command, args []string) error {
		if simulateOld <= 0 || simulateNew <= 0 {
			return errors.New("--old and --new must be greater than 0")
		}

		opts := app.SimulateOptions{
			ProductName: simulateName,
			URL:         simulateURL,
			OldPrice:    simulateOld,
			NewPrice:    simulateNew,
		}
		return getApp().SimulateAlert(cmd.Context(), opts)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateName, "name", "テスト商品", "Product name to show in the alert")
	simulateCmd.Flags().StringVar(&simulateURL, "url", "https://example.com/product", "Product URL to link in the alert")
	simulateCmd.Flags().Int64Var(&simulateOld, "old", 0, "Previous price in yen")
	simulateCmd.Flags().Int64Var(&simulateNew, "new", 0, "Current price in yen")
}
