package cli

import (
	"github.com/spf13/cobra"
)

var (
	serverFlag string
	outputFlag string
)

var rootCmd = &cobra.Command{
	Use:   "foodshare",
	Short: "FoodShare: browse and manage food donations",
	Long: `FoodShare is a surplus-food donation platform.
Browse available food, review requests for your donations,
and manage users from the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "FoodShare server URL (env FOODSHARE_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "auto", `Output format: "table", "json" or "auto"`)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(foodsCmd)
	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(versionCmd)
}
