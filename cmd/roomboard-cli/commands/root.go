// Package commands implements the roomboard-cli cobra commands.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the roomboard-cli command tree.
func NewRootCmd(app *AppContext) *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	rootCmd := &cobra.Command{
		Use:           "roomboard-cli",
		Short:         "Faculty dashboard for room posts, requests, bookings and weekly schedules",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(configPath, verbose)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to roomboard.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log request details to stderr")

	rootCmd.SetIn(app.in)
	rootCmd.SetOut(app.out)
	rootCmd.SetErr(app.errOut)

	rootCmd.AddCommand(registerCmd(app))
	rootCmd.AddCommand(loginCmd(app))
	rootCmd.AddCommand(logoutCmd(app))
	rootCmd.AddCommand(whoamiCmd(app))
	rootCmd.AddCommand(postsCmd(app))
	rootCmd.AddCommand(requestsCmd(app))
	rootCmd.AddCommand(bookCmd(app))
	rootCmd.AddCommand(bookedCmd(app))
	rootCmd.AddCommand(dashboardCmd(app))
	rootCmd.AddCommand(boardCmd(app))

	return rootCmd
}
