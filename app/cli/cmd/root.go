package cmd

import (
	"nereid/pkg/util/config"

	"github.com/spf13/cobra"
)

// NewRootCommand returns a new instance of a nereid command
func NewRootCommand() *cobra.Command {
	var configFile string
	rootCmd := &cobra.Command{
		Use:   "nereid",
		Short: "nereid is the command line interface to nereid flows",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.SetConfigFile(configFile)
			return config.ReadInConfig()
		},
		Run: func(cmd *cobra.Command, args []string) {

		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a JSON config file")

	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewGraphCommand())
	rootCmd.AddCommand(NewRunCommand())
	return rootCmd
}
