package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"nereid/app/cli/cmd/client"
	pclient "nereid/pkg/client"
	"nereid/pkg/demo"
	"nereid/pkg/util/context"

	"github.com/spf13/cobra"
)

type listOpts struct {
	format string // --format
	server string // --server
}

// NewListCommand returns a new instance of a nereid command
func NewListCommand() *cobra.Command {
	var listOpts listOpts
	command := &cobra.Command{
		Use:   "list",
		Short: "list the registered flows",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			var flows []string
			var err error
			if uri := client.URI(listOpts.server); uri != "" {
				cli, cerr := client.New(uri)
				if cerr != nil {
					log.Fatal(cerr)
				}
				flows, err = cli.ListFlows(ctx)
			} else {
				flows, err = demo.Registry().List(ctx)
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}

			if listOpts.format == "json" {
				if err := json.NewEncoder(os.Stdout).Encode(pclient.ListFlowsResponse{Flows: flows}); err != nil {
					log.Fatal(err)
				}
				return
			}
			for _, name := range flows {
				fmt.Println(name)
			}
		},
	}
	command.Flags().StringVar(&listOpts.format, "format", "plain", "output format, plain or json")
	command.Flags().StringVar(&listOpts.server, "server", "", "run through a nereid server instead of locally")

	return command
}
