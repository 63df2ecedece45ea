package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"nereid/app/cli/cmd/client"
	"nereid/app/cli/cmd/common"
	pclient "nereid/pkg/client"
	"nereid/pkg/compile"
	"nereid/pkg/demo"
	"nereid/pkg/registry"
	"nereid/pkg/util/context"

	"github.com/spf13/cobra"
)

type graphOpts struct {
	format string // --format
	server string // --server
}

// NewGraphCommand returns a new instance of a nereid command
func NewGraphCommand() *cobra.Command {
	var graphOpts graphOpts
	command := &cobra.Command{
		Use:   "graph FLOW",
		Short: "print the dependency graph of a flow",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			name := args[0]

			var graph pclient.GraphResponse
			if uri := client.URI(graphOpts.server); uri != "" {
				cli, err := client.New(uri)
				if err != nil {
					log.Fatal(err)
				}
				resp, err := cli.Graph(ctx, name)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					if pclient.IsNotFound(err) {
						os.Exit(2)
					}
					os.Exit(1)
				}
				graph = resp
			} else {
				spec, err := demo.Registry().Get(ctx, name)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					if registry.IsNotFound(err) {
						os.Exit(2)
					}
					os.Exit(1)
				}
				flow, err := compile.Compile(spec)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(1)
				}
				graph = pclient.GraphResponse{Flow: flow.Name(), Edges: flow.Edges()}
			}

			if graphOpts.format == "json" {
				if err := json.NewEncoder(os.Stdout).Encode(graph); err != nil {
					log.Fatal(err)
				}
				return
			}
			common.PrintGraph(os.Stdout, graph.Flow, graph.Edges)
		},
	}
	command.Flags().StringVar(&graphOpts.format, "format", "plain", "output format, plain or json")
	command.Flags().StringVar(&graphOpts.server, "server", "", "run through a nereid server instead of locally")

	return command
}
