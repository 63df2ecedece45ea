package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"nereid/app/cli/cmd/client"
	"nereid/app/cli/cmd/common"
	"nereid/pkg/api"
	"nereid/pkg/asset"
	"nereid/pkg/broker"
	"nereid/pkg/broker/events"
	pclient "nereid/pkg/client"
	"nereid/pkg/compile"
	"nereid/pkg/demo"
	"nereid/pkg/execute"
	"nereid/pkg/registry"
	"nereid/pkg/util/context"

	tm "github.com/buger/goterm"
	"github.com/spf13/cobra"
)

type runOpts struct {
	params []string // -p
	format string   // --format
	watch  bool     // --watch
	server string   // --server
}

// NewRunCommand returns a new instance of a nereid command
func NewRunCommand() *cobra.Command {
	var runOpts runOpts
	command := &cobra.Command{
		Use:   "run FLOW",
		Short: "execute a flow and print its result",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			name := args[0]

			params, err := common.ParseParams(runOpts.params)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}

			var result api.ExecutionResult
			var order []string
			if uri := client.URI(runOpts.server); uri != "" {
				result = runRemote(ctx, uri, name, params)
			} else {
				result, order = runLocal(ctx, name, params, runOpts.watch)
			}

			if runOpts.format == "json" {
				if err := json.NewEncoder(os.Stdout).Encode(result); err != nil {
					log.Fatal(err)
				}
			} else {
				common.PrintResult(os.Stdout, result, order)
			}
			if !result.Succeeded() {
				os.Exit(1)
			}
		},
	}
	command.Flags().StringArrayVarP(&runOpts.params, "param", "p", nil, "runtime parameter as key=value, repeatable")
	command.Flags().StringVar(&runOpts.format, "format", "plain", "output format, plain or json")
	command.Flags().BoolVarP(&runOpts.watch, "watch", "w", false, "watch the execution live")
	command.Flags().StringVar(&runOpts.server, "server", "", "run through a nereid server instead of locally")

	return command
}

func runRemote(ctx context.Context, uri, name string, params map[string]interface{}) api.ExecutionResult {
	cli, err := client.New(uri)
	if err != nil {
		log.Fatal(err)
	}
	result, err := cli.Run(ctx, name, params)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if pclient.IsNotFound(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
	return result
}

func runLocal(ctx context.Context, name string, params map[string]interface{}, watch bool) (api.ExecutionResult, []string) {
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

	exec := execute.New()
	exec.Assets = asset.NewLogRecorder()

	var done chan struct{}
	var b *broker.InMemory
	if watch {
		b = broker.NewInMemoryBroker(256)
		exec.Events = b
		done = make(chan struct{})
		go watchEvents(b, flow.Name(), flow.Order(), done)
	}

	result, err := exec.Execute(ctx, flow, params)
	if watch {
		b.Close()
		<-done
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return result, flow.Order()
}

// watchEvents renders a live view of the execution from the event stream
// until the broker is closed.
func watchEvents(b *broker.InMemory, flow string, order []string, done chan struct{}) {
	defer close(done)
	states := make(map[string]common.TaskView)
	tm.Clear()
	for evt := range b.Events() {
		if evt.TaskName == "" {
			continue
		}
		switch evt.Type {
		case events.TypeRun:
			states[evt.TaskName] = common.TaskView{Status: api.StatusRunning, Attempt: evt.Attempt}
		case events.TypeRetry:
			states[evt.TaskName] = common.TaskView{Status: api.StatusRetrying, Attempt: evt.Attempt}
		case events.TypeSuccess:
			states[evt.TaskName] = common.TaskView{Status: api.StatusSucceeded, Attempt: evt.Attempt}
		case events.TypeError:
			states[evt.TaskName] = common.TaskView{Status: api.StatusFailed, Attempt: evt.Attempt}
		case events.TypeSkip:
			states[evt.TaskName] = common.TaskView{Status: api.StatusSkipped}
		default:
			continue
		}
		tm.MoveCursor(1, 1)
		common.PrintWatch(tm.Screen, flow, order, states)
		tm.Flush()
	}
}
