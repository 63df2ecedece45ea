package client

import (
	"context"
	"strings"

	"nereid/pkg/api"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	// FlowNameParam is the route param definition for the flow name.
	FlowNameParam = "flow"
)

// Client is the API client that performs all operations to a nereid server.
type Client interface {
	// ListFlows returns the names of the registered flows.
	ListFlows(ctx context.Context) ([]string, error)

	// Graph returns the dependency edges of a flow.
	Graph(ctx context.Context, flow string) (GraphResponse, error)

	// Run executes the given flow with the given runtime parameters and
	// returns the full execution result, even on partial failure.
	Run(ctx context.Context, flow string, params map[string]interface{}) (api.ExecutionResult, error)
}

// NewClient creates a nereid client.
func NewClient(uri string) (Client, error) {
	httpcli := retryablehttp.NewClient()
	httpcli.Logger = nil
	return client{
		httpcli: httpcli,
		uri:     strings.TrimRight(uri, "/"),
	}, nil
}

type client struct {
	httpcli *retryablehttp.Client
	uri     string
}
