package client

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

const (
	// ListFlowsMethod is http method used for endpoint ListFlows.
	ListFlowsMethod = http.MethodGet
	// ListFlowsPath is the path definition of the endpoint ListFlows.
	ListFlowsPath = "/flows"
)

// ListFlowsResponse is the response structure for the ListFlows endpoint.
type ListFlowsResponse struct {
	Flows []string `json:"flows"`
}

func (cli client) ListFlows(ctx context.Context) ([]string, error) {
	req, err := retryablehttp.NewRequest(ListFlowsMethod, cli.uri+ListFlowsPath, nil)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create request")
	}
	resp, err := cli.httpcli.Do(req.WithContext(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "cannot do request")
	}
	defer resp.Body.Close()

	var res ListFlowsResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, errors.Wrap(err, "cannot decode response")
	}
	return res.Flows, nil
}
