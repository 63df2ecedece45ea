package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"nereid/pkg/api"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

const (
	// GraphMethod is http method used for endpoint Graph.
	GraphMethod     = http.MethodGet
	graphPathFormat = "/flows/%s/graph"
)

var (
	// GraphPath is the path definition of the endpoint Graph.
	GraphPath = fmt.Sprintf(graphPathFormat, fmt.Sprintf(":%s", FlowNameParam))
)

// GraphResponse is the response structure for the Graph endpoint.
type GraphResponse struct {
	Flow  string     `json:"flow"`
	Edges []api.Edge `json:"edges"`
}

func (cli client) Graph(ctx context.Context, flow string) (GraphResponse, error) {
	req, err := retryablehttp.NewRequest(GraphMethod, fmt.Sprintf(cli.uri+graphPathFormat, flow), nil)
	if err != nil {
		return GraphResponse{}, errors.Wrap(err, "cannot create request")
	}
	resp, err := cli.httpcli.Do(req.WithContext(ctx))
	if err != nil {
		return GraphResponse{}, errors.Wrap(err, "cannot do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return GraphResponse{}, ErrNotFound{fmt.Sprintf("flow %s", flow)}
	}

	var res GraphResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return GraphResponse{}, errors.Wrap(err, "cannot decode response")
	}
	return res, nil
}
