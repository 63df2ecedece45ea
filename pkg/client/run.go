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
	// RunMethod is http method used for endpoint Run.
	RunMethod     = http.MethodPost
	runPathFormat = "/flows/%s/run"
)

var (
	// RunPath is the path definition of the endpoint Run.
	RunPath = fmt.Sprintf(runPathFormat, fmt.Sprintf(":%s", FlowNameParam))
)

// RunRequest is the request structure for the Run endpoint.
type RunRequest struct {
	Params map[string]interface{} `json:"params,omitempty"`
}

func (cli client) Run(ctx context.Context, flow string, params map[string]interface{}) (api.ExecutionResult, error) {
	body, err := json.Marshal(RunRequest{Params: params})
	if err != nil {
		return api.ExecutionResult{}, errors.Wrap(err, "cannot marshal request")
	}

	req, err := retryablehttp.NewRequest(RunMethod, fmt.Sprintf(cli.uri+runPathFormat, flow), body)
	if err != nil {
		return api.ExecutionResult{}, errors.Wrap(err, "cannot create request")
	}
	req.Header.Set("content-type", "application/json")

	resp, err := cli.httpcli.Do(req.WithContext(ctx))
	if err != nil {
		return api.ExecutionResult{}, errors.Wrap(err, "cannot do request")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return api.ExecutionResult{}, ErrNotFound{fmt.Sprintf("flow %s", flow)}
	case http.StatusBadRequest:
		var httpErr HTTPError
		if err := json.NewDecoder(resp.Body).Decode(&httpErr); err != nil {
			return api.ExecutionResult{}, errors.New("bad request")
		}
		return api.ExecutionResult{}, errors.Wrap(httpErr, "flow is not valid")
	}

	var res api.ExecutionResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return api.ExecutionResult{}, errors.Wrap(err, "cannot decode response")
	}
	return res, nil
}
