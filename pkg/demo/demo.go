// Package demo provides ready-made flows. They feed the default registry of
// the CLI and the controller, and double as living documentation of the
// spec model.
package demo

import (
	gocontext "context"
	"fmt"
	"time"

	"nereid/pkg/api"
	"nereid/pkg/registry"
	"nereid/pkg/util/maps"

	"github.com/pkg/errors"
)

// Arithmetic returns the classic diamond flow: a feeds b and c, d joins
// them. With no runtime parameters d yields 12.
func Arithmetic() api.FlowSpec {
	return api.FlowSpec{
		Name: "arithmetic",
		Tasks: []api.TaskSpec{
			{
				Name: "a",
				Fn: func(ctx gocontext.Context, in api.Inputs) (interface{}, error) {
					return 2, nil
				},
			},
			{
				Name:     "b",
				Upstream: []string{"a"},
				Fn: func(ctx gocontext.Context, in api.Inputs) (interface{}, error) {
					return in.Upstream["a"].(int) + 3, nil
				},
			},
			{
				Name:     "c",
				Upstream: []string{"a"},
				Fn: func(ctx gocontext.Context, in api.Inputs) (interface{}, error) {
					return in.Upstream["a"].(int) + 5, nil
				},
			},
			{
				Name:     "d",
				Upstream: []string{"b", "c"},
				Fn: func(ctx gocontext.Context, in api.Inputs) (interface{}, error) {
					return in.Upstream["b"].(int) + in.Upstream["c"].(int), nil
				},
			},
		},
	}
}

type reportParams struct {
	Day    string `mapstructure:"day"`
	Region string `mapstructure:"region"`
}

// DailyReport returns a parameterized flow exercising retries, accepted
// parameter declarations and asset production.
func DailyReport() api.FlowSpec {
	return api.FlowSpec{
		Name:         "daily-report",
		ScheduleCron: "0 6 * * *",
		Params: map[string]interface{}{
			"day":    "1970-01-01",
			"region": "eu",
		},
		Tasks: []api.TaskSpec{
			{
				Name:       "extract",
				Accepts:    []string{"day", "region"},
				Retries:    2,
				RetryDelay: 30 * time.Second,
				Fn: func(ctx gocontext.Context, in api.Inputs) (interface{}, error) {
					var p reportParams
					if err := maps.Decode(in.Params, &p); err != nil {
						return nil, errors.Wrap(err, "cannot decode params")
					}
					return fmt.Sprintf("raw/%s/%s.csv", p.Region, p.Day), nil
				},
			},
			{
				Name:     "aggregate",
				Upstream: []string{"extract"},
				Fn: func(ctx gocontext.Context, in api.Inputs) (interface{}, error) {
					return fmt.Sprintf("aggregated from %v", in.Upstream["extract"]), nil
				},
			},
			{
				Name:     "publish",
				Upstream: []string{"aggregate"},
				Accepts:  []string{"day"},
				Produces: &api.AssetDecl{
					ID:           "daily-report",
					PartitionKey: "day",
					PathTemplate: "reports/{day}/report.parquet",
				},
				Fn: func(ctx gocontext.Context, in api.Inputs) (interface{}, error) {
					return fmt.Sprintf("reports/%v/report.parquet", in.Params["day"]), nil
				},
			},
		},
	}
}

// Registry returns a registry holding every demo flow.
func Registry() registry.Registry {
	return registry.NewInMemory(map[string]api.FlowSpec{
		"arithmetic":   Arithmetic(),
		"daily-report": DailyReport(),
	})
}
