package main

import (
	"fmt"
	"net/http"
	"os"

	"nereid/pkg/asset"
	"nereid/pkg/broker"
	"nereid/pkg/client"
	"nereid/pkg/demo"
	"nereid/pkg/execute"
	"nereid/pkg/registry"
	"nereid/pkg/util/config"
	"nereid/pkg/util/context"

	"github.com/labstack/echo/v4"
	"github.com/neko-neko/echo-logrus/v2/log"
	"github.com/pkg/errors"
)

const (
	envPort       = "NEREID_PORT"
	envConfigFile = "NEREID_CONFIG"
	envAssetFile  = "NEREID_ASSET_FILE"
	envBroker     = "BROKER_TYPE"
)

func main() {
	// Create context, echo object and set logger
	e := echo.New()
	ctx := context.Background()
	l := log.MyLogger{Logger: ctx.Logger().Logger}
	e.Logger = &l

	if path := os.Getenv(envConfigFile); path != "" {
		config.SetConfigFile(path)
		if err := config.ReadInConfig(); err != nil {
			e.Logger.Fatal(errors.Wrap(err, "failed to read config"))
			os.Exit(1)
		}
	}

	exec, err := newExecutor(ctx)
	if err != nil {
		e.Logger.Fatal(errors.Wrap(err, "failed to instantiate executor"))
		os.Exit(1)
	}

	// Setup routes
	h := handlers{
		reg:  demo.Registry(),
		exec: exec,
	}
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Hello, World!")
	})
	e.Add(client.ListFlowsMethod, client.ListFlowsPath, h.ListFlows)
	e.Add(client.GraphMethod, client.GraphPath, h.Graph)
	e.Add(client.RunMethod, client.RunPath, h.Run)

	e.HideBanner = true
	e.HidePort = true

	port := os.Getenv(envPort)
	if port == "" {
		port = "8080"
	}
	e.Logger.Infof("http server started on 127.0.0.1:%s", port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", port)))
}

// newExecutor wires the executor collaborators from the config layer and
// the environment. Both the event broker and the asset sidecar file are
// optional.
func newExecutor(ctx context.Context) (*execute.Executor, error) {
	exec := execute.New()

	if config.Get("broker.type") != nil || os.Getenv(envBroker) != "" {
		b, err := broker.NewFromConfig(ctx, "broker")
		if err != nil {
			return nil, err
		}
		exec.Events = b
	}

	if path := os.Getenv(envAssetFile); path != "" {
		exec.Assets = asset.NewFileRecorder(path)
	} else {
		exec.Assets = asset.NewLogRecorder()
	}
	return exec, nil
}

type handlers struct {
	reg  registry.Registry
	exec *execute.Executor
}
