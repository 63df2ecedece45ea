package broker

import (
	"os"
	"strings"
	"sync"

	"nereid/pkg/broker/events"
	"nereid/pkg/util/config"
	"nereid/pkg/util/context"

	"github.com/pkg/errors"
)

const (
	envBrokerType = "BROKER_TYPE"
)

var (
	factories = make(map[Type]func(context.Context, interface{}) (Broker, error))
	configs   = make(map[Type]interface{})
	mutex     = &sync.Mutex{}
)

func register(t Type, f func(context.Context, interface{}) (Broker, error), c interface{}) {
	mutex.Lock()
	defer mutex.Unlock()
	factories[t] = f
	configs[t] = c
}

// Type is a string designing the implementation of Broker interface.
type Type string

// Broker is the observability channel executions publish their events to.
// Publishing is best effort from the executor's point of view: a broker
// error never changes a task outcome.
type Broker interface {
	// Publish publishes the given event.
	Publish(ctx context.Context, evt events.Event) error

	// Close closes all connections.
	Close() error
}

// NewFromConfig returns a new instance of Broker based on configuration
// from config file and/or env variables.
func NewFromConfig(ctx context.Context, configKey string) (Broker, error) {
	configTypeKey := configKey + ".type"
	var t string
	if typ := config.Get(configTypeKey); typ != nil {
		asString, isString := typ.(string)
		if !isString {
			return nil, errors.Errorf("config entry with key %s is not a string", configTypeKey)
		}
		t = asString
	} else {
		t = os.Getenv(envBrokerType)
	}
	if t == "" {
		return nil, errors.Errorf("broker type could not be found neither in config with key %s nor env %s", configTypeKey, envBrokerType)
	}

	typ := Type(strings.ToLower(t))
	v, exists := configs[typ]
	if !exists {
		return nil, errors.Errorf("unknown broker type %s", typ)
	}
	if err := config.Unmarshal(configKey, v); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal broker config")
	}

	return New(ctx, typ, v)
}

// NewFromEnv returns a new instance of Broker based on env variables.
func NewFromEnv(ctx context.Context) (Broker, error) {
	//NewFromConfig fallbacks to env when necessary
	return NewFromConfig(ctx, "")
}

// New returns a new instance of Broker based on given configuration struct.
func New(ctx context.Context, t Type, c interface{}) (Broker, error) {
	f, exists := factories[t]
	if !exists {
		return nil, errors.Errorf("unknown broker type %s", t)
	}

	return f(ctx, c)
}
