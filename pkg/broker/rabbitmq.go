package broker

import (
	"encoding/json"
	"fmt"
	"strconv"

	"nereid/pkg/broker/events"
	"nereid/pkg/util/context"

	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

const (
	// RabbitMQType Broker type RabbitMQ.
	RabbitMQType Type = "rabbitmq"

	headerRunID         = "x-nereid-run-id"
	headerFlowName      = "x-nereid-flow"
	headerTaskName      = "x-nereid-task"
	headerCorrelationID = "x-nereid-correlation-id"
	headerType          = "x-nereid-type"
	headerAttempt       = "x-nereid-attempt"
)

func init() {
	f := func(ctx context.Context, c interface{}) (Broker, error) {
		asRabbitMQConf, isRabbitMQConf := c.(*RabbitMQConfig)
		if !isRabbitMQConf {
			return nil, errors.Errorf("given configuration struct is not type %v", RabbitMQConfig{})
		}
		return NewRabbitMQBroker(ctx, *asRabbitMQConf)
	}
	register(RabbitMQType, f, &RabbitMQConfig{})
}

// RabbitMQConfig is configuration for rabbitmq broker implementation.
type RabbitMQConfig struct {
	User     string `json:"user" mapstructure:"user" env:"BROKER_RABBITMQ_USER"`
	Password string `json:"password" mapstructure:"password" env:"BROKER_RABBITMQ_PASSWORD"`
	URI      string `json:"uri" mapstructure:"uri" env:"BROKER_RABBITMQ_URI"`
	Exchange string `json:"exchange" mapstructure:"exchange" env:"BROKER_RABBITMQ_EXCHANGE" envDefault:"nereid.ex.runs"`
}

type rabbitmq struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	config RabbitMQConfig
}

// NewRabbitMQBroker returns a Broker implementation based on RabbitMQ.
// Execution events are published to a headers exchange so consumers can
// bind on run, flow or task.
func NewRabbitMQBroker(ctx context.Context, conf RabbitMQConfig) (Broker, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s", conf.User, conf.Password, conf.URI)
	ctx.Logger().Infof("connecting to rabbitmq at '%s'", conf.URI)
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot connect to rabbitmq at '%s'", conf.URI)
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "cannot open channel to rabbitmq")
	}
	err = ch.ExchangeDeclare(
		conf.Exchange, // name
		"headers",     // kind
		true,          // durable
		false,         // auto-delete
		false,         // internal
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot declare exchange %s", conf.Exchange)
	}
	return &rabbitmq{
		conn:   conn,
		ch:     ch,
		config: conf,
	}, nil
}

func (q *rabbitmq) Publish(ctx context.Context, evt events.Event) error {
	ctx.Logger().Tracef("publishing event %s to exchange %s", evt, q.config.Exchange)
	headers := amqp.Table{
		headerRunID:         evt.RunID,
		headerFlowName:      evt.FlowName,
		headerTaskName:      evt.TaskName,
		headerCorrelationID: evt.CorrelationID,
		headerType:          string(evt.Type),
		headerAttempt:       strconv.Itoa(evt.Attempt),
	}

	data := evt.Data
	if data == nil {
		data = struct{}{}
	}
	body, err := json.Marshal(data)
	if err != nil {
		return errors.Wrapf(err, "cannot marshal event %s", evt)
	}

	return q.ch.Publish(
		q.config.Exchange, // exchange
		evt.RunID,         // routing key
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Headers:     headers,
			Timestamp:   evt.Time,
		})
}

func (q *rabbitmq) Close() error {
	if err := q.ch.Close(); err != nil {
		return err
	}
	return q.conn.Close()
}
