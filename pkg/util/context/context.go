package context

import (
	gocontext "context"

	"github.com/sirupsen/logrus"
)

// Context extends the regular golang context.Context interface with access
// to a contextual logger and execution identifiers.
type Context interface {
	gocontext.Context
	Logger() *logrus.Entry
	RunID() string
	CorrelationID() string
	FlowName() string
	TaskName() string
}

var baseLogger *logrus.Logger

func init() {
	baseLogger = logrus.New()
	baseLogger.SetLevel(logrus.InfoLevel)
	baseLogger.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyMsg: "message",
		},
	})
}

// SetLevel sets the level of the shared logger.
func SetLevel(level logrus.Level) {
	baseLogger.SetLevel(level)
}

// Background returns a non-nil, empty Context.
func Background() Context {
	return ctx{
		Context: gocontext.Background(),
	}
}

// FromContext returns a new context from the given go context.
func FromContext(c gocontext.Context) Context {
	if asCtx, isCtx := c.(Context); isCtx {
		return asCtx
	}
	return ctx{
		Context: c,
	}
}

// WithRunID returns a copy of the context with a run identifier.
func WithRunID(c Context, runID string) Context {
	return ctx{
		c,
		runID,
		c.CorrelationID(),
		c.FlowName(),
		c.TaskName(),
	}
}

// WithCorrelationID returns a copy of the context with a correlationID.
func WithCorrelationID(c Context, correlationID string) Context {
	return ctx{
		c,
		c.RunID(),
		correlationID,
		c.FlowName(),
		c.TaskName(),
	}
}

// WithFlowName returns a copy of the context with a flow name.
func WithFlowName(c Context, flow string) Context {
	return ctx{
		c,
		c.RunID(),
		c.CorrelationID(),
		flow,
		c.TaskName(),
	}
}

// WithTaskName returns a copy of the context with a task name.
func WithTaskName(c Context, task string) Context {
	return ctx{
		c,
		c.RunID(),
		c.CorrelationID(),
		c.FlowName(),
		task,
	}
}

type ctx struct {
	gocontext.Context
	runID         string
	correlationID string
	flowName      string
	taskName      string
}

func (c ctx) Logger() *logrus.Entry {
	e := logrus.NewEntry(baseLogger)
	if c.runID != "" {
		e = e.WithField("run_id", c.runID)
	}
	if c.flowName != "" {
		e = e.WithField("flow", c.flowName)
	}
	if c.taskName != "" {
		e = e.WithField("task", c.taskName)
	}
	return e
}

func (c ctx) RunID() string {
	return c.runID
}

func (c ctx) CorrelationID() string {
	return c.correlationID
}

func (c ctx) FlowName() string {
	return c.flowName
}

func (c ctx) TaskName() string {
	return c.taskName
}
