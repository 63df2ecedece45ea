package execute

import (
	gocontext "context"
	"fmt"
	"sync"
	"time"

	"nereid/pkg/api"
	"nereid/pkg/asset"
	"nereid/pkg/broker"
	"nereid/pkg/broker/events"
	"nereid/pkg/compile"
	"nereid/pkg/util/context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrNotCompiled is returned when Execute is given a nil compiled flow.
// Executing an uncompiled spec is a caller contract violation, not a task
// failure, so it is the one case where Execute itself errors.
var ErrNotCompiled = errors.New("flow is not compiled")

// Executor runs compiled flows. The zero value is a working sequential
// executor with no collaborators. Task failures never surface as Execute
// errors, they are contained in the ExecutionResult.
type Executor struct {
	// MaxParallel bounds how many mutually independent tasks may run
	// concurrently. Zero or one selects the sequential reference mode,
	// which walks the frozen order task by task.
	MaxParallel int

	// Assets receives asset metadata after a producing task succeeds.
	// Optional. Recording is best effort and never fails the task.
	Assets asset.Recorder

	// Events receives lifecycle events during the run. Optional.
	// Publication is best effort and never fails the run.
	Events broker.Broker

	// Sleep implements the delay between two attempts of a task.
	// Defaults to a context-aware sleep.
	Sleep Sleeper
}

// New returns a sequential Executor with no collaborators.
func New() *Executor {
	return &Executor{}
}

// Execute runs the given compiled flow to completion and returns one
// Outcome per task. Parameters are resolved per task with precedence
// runtime > flow > task. Tasks whose upstream failed or was skipped are
// recorded SKIPPED without being invoked. When the context is cancelled,
// no new task is started, every remaining task is recorded SKIPPED and the
// partial result is returned together with the context error.
func (e *Executor) Execute(c gocontext.Context, flow *compile.CompiledFlow, params map[string]interface{}) (api.ExecutionResult, error) {
	if flow == nil {
		return api.ExecutionResult{}, ErrNotCompiled
	}

	ctx := context.FromContext(c)
	if ctx.RunID() == "" {
		ctx = context.WithRunID(ctx, uuid.New().String())
	}
	ctx = context.WithFlowName(ctx, flow.Name())

	r := &run{
		exec:     e,
		flow:     flow,
		runtime:  params,
		outcomes: make(map[string]api.Outcome, flow.Size()),
	}

	start := time.Now()
	ctx.Logger().Infof("run started with %d tasks", flow.Size())
	r.publish(ctx, events.Event{Type: events.TypeRunStarted})

	var cancelErr error
	if e.MaxParallel > 1 {
		cancelErr = r.walkLevels(ctx)
	} else {
		cancelErr = r.walkOrder(ctx)
	}

	result := api.ExecutionResult{
		RunID:    ctx.RunID(),
		Flow:     flow.Name(),
		Tasks:    r.outcomes,
		Duration: time.Since(start),
	}
	r.publish(ctx, events.Event{Type: events.TypeRunFinished})
	if cancelErr != nil {
		ctx.Logger().Warnf("run cancelled: %v", cancelErr)
		return result, cancelErr
	}
	ctx.Logger().Infof("run finished in %s", result.Duration)
	return result, nil
}

// run is the per-execution state. The outcome map is guarded because the
// level walk writes to it from several goroutines.
type run struct {
	exec    *Executor
	flow    *compile.CompiledFlow
	runtime map[string]interface{}

	mu       sync.Mutex
	outcomes map[string]api.Outcome
}

// walkOrder is the sequential reference mode: tasks execute one at a time
// in the frozen topological order.
func (r *run) walkOrder(ctx context.Context) error {
	for _, name := range r.flow.Order() {
		if err := ctx.Err(); err != nil {
			r.skipRemaining(ctx)
			return err
		}
		t, _ := r.flow.Task(name)
		tctx := context.WithTaskName(ctx, name)
		if root, reason, skip := r.skipCause(t); skip {
			r.recordSkip(tctx, name, root, reason)
			continue
		}
		r.setOutcome(name, r.runTask(tctx, t))
	}
	return nil
}

// walkLevels executes tasks level by level, where a level contains tasks of
// the same dependency depth. Tasks within a level are mutually independent
// so they may run concurrently, bounded by MaxParallel. Outcome
// classification is identical to the sequential mode.
func (r *run) walkLevels(ctx context.Context) error {
	sem := make(chan struct{}, r.exec.MaxParallel)
	for _, level := range r.flow.Levels() {
		if err := ctx.Err(); err != nil {
			r.skipRemaining(ctx)
			return err
		}
		var runnable []api.TaskSpec
		for _, name := range level {
			t, _ := r.flow.Task(name)
			if root, reason, skip := r.skipCause(t); skip {
				r.recordSkip(context.WithTaskName(ctx, name), name, root, reason)
				continue
			}
			runnable = append(runnable, t)
		}
		var wg sync.WaitGroup
		for _, t := range runnable {
			wg.Add(1)
			go func(t api.TaskSpec) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				tctx := context.WithTaskName(ctx, t.Name)
				r.setOutcome(t.Name, r.runTask(tctx, t))
			}(t)
		}
		wg.Wait()
	}
	return nil
}

// runTask resolves the task inputs, drives the attempt loop and classifies
// the terminal outcome. When the task declares an asset, the recorder is
// invoked once after success, before the outcome is returned.
func (r *run) runTask(ctx context.Context, t api.TaskSpec) api.Outcome {
	merged := mergeParams(t, r.flow.Params(), r.runtime)
	in := api.Inputs{
		Params:   filterParams(merged, t.Accepts),
		Upstream: r.upstreamValues(t),
	}

	start := time.Now()
	loop := attemptLoop{
		retries: t.Retries,
		delay:   t.RetryDelay,
		sleep:   r.exec.sleeper(),
		invoke: func(c gocontext.Context, attempt int) (interface{}, error) {
			if t.Fn == nil {
				return nil, errors.Errorf("task %s has no function", t.Name)
			}
			return t.Fn(c, in)
		},
		onAttempt: func(attempt int) {
			ctx.Logger().Infof("attempt %d/%d", attempt, t.Retries+1)
			r.publish(ctx, events.Event{Type: events.TypeRun, Attempt: attempt})
		},
		onRetry: func(attempt int, err error) {
			ctx.Logger().Warnf("attempt %d failed, retrying in %s: %v", attempt, t.RetryDelay, err)
			r.publish(ctx, events.Event{
				Type:    events.TypeRetry,
				Attempt: attempt,
				Data:    events.ErrorEventData{Message: err.Error(), Attempts: attempt},
			})
		},
	}

	value, attempts, err := loop.run(ctx)
	end := time.Now()
	if err != nil {
		ctx.Logger().Errorf("task failed after %d attempt(s): %v", attempts, err)
		r.publish(ctx, events.Event{
			Type:    events.TypeError,
			Attempt: attempts,
			Data:    events.ErrorEventData{Message: err.Error(), Attempts: attempts},
		})
		return api.Outcome{
			Status:    api.StatusFailed,
			Cause:     err.Error(),
			Err:       err,
			Attempts:  attempts,
			StartTime: &start,
			EndTime:   &end,
		}
	}

	ctx.Logger().Infof("task succeeded")
	r.publish(ctx, events.Event{Type: events.TypeSuccess, Attempt: attempts})
	if t.Produces != nil {
		r.recordAsset(ctx, t, merged, value)
	}
	return api.Outcome{
		Status:    api.StatusSucceeded,
		Value:     value,
		Attempts:  attempts,
		StartTime: &start,
		EndTime:   &end,
	}
}

// skipCause decides whether a task must be skipped because of its upstream
// outcomes. The returned root is the transitive origin of the skip: the
// first upstream that failed, or the root recorded on the first upstream
// that was itself skipped. Upstream tasks are checked in declaration order.
func (r *run) skipCause(t api.TaskSpec) (root string, reason string, skip bool) {
	for _, up := range t.Upstream {
		o, done := r.outcome(up)
		if !done {
			continue
		}
		switch o.Status {
		case api.StatusFailed:
			return up, fmt.Sprintf("upstream task %s failed", up), true
		case api.StatusSkipped:
			if o.UpstreamFailed == "" {
				return "", fmt.Sprintf("upstream task %s was skipped", up), true
			}
			return o.UpstreamFailed, fmt.Sprintf("upstream task %s failed", o.UpstreamFailed), true
		}
	}
	return "", "", false
}

func (r *run) recordSkip(ctx context.Context, name, root, reason string) {
	ctx.Logger().Warnf("task skipped: %s", reason)
	r.setOutcome(name, api.Outcome{
		Status:         api.StatusSkipped,
		Cause:          reason,
		UpstreamFailed: root,
	})
	r.publish(ctx, events.Event{
		Type: events.TypeSkip,
		Data: events.SkipEventData{Reason: reason, UpstreamFailed: root},
	})
}

// skipRemaining records a skip for every task without an outcome yet. Used
// on cancellation so the result still carries one outcome per task.
func (r *run) skipRemaining(ctx context.Context) {
	for _, name := range r.flow.Order() {
		if _, done := r.outcome(name); done {
			continue
		}
		r.recordSkip(context.WithTaskName(ctx, name), name, "", "execution cancelled")
	}
}

// recordAsset invokes the asset recorder for a succeeded producing task and
// publishes the corresponding event. The partition value is looked up in the
// merged parameters before Accepts filtering. Recorder errors are logged and
// carried on the event, never returned.
func (r *run) recordAsset(ctx context.Context, t api.TaskSpec, merged map[string]interface{}, value interface{}) {
	decl := *t.Produces
	data := events.AssetEventData{AssetID: decl.ID}
	var partition *asset.Partition
	if decl.PartitionKey != "" {
		partition = &asset.Partition{Key: decl.PartitionKey, Value: merged[decl.PartitionKey]}
		data.PartitionKey = partition.Key
		data.PartitionValue = partition.Value
	}
	if r.exec.Assets != nil {
		if err := r.exec.Assets.Record(ctx, decl, partition, value); err != nil {
			ctx.Logger().Warnf("cannot record asset %s: %v", decl.ID, err)
			data.Error = err.Error()
		}
	}
	r.publish(ctx, events.Event{Type: events.TypeAsset, Data: data})
}

// upstreamValues collects the values of the task's upstream results. All of
// them succeeded, otherwise the task would have been skipped.
func (r *run) upstreamValues(t api.TaskSpec) map[string]interface{} {
	values := make(map[string]interface{}, len(t.Upstream))
	for _, up := range t.Upstream {
		if o, done := r.outcome(up); done && o.Status == api.StatusSucceeded {
			values[up] = o.Value
		}
	}
	return values
}

func (r *run) publish(ctx context.Context, evt events.Event) {
	if r.exec.Events == nil {
		return
	}
	evt.RunID = ctx.RunID()
	evt.FlowName = ctx.FlowName()
	evt.TaskName = ctx.TaskName()
	evt.CorrelationID = ctx.CorrelationID()
	evt.Time = time.Now()
	if err := r.exec.Events.Publish(ctx, evt); err != nil {
		ctx.Logger().Warnf("cannot publish event %s: %v", evt, err)
	}
}

func (r *run) setOutcome(name string, o api.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[name] = o
}

func (r *run) outcome(name string) (api.Outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, done := r.outcomes[name]
	return o, done
}

func (e *Executor) sleeper() Sleeper {
	if e.Sleep != nil {
		return e.Sleep
	}
	return defaultSleeper
}
