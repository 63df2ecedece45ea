package common

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"nereid/pkg/api"

	"github.com/pkg/errors"
)

var (
	statusIconMap map[api.Status]string
)

func init() {
	statusIconMap = map[api.Status]string{
		api.StatusPending:   "◷",
		api.StatusRunning:   "●",
		api.StatusRetrying:  "↻",
		api.StatusSucceeded: "✔",
		api.StatusFailed:    "✖",
		api.StatusSkipped:   "○",
	}
}

// ParseParams parses repeatable key=value pairs into a runtime parameter
// map. Later pairs override earlier ones for the same key. Values are
// decoded as JSON when possible so numbers and booleans keep their type,
// anything else is passed through as a string.
func ParseParams(pairs []string) (map[string]interface{}, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			return nil, errors.Errorf("malformed parameter %q, expected key=value", pair)
		}
		var v interface{}
		if err := json.Unmarshal([]byte(kv[1]), &v); err != nil {
			v = kv[1]
		}
		params[kv[0]] = v
	}
	return params, nil
}

// PrintGraph prints the dependency edges of a flow, one "from -> to" line
// per edge.
func PrintGraph(w io.Writer, flow string, edges []api.Edge) {
	fmt.Fprintf(w, "%s\n", flow)
	for _, e := range edges {
		fmt.Fprintf(w, "%s -> %s\n", e.From, e.To)
	}
}

// PrintResult prints the execution result in the given writer. Tasks are
// printed in the given order, or sorted by name when no order is known.
func PrintResult(w io.Writer, result api.ExecutionResult, order []string) {
	if order == nil {
		for name := range result.Tasks {
			order = append(order, name)
		}
		sort.Strings(order)
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "Flow:\t%s\n", result.Flow)
	fmt.Fprintf(tw, "RunID:\t%s\n", result.RunID)
	fmt.Fprintf(tw, "Status:\t%s\n", overallStatus(result))
	fmt.Fprintf(tw, "Duration:\t%s\n", duration(result.Duration))
	tw.Flush()
	fmt.Fprintln(w)

	tw.Init(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tSTATUS\tATTEMPTS\tDETAIL")
	for i, name := range order {
		o, exists := result.Tasks[name]
		if !exists {
			continue
		}
		prefix := "├"
		if i == len(order)-1 {
			prefix = "└"
		}
		fmt.Fprintf(tw, "%s %s %s\t%s\t%d\t%s\n", prefix, statusIconMap[o.Status], name, o.Status, o.Attempts, detail(o))
	}
	tw.Flush()
}

// TaskView is the live state of a task as seen by the watch view.
type TaskView struct {
	Status  api.Status
	Attempt int
}

// PrintWatch prints the live state of an execution in the given writer.
func PrintWatch(w io.Writer, flow string, order []string, states map[string]TaskView) {
	fmt.Fprintf(w, "%s\n\n", flow)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tSTATUS\tATTEMPT")
	for _, name := range order {
		view, seen := states[name]
		if !seen {
			view = TaskView{Status: api.StatusPending}
		}
		fmt.Fprintf(tw, "%s %s\t%s\t%s\n", statusIconMap[view.Status], name, view.Status, attempt(view))
	}
	tw.Flush()
}

func attempt(view TaskView) string {
	if view.Attempt == 0 {
		return ""
	}
	return fmt.Sprintf("%d", view.Attempt)
}

func detail(o api.Outcome) string {
	switch o.Status {
	case api.StatusSucceeded:
		if o.Value == nil {
			return ""
		}
		return fmt.Sprintf("%v", o.Value)
	case api.StatusSkipped:
		return o.Cause
	default:
		return o.Cause
	}
}

func overallStatus(result api.ExecutionResult) api.Status {
	if result.Succeeded() {
		return api.StatusSucceeded
	}
	return api.StatusFailed
}

func duration(d time.Duration) string {
	if d.Seconds() <= 60.0 {
		return fmt.Sprintf("%0.2fs", d.Seconds())
	} else if d.Minutes() <= 60.0 {
		m := int64(d.Minutes())
		s := math.Mod(d.Seconds(), 60)
		return fmt.Sprintf("%0.dm %0.0fs", m, s)
	}
	h := int64(d.Hours())
	m := int64(math.Mod(d.Minutes(), 60))
	s := math.Mod(d.Seconds(), 60)
	return fmt.Sprintf("%0.dh %0.dm %0.0fs", h, m, s)
}
