package asset

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"nereid/pkg/api"
	"nereid/pkg/util/context"

	"github.com/pkg/errors"
)

// Partition identifies the slice of an asset a task execution wrote.
type Partition struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// Recorder is the asset-metadata collaborator invoked by the executor when
// a task declaring an asset succeeds. Recording is best effort: errors are
// surfaced through logs and events, never as task failures.
type Recorder interface {
	Record(ctx context.Context, decl api.AssetDecl, partition *Partition, ref interface{}) error
}

// NewLogRecorder returns a Recorder that writes asset metadata to the
// contextual logger.
func NewLogRecorder() Recorder {
	return logRecorder{}
}

type logRecorder struct{}

func (logRecorder) Record(ctx context.Context, decl api.AssetDecl, partition *Partition, ref interface{}) error {
	e := ctx.Logger().WithField("asset_id", decl.ID)
	if partition != nil {
		e = e.WithField("partition", partition.Key).WithField("partition_value", partition.Value)
	}
	e.Infof("asset write %s", decl.ID)
	return nil
}

// NewFileRecorder returns a Recorder that appends one JSON line per
// recorded asset to the given sidecar file.
func NewFileRecorder(path string) Recorder {
	return &fileRecorder{path: path}
}

type fileRecorder struct {
	path string
	mu   sync.Mutex
}

type assetRecord struct {
	Time           time.Time   `json:"time"`
	RunID          string      `json:"runId,omitempty"`
	Flow           string      `json:"flow,omitempty"`
	Task           string      `json:"task,omitempty"`
	AssetID        string      `json:"assetId"`
	Format         string      `json:"format,omitempty"`
	PartitionKey   string      `json:"partitionKey,omitempty"`
	PartitionValue interface{} `json:"partitionValue,omitempty"`
	PathTemplate   string      `json:"pathTemplate,omitempty"`
	Ref            interface{} `json:"ref,omitempty"`
}

func (r *fileRecorder) Record(ctx context.Context, decl api.AssetDecl, partition *Partition, ref interface{}) error {
	rec := assetRecord{
		Time:         time.Now(),
		RunID:        ctx.RunID(),
		Flow:         ctx.FlowName(),
		Task:         ctx.TaskName(),
		AssetID:      decl.ID,
		Format:       decl.Format,
		PathTemplate: decl.PathTemplate,
		Ref:          ref,
	}
	if partition != nil {
		rec.PartitionKey = partition.Key
		rec.PartitionValue = partition.Value
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "cannot open asset sidecar file %s", r.path)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(rec); err != nil {
		return errors.Wrapf(err, "cannot write asset record for %s", decl.ID)
	}
	return nil
}
