package testing

import (
	"context"

	"github.com/go-sif/redact/cluster"
	"github.com/go-sif/redact/config"
	"github.com/go-sif/redact/pipeline"
)

// LocalRun runs a redaction job on a local test cluster with a certain number of workers
func LocalRun(ctx context.Context, settings *config.Settings, numWorkers int) (result *pipeline.Result, err error) {
	// handle panics
	defer func() {
		if r := recover(); r != nil {
			if anErr, ok := r.(error); ok {
				err = anErr
			} else {
				panic(r)
			}
		}
	}()

	exec, err := cluster.CreateLocalCluster(&cluster.LocalOptions{NumWorkers: numWorkers})
	if err != nil {
		return nil, err
	}
	return pipeline.Run(ctx, settings, exec)
}
