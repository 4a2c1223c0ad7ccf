package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Stage names the phases of a run
type Stage = string

const (
	// ReadStage loads input files
	ReadStage Stage = "read"
	// WriteStage evaluates the transformed Relation and writes it out
	WriteStage Stage = "write"
)

type stageStatistics struct {
	name       Stage
	runtime    time.Duration
	rows       int64
	partitions int64
}

// RunStatistics contains statistics about a running Redact pipeline
type RunStatistics struct {
	started               bool
	finished              bool
	startTime             time.Time
	totalRuntime          time.Duration
	stages                []*stageStatistics
	currentStageStartTime time.Time
}

// Start triggers statistics tracking, if it hasn't been started already
func (rs *RunStatistics) Start() {
	if !rs.started {
		rs.started = true
		rs.startTime = time.Now()
	}
}

// Finish completes statistics tracking
func (rs *RunStatistics) Finish() {
	rs.totalRuntime = time.Since(rs.startTime)
	rs.finished = true
}

// StartStage tracks the beginning of a new Stage
func (rs *RunStatistics) StartStage() {
	rs.currentStageStartTime = time.Now()
}

// EndStage tracks the end of a Stage, recording how much data it handled
func (rs *RunStatistics) EndStage(name Stage, numRows int, numPartitions int) {
	rs.stages = append(rs.stages, &stageStatistics{
		name:       name,
		runtime:    time.Since(rs.currentStageStartTime),
		rows:       int64(numRows),
		partitions: int64(numPartitions),
	})
}

// GetStartTime returns the start time of the Redact pipeline
func (rs *RunStatistics) GetStartTime() time.Time {
	return rs.startTime
}

// GetRuntime returns the running time of the Redact pipeline
func (rs *RunStatistics) GetRuntime() time.Duration {
	if rs.finished {
		return rs.totalRuntime
	}
	return time.Since(rs.startTime)
}

// GetStageRuntime returns the runtime of a finished Stage
func (rs *RunStatistics) GetStageRuntime(name Stage) (time.Duration, bool) {
	for _, s := range rs.stages {
		if s.name == name {
			return s.runtime, true
		}
	}
	return 0, false
}

// GetNumRowsProcessed returns the number of Rows which were handled by a Stage
func (rs *RunStatistics) GetNumRowsProcessed(name Stage) int64 {
	for _, s := range rs.stages {
		if s.name == name {
			return s.rows
		}
	}
	return 0
}

// GetNumPartitionsProcessed returns the number of Partitions (or files) which were produced by a Stage
func (rs *RunStatistics) GetNumPartitionsProcessed(name Stage) int64 {
	for _, s := range rs.stages {
		if s.name == name {
			return s.partitions
		}
	}
	return 0
}

// Summary describes the run in a single line
func (rs *RunStatistics) Summary() string {
	parts := make([]string, 0, len(rs.stages)+1)
	for _, s := range rs.stages {
		parts = append(parts, fmt.Sprintf("%s: %s rows, %s partitions in %s",
			s.name, humanize.Comma(s.rows), humanize.Comma(s.partitions), s.runtime.Round(time.Millisecond)))
	}
	parts = append(parts, fmt.Sprintf("total %s", rs.GetRuntime().Round(time.Millisecond)))
	return strings.Join(parts, "; ")
}
