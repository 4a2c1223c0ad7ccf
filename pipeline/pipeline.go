// Package pipeline runs a redaction job: it reads a delimited dataset, replaces
// sensitive columns with their digests and writes the result back out.
package pipeline

import (
	"context"

	"github.com/go-sif/redact"
	"github.com/go-sif/redact/config"
	"github.com/go-sif/redact/datasink/dsv"
	"github.com/go-sif/redact/datasource/file"
	dsvparser "github.com/go-sif/redact/datasource/parser/dsv"
	errors "github.com/go-sif/redact/errors"
	"github.com/go-sif/redact/internal/stats"
	"github.com/go-sif/redact/operations/transform"
	"github.com/go-sif/redact/partition"
	"github.com/go-sif/redact/storage"
	log "github.com/sirupsen/logrus"
)

// Result describes a completed run
type Result struct {
	Manifest   *dsv.Manifest
	Output     storage.Location
	Statistics *stats.RunStatistics
}

// Run reads the input named by settings, encrypts the configured columns and
// writes the result to the output location, replacing anything already there.
// Errors are ConfigurationErrors, InputReadErrors, OutputWriteErrors or, when a
// column to encrypt is absent from the input, a MissingColumnError. Nothing is
// written unless every step before the write succeeds.
func Run(ctx context.Context, settings *config.Settings, exec redact.ExecutionContext) (*Result, error) {
	resolver := storage.CreateResolver()
	defer func() {
		if err := resolver.Close(); err != nil {
			log.Warnf("Failed to close storage: %v", err)
		}
	}()
	for _, notice := range settings.Notices() {
		log.Info(notice)
	}
	for _, warning := range settings.Warnings() {
		log.Warn(warning)
	}
	rs := &stats.RunStatistics{}
	rs.Start()

	// read
	rs.StartStage()
	log.Infof("Reading %s", settings.InputLocation().String())
	parser := dsvparser.CreateParser(&dsvparser.ParserConf{
		PartitionSize: settings.PartitionSize(),
		Delimiter:     settings.Delimiter(),
		NilValue:      settings.InputNilValue(),
		Comment:       settings.Comment(),
		LazyQuotes:    settings.LazyQuotes(),
	})
	input, err := file.Read(ctx, exec, resolver, settings.InputLocation(), parser)
	if err != nil {
		return nil, err
	}
	rs.EndStage(stats.ReadStage, input.NumRows(), input.NumPartitions())
	log.Infof("Read %d partitions with columns %v", input.NumPartitions(), input.GetSchema().ColumnNames())

	// transform
	encrypted, err := input.To(transform.EncryptColumnsWithNilText(settings.InputNilValue(), settings.EncryptColumns()...))
	if err != nil {
		return nil, err
	}

	// plan, observing the number of workers available right now
	numShards, err := partition.PlanPartitions(exec.NumWorkers())
	if err != nil {
		return nil, err
	}
	log.Debugf("Planned %d output partitions for %d workers", numShards, exec.NumWorkers())

	// write
	rs.StartStage()
	writer, err := dsv.CreateWriter(&dsv.WriterConf{
		Delimiter:   settings.Delimiter(),
		NullValue:   settings.NullValue(),
		EmptyValue:  settings.EmptyValue(),
		Header:      settings.Header(),
		Compression: settings.Compression(),
	})
	if err != nil {
		return nil, &errors.ConfigurationError{Reason: "invalid output format", Err: err}
	}
	manifest, err := writer.Write(ctx, exec, encrypted, resolver, settings.OutputLocation(), numShards)
	if err != nil {
		return nil, err
	}
	rs.EndStage(stats.WriteStage, manifest.NumRows(), len(manifest.Shards))
	rs.Finish()
	log.Infof("Run %s complete (%s)", manifest.RunID, rs.Summary())
	return &Result{
		Manifest:   manifest,
		Output:     settings.OutputLocation(),
		Statistics: rs,
	}, nil
}
