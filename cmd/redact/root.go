package main

import (
	"fmt"

	"github.com/go-sif/redact/cluster"
	"github.com/go-sif/redact/config"
	"github.com/go-sif/redact/logging"
	"github.com/go-sif/redact/pipeline"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const defaultSettingsPath = "./settings.json"

type rootOptions struct {
	settingsPath string
	workers      int
	logLevel     string
	logFile      string
	summary      bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "redact",
		Short: "Replace sensitive columns of a delimited dataset with their SHA-256 digests",
		Long: `redact reads every delimited file directly inside the input location, replaces each
configured column with a column named encrypted_<name> holding the hex SHA-256 digest
of its value, and writes the result to the output location, replacing its contents.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd, opts)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}
			return err
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.Flags().StringVarP(&opts.settingsPath, "settings", "s", defaultSettingsPath,
		"settings file describing the input, the output and the columns to encrypt")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0,
		"number of parallel workers (0 uses one per CPU). Overrides the settings file.")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "",
		"one of trace, debug, info, warn, error. Overrides the settings file.")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "",
		"write logs to this file instead of stderr. Overrides the settings file.")
	cmd.Flags().BoolVar(&opts.summary, "summary", false,
		"print the number of rows and files written once the run succeeds")
	return cmd
}

func run(cmd *cobra.Command, opts *rootOptions) error {
	v, err := config.Read(opts.settingsPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("workers") {
		v.Set(config.WorkersKey, opts.workers)
	}
	if flags.Changed("log-level") {
		v.Set(config.LogLevelKey, opts.logLevel)
	}
	if flags.Changed("log-file") {
		v.Set(config.LogFileKey, opts.logFile)
	}
	settings, err := config.Resolve(v)
	if err != nil {
		return err
	}

	logCloser, err := logging.Configure(logging.Options{
		Level:  settings.LogLevel(),
		File:   settings.LogFile(),
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer logCloser.Close()

	exec, err := cluster.CreateLocalCluster(&cluster.LocalOptions{NumWorkers: settings.Workers()})
	if err != nil {
		return err
	}
	result, err := pipeline.Run(cmd.Context(), settings, exec)
	if err != nil {
		log.Errorf("Run failed: %v", err)
		return err
	}
	if opts.summary {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows in %d files to %s\n",
			result.Manifest.NumRows(), len(result.Manifest.Shards), result.Output.String())
	}
	return nil
}
