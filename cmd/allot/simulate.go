package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/ahrav/go-allot/infrastructure/middleware"
	"github.com/ahrav/go-allot/internal/application"
	"github.com/ahrav/go-allot/internal/ports"
)

type cmdSimulate struct {
	Configs    []string `long:"config" short:"c" description:"Experiment YAML file (repeatable)"`
	Parallel   int      `long:"parallel" default:"0" description:"Experiments run at once (0 for GOMAXPROCS)"`
	Format     string   `long:"format" default:"table" choice:"table" choice:"json" description:"Output format"`
	MetricsOut string   `long:"metrics-out" description:"Write collected metrics in Prometheus text format to this file"`
}

func (cmd *cmdSimulate) Execute([]string) error {
	if err := startup(); err != nil {
		return err
	}
	ctx := context.Background()

	loader, err := application.NewExperimentLoader(application.NewDefaultAllocatorRegistry())
	if err != nil {
		return err
	}

	var experiments []*application.Experiment
	if len(cmd.Configs) == 0 {
		exp, err := loader.Compile(ctx, application.DefaultExperimentConfig())
		if err != nil {
			return err
		}
		experiments = append(experiments, exp)
	}
	for _, path := range cmd.Configs {
		exp, err := loader.LoadFromFile(ctx, path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		experiments = append(experiments, exp)
	}

	registry := prometheus.NewRegistry()
	harness := application.NewHarness(
		application.WithMetrics(middleware.NewPrometheusMetrics(registry)),
		application.WithLogger(log.WithField("component", "harness")),
	)

	results, err := harness.RunAll(ctx, experiments, cmd.Parallel)
	if err != nil {
		return err
	}

	if cmd.Format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		reporter := application.NewReporter(reportLocale())
		for i, result := range results {
			if i > 0 {
				fmt.Fprintln(os.Stdout)
			}
			if err := reporter.Summary(os.Stdout, result); err != nil {
				return err
			}
		}
	}

	if cmd.MetricsOut != "" {
		return writeMetrics(registry, cmd.MetricsOut)
	}
	return nil
}

// writeMetrics dumps every gathered metric family in text exposition format.
// Gather and encode failures are returned as *ports.MetricsError.
func writeMetrics(gatherer prometheus.Gatherer, path string) (err error) {
	families, err := gatherer.Gather()
	if err != nil {
		return ports.NewMetricsError("*", "gather", err)
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("creating metrics file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	for _, mf := range families {
		if _, err = expfmt.MetricFamilyToText(f, mf); err != nil {
			return ports.NewMetricsError(mf.GetName(), "encode", err)
		}
	}
	log.WithField("path", path).Info("wrote metrics")
	return nil
}

// reportLocale parses the configured locale, falling back to English.
func reportLocale() language.Tag {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		log.WithError(err).WithField("locale", cfg.Locale).Warn("unrecognized locale, using en")
		return language.English
	}
	return tag
}
