package main

import (
	"context"
	"encoding/json"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/ahrav/go-allot/internal/application"
)

type cmdResults struct {
	Course string `long:"course" required:"true" description:"Course name"`
	Format string `long:"format" default:"text" choice:"text" choice:"table" choice:"json" description:"Output format"`
}

func (cmd *cmdResults) Execute([]string) error {
	if err := startup(); err != nil {
		return err
	}
	ctx := context.Background()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := application.NewResultsService(st, nil, log.WithField("component", "results"))
	results, err := svc.Compute(ctx, cmd.Course)
	if err != nil {
		return err
	}

	reporter := application.NewReporter(reportLocale())
	switch cmd.Format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "table":
		return reporter.PlacementTable(os.Stdout, results)
	default:
		reporter.Placements(os.Stdout, results)
	}
	return nil
}

type cmdReset struct {
	Yes bool `long:"yes" description:"Confirm deleting every course and vote"`
}

func (cmd *cmdReset) Execute([]string) error {
	if err := startup(); err != nil {
		return err
	}
	if !cmd.Yes {
		log.Warn("reset deletes every course and vote; pass --yes to confirm")
		return nil
	}
	ctx := context.Background()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	return application.NewVoteService(st, nil, nil).Reset(ctx)
}
