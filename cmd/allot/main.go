// Command allot compares preference-based allocation strategies in
// simulation and assigns topics and time slots to course groups from their
// stored votes.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"

	"github.com/ahrav/go-allot/infrastructure/store"
	"github.com/ahrav/go-allot/internal/application"
)

// Config holds options shared by every subcommand.
type Config struct {
	Log      application.LogConfig `group:"Logging" namespace:"log" env-namespace:"LOG"`
	Database string                `long:"db" env:"ALLOT_DB" default:"allot.db" description:"Path of the SQLite course database"`
	Locale   string                `long:"locale" env:"ALLOT_LOCALE" default:"en" description:"BCP 47 tag used to format report numbers"`
}

var cfg Config

func main() {
	parser := flags.NewParser(&cfg, flags.Default)
	parser.LongDescription = `allot runs allocation experiments and computes course placements.

Use "simulate" to compare the random, top-first, and voting strategies over
repeated trials. Use the "course", "vote", and "results" commands to collect
group votes for a stored course and place every group.`

	mustAddCmd(parser.Command, "simulate", "Run allocation experiments", `
Run one or more experiment files and print per-strategy mean fairness and
welfare. Without --config the built-in baseline experiment runs: 10 agents,
12 topics, 15 slots, 1000 trials, seed 42.
`, &cmdSimulate{})

	course := mustAddCmd(parser.Command, "course", "Administer courses", "", &struct{}{})
	mustAddCmd(course, "add", "Create a course from a YAML spec", "", &cmdCourseAdd{})
	mustAddCmd(course, "list", "List stored courses", "", &cmdCourseList{})

	mustAddCmd(parser.Command, "vote", "Submit a group's votes", `
Replace a group's votes for a course. Each of --topics and --slots is a comma
separated list with one count per topic (slot) in course order, summing to
the course's vote total.
`, &cmdVote{})
	mustAddCmd(parser.Command, "results", "Compute course placements", "", &cmdResults{})
	mustAddCmd(parser.Command, "reset", "Delete all courses and votes", "", &cmdReset{})

	if _, err := parser.Parse(); err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		// go-flags has already printed the error.
		os.Exit(1)
	}
}

func mustAddCmd(cmd *flags.Command, name, short, long string, data any) *flags.Command {
	sub, err := cmd.AddCommand(name, short, long, data)
	if err != nil {
		log.WithError(err).Fatal("failed to add command")
	}
	return sub
}

// startup configures logging from the shared options.
func startup() error {
	return application.InitLog(cfg.Log)
}

// openStore opens the configured course database.
func openStore(ctx context.Context) (*store.SQLiteStore, error) {
	return store.Open(ctx, cfg.Database, log.WithField("component", "store"))
}
