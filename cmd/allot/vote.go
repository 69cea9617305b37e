package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ahrav/go-allot/internal/application"
	"github.com/ahrav/go-allot/internal/domain"
)

type cmdVote struct {
	Course string `long:"course" required:"true" description:"Course name"`
	Group  int    `long:"group" required:"true" description:"Group number, starting at 1"`
	Topics string `long:"topics" required:"true" description:"Comma separated vote counts per topic"`
	Slots  string `long:"slots" required:"true" description:"Comma separated vote counts per time slot"`
}

func (cmd *cmdVote) Execute([]string) error {
	if err := startup(); err != nil {
		return err
	}
	ctx := context.Background()

	topics, err := parseCounts(cmd.Topics)
	if err != nil {
		return fmt.Errorf("--topics: %w", err)
	}
	slots, err := parseCounts(cmd.Slots)
	if err != nil {
		return fmt.Errorf("--slots: %w", err)
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := application.NewVoteService(st, nil, log.WithField("component", "votes"))
	if err := svc.Submit(ctx, cmd.Course, cmd.Group, domain.GroupVotes{Topics: topics, Slots: slots}); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "recorded votes of group %d for %s\n", cmd.Group, cmd.Course)
	return nil
}

// parseCounts parses "60, 40,0" into []int{60, 40, 0}.
func parseCounts(s string) ([]int, error) {
	fields := strings.Split(s, ",")
	counts := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		counts[i] = n
	}
	return counts, nil
}
