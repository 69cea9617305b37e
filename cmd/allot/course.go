package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/ahrav/go-allot/internal/application"
)

type cmdCourseAdd struct {
	Spec struct {
		Path string `positional-arg-name:"SPEC" description:"Course YAML file"`
	} `positional-args:"yes" required:"yes"`
}

func (cmd *cmdCourseAdd) Execute([]string) error {
	if err := startup(); err != nil {
		return err
	}
	ctx := context.Background()

	spec, err := application.LoadCourseSpec(cmd.Spec.Path)
	if err != nil {
		return err
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := application.NewVoteService(st, nil, log.WithField("component", "votes"))
	course, err := svc.Create(ctx, spec)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "created course %s: %d groups, %d topics, %d slots, %d votes per dimension\n",
		course.Name, course.Groups, len(course.Topics), len(course.Slots), course.TotalVotes)
	return nil
}

type cmdCourseList struct{}

func (cmd *cmdCourseList) Execute([]string) error {
	if err := startup(); err != nil {
		return err
	}
	ctx := context.Background()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	names, err := application.NewVoteService(st, nil, nil).List(ctx)
	if err != nil {
		return err
	}
	application.NewReporter(reportLocale()).Courses(os.Stdout, names)
	return nil
}
