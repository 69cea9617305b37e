// Package store provides a SQLite-backed VoteStore for courses, their topics
// and time slots, and the votes each group casts.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"

	"github.com/ahrav/go-allot/internal/domain"
	"github.com/ahrav/go-allot/internal/ports"
)

var _ ports.VoteStore = (*SQLiteStore)(nil)

// SQLiteStore implements ports.VoteStore over a SQLite database file.
// All multi-row writes run inside a single transaction.
type SQLiteStore struct {
	db  *sql.DB
	log *log.Entry
}

// Open opens (creating if needed) the SQLite database at path and bootstraps
// the schema. A nil logger uses the standard logger.
func Open(ctx context.Context, path string, logger *log.Entry) (*SQLiteStore, error) {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// SQLite serialises writers; one connection keeps the foreign key pragma
	// and transactions on the same handle.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, log: logger.WithField("store", path)}
	if err = s.bootstrap(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func dsn(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}

func (s *SQLiteStore) bootstrap(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrapping schema: %w", err)
		}
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// CreateCourse inserts the course with its topics, slots, and numbered
// groups. It fails with ErrCourseExists if the name is taken.
func (s *SQLiteStore) CreateCourse(ctx context.Context, course domain.Course) (_ domain.Course, err error) {
	const op = "CreateCourse"

	txn, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Course{}, ports.NewStoreError(course.Name, op, err)
	}
	defer func() {
		if err != nil {
			_ = txn.Rollback()
		}
	}()

	res, err := txn.ExecContext(ctx,
		`INSERT INTO courses (name, total_votes, group_count) VALUES (?, ?, ?);`,
		course.Name, course.TotalVotes, course.Groups)
	if err != nil {
		if isUniqueViolation(err) {
			err = ports.ErrCourseExists
		}
		return domain.Course{}, ports.NewStoreError(course.Name, op, err)
	}
	if course.ID, err = res.LastInsertId(); err != nil {
		return domain.Course{}, ports.NewStoreError(course.Name, op, err)
	}

	course.Topics = slices.Clone(course.Topics)
	for pos := range course.Topics {
		t := &course.Topics[pos]
		res, err = txn.ExecContext(ctx,
			`INSERT INTO topics (course_id, position, name, description) VALUES (?, ?, ?, ?);`,
			course.ID, pos, t.Name, t.Description)
		if err == nil {
			t.ID, err = res.LastInsertId()
		}
		if err != nil {
			return domain.Course{}, ports.NewStoreError(course.Name, op, err)
		}
	}

	course.Slots = slices.Clone(course.Slots)
	for pos := range course.Slots {
		ts := &course.Slots[pos]
		res, err = txn.ExecContext(ctx,
			`INSERT INTO time_slots (course_id, position, begin_time, end_time) VALUES (?, ?, ?, ?);`,
			course.ID, pos, ts.Begin, ts.End)
		if err == nil {
			ts.ID, err = res.LastInsertId()
		}
		if err != nil {
			return domain.Course{}, ports.NewStoreError(course.Name, op, err)
		}
	}

	for number := 1; number <= course.Groups; number++ {
		if _, err = txn.ExecContext(ctx,
			`INSERT INTO course_groups (course_id, number) VALUES (?, ?);`,
			course.ID, number); err != nil {
			return domain.Course{}, ports.NewStoreError(course.Name, op, err)
		}
	}

	if err = txn.Commit(); err != nil {
		return domain.Course{}, ports.NewStoreError(course.Name, op, err)
	}

	s.log.WithFields(log.Fields{
		"course": course.Name,
		"groups": course.Groups,
		"topics": len(course.Topics),
		"slots":  len(course.Slots),
	}).Debug("created course")
	return course, nil
}

// Course loads a course by name. A miss returns a *ports.CourseNotFoundError
// carrying the closest stored names.
func (s *SQLiteStore) Course(ctx context.Context, name string) (domain.Course, error) {
	course, err := loadCourse(ctx, s.db, name)
	if err != nil {
		return domain.Course{}, ports.NewStoreError(name, "Course", err)
	}
	return course, nil
}

// ListCourses returns every course name in creation order.
func (s *SQLiteStore) ListCourses(ctx context.Context) ([]string, error) {
	names, err := listCourses(ctx, s.db)
	if err != nil {
		return nil, ports.NewStoreError("", "ListCourses", err)
	}
	return names, nil
}

// SaveVotes replaces a group's topic and slot votes. Vector lengths must
// match the course; the store does not check vote totals.
func (s *SQLiteStore) SaveVotes(ctx context.Context, courseName string, group int, votes domain.GroupVotes) (err error) {
	const op = "SaveVotes"

	txn, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ports.NewStoreError(courseName, op, err)
	}
	defer func() {
		if err != nil {
			_ = txn.Rollback()
		}
	}()

	course, err := loadCourse(ctx, txn, courseName)
	if err != nil {
		return ports.NewStoreError(courseName, op, err)
	}
	if len(votes.Topics) != len(course.Topics) || len(votes.Slots) != len(course.Slots) {
		err = fmt.Errorf("%w: got %d topic and %d slot counts, course has %d topics and %d slots",
			domain.ErrInvalidBallot, len(votes.Topics), len(votes.Slots), len(course.Topics), len(course.Slots))
		return ports.NewStoreError(courseName, op, err)
	}

	var groupID int64
	err = txn.QueryRowContext(ctx,
		`SELECT id FROM course_groups WHERE course_id = ? AND number = ?;`,
		course.ID, group).Scan(&groupID)
	if errors.Is(err, sql.ErrNoRows) {
		err = fmt.Errorf("%w: group %d", ports.ErrGroupNotFound, group)
	}
	if err != nil {
		return ports.NewStoreError(courseName, op, err)
	}

	for _, stmt := range []string{
		`DELETE FROM topic_votes WHERE group_id = ?;`,
		`DELETE FROM slot_votes WHERE group_id = ?;`,
	} {
		if _, err = txn.ExecContext(ctx, stmt, groupID); err != nil {
			return ports.NewStoreError(courseName, op, err)
		}
	}

	for pos, count := range votes.Topics {
		if _, err = txn.ExecContext(ctx,
			`INSERT INTO topic_votes (group_id, topic_id, votes) VALUES (?, ?, ?);`,
			groupID, course.Topics[pos].ID, count); err != nil {
			return ports.NewStoreError(courseName, op, err)
		}
	}
	for pos, count := range votes.Slots {
		if _, err = txn.ExecContext(ctx,
			`INSERT INTO slot_votes (group_id, slot_id, votes) VALUES (?, ?, ?);`,
			groupID, course.Slots[pos].ID, count); err != nil {
			return ports.NewStoreError(courseName, op, err)
		}
	}

	if err = txn.Commit(); err != nil {
		return ports.NewStoreError(courseName, op, err)
	}
	s.log.WithFields(log.Fields{"course": courseName, "group": group}).Debug("saved votes")
	return nil
}

// Tally returns the course together with every group's stored votes.
func (s *SQLiteStore) Tally(ctx context.Context, courseName string) (domain.Tally, error) {
	const op = "Tally"

	course, err := loadCourse(ctx, s.db, courseName)
	if err != nil {
		return domain.Tally{}, ports.NewStoreError(courseName, op, err)
	}

	tally := domain.Tally{Course: course, Votes: make([]domain.GroupVotes, course.Groups)}
	for i := range tally.Votes {
		tally.Votes[i] = domain.GroupVotes{
			Topics: make([]int, len(course.Topics)),
			Slots:  make([]int, len(course.Slots)),
		}
	}

	queries := []struct {
		stmt string
		dst  func(gv *domain.GroupVotes) []int
	}{
		{
			stmt: `SELECT g.number, t.position, v.votes
FROM topic_votes v
JOIN course_groups g ON g.id = v.group_id
JOIN topics t ON t.id = v.topic_id
WHERE g.course_id = ?;`,
			dst: func(gv *domain.GroupVotes) []int { return gv.Topics },
		},
		{
			stmt: `SELECT g.number, s.position, v.votes
FROM slot_votes v
JOIN course_groups g ON g.id = v.group_id
JOIN time_slots s ON s.id = v.slot_id
WHERE g.course_id = ?;`,
			dst: func(gv *domain.GroupVotes) []int { return gv.Slots },
		},
	}

	for _, q := range queries {
		if err = scanVotes(ctx, s.db, q.stmt, course.ID, func(number, pos, count int) error {
			if number < 1 || number > len(tally.Votes) {
				return fmt.Errorf("%w: stored group %d", ports.ErrGroupNotFound, number)
			}
			dst := q.dst(&tally.Votes[number-1])
			if pos < 0 || pos >= len(dst) {
				return fmt.Errorf("stored position %d outside course", pos)
			}
			dst[pos] = count
			return nil
		}); err != nil {
			return domain.Tally{}, ports.NewStoreError(courseName, op, err)
		}
	}
	return tally, nil
}

// Reset drops all stored data and recreates an empty schema.
func (s *SQLiteStore) Reset(ctx context.Context) (err error) {
	txn, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ports.NewStoreError("", "Reset", err)
	}
	defer func() {
		if err != nil {
			_ = txn.Rollback()
		}
	}()

	for _, table := range tables {
		if _, err = txn.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+";"); err != nil {
			return ports.NewStoreError("", "Reset", err)
		}
	}
	for _, stmt := range schema {
		if _, err = txn.ExecContext(ctx, stmt); err != nil {
			return ports.NewStoreError("", "Reset", err)
		}
	}
	if err = txn.Commit(); err != nil {
		return ports.NewStoreError("", "Reset", err)
	}
	s.log.Info("reset store")
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func listCourses(ctx context.Context, q querier) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT name FROM courses ORDER BY id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func loadCourse(ctx context.Context, q querier, name string) (domain.Course, error) {
	course := domain.Course{Name: name}
	err := q.QueryRowContext(ctx,
		`SELECT id, total_votes, group_count FROM courses WHERE name = ?;`, name).
		Scan(&course.ID, &course.TotalVotes, &course.Groups)
	if errors.Is(err, sql.ErrNoRows) {
		names, lerr := listCourses(ctx, q)
		if lerr != nil {
			return domain.Course{}, lerr
		}
		return domain.Course{}, &ports.CourseNotFoundError{Name: name, Suggestions: suggest(name, names)}
	} else if err != nil {
		return domain.Course{}, err
	}

	rows, err := q.QueryContext(ctx,
		`SELECT id, name, description FROM topics WHERE course_id = ? ORDER BY position;`, course.ID)
	if err != nil {
		return domain.Course{}, err
	}
	for rows.Next() {
		var t domain.Topic
		if err = rows.Scan(&t.ID, &t.Name, &t.Description); err != nil {
			rows.Close()
			return domain.Course{}, err
		}
		course.Topics = append(course.Topics, t)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return domain.Course{}, err
	}

	rows, err = q.QueryContext(ctx,
		`SELECT id, begin_time, end_time FROM time_slots WHERE course_id = ? ORDER BY position;`, course.ID)
	if err != nil {
		return domain.Course{}, err
	}
	for rows.Next() {
		var ts domain.TimeSlot
		if err = rows.Scan(&ts.ID, &ts.Begin, &ts.End); err != nil {
			rows.Close()
			return domain.Course{}, err
		}
		course.Slots = append(course.Slots, ts)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return domain.Course{}, err
	}
	return course, nil
}

func scanVotes(ctx context.Context, q querier, stmt string, courseID int64, fn func(number, pos, count int) error) error {
	rows, err := q.QueryContext(ctx, stmt, courseID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var number, pos, count int
		if err = rows.Scan(&number, &pos, &count); err != nil {
			return err
		}
		if err = fn(number, pos, count); err != nil {
			return err
		}
	}
	return rows.Err()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
