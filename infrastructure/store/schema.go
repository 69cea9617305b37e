package store

// Schema statements. Resource positions are the indexes used by the
// allocation core; group numbers start at 1.
const (
	createCoursesStmt = `
CREATE TABLE IF NOT EXISTS courses (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT    NOT NULL UNIQUE,
	total_votes INTEGER NOT NULL,
	group_count INTEGER NOT NULL
);`

	createTopicsStmt = `
CREATE TABLE IF NOT EXISTS topics (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	course_id   INTEGER NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	name        TEXT    NOT NULL,
	description TEXT    NOT NULL DEFAULT '',
	UNIQUE (course_id, position)
);`

	createTimeSlotsStmt = `
CREATE TABLE IF NOT EXISTS time_slots (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	course_id  INTEGER NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	begin_time TEXT    NOT NULL,
	end_time   TEXT    NOT NULL,
	UNIQUE (course_id, position)
);`

	createGroupsStmt = `
CREATE TABLE IF NOT EXISTS course_groups (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	course_id INTEGER NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
	number    INTEGER NOT NULL,
	UNIQUE (course_id, number)
);`

	createTopicVotesStmt = `
CREATE TABLE IF NOT EXISTS topic_votes (
	group_id INTEGER NOT NULL REFERENCES course_groups(id) ON DELETE CASCADE,
	topic_id INTEGER NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
	votes    INTEGER NOT NULL CHECK (votes >= 0),
	PRIMARY KEY (group_id, topic_id)
);`

	createSlotVotesStmt = `
CREATE TABLE IF NOT EXISTS slot_votes (
	group_id INTEGER NOT NULL REFERENCES course_groups(id) ON DELETE CASCADE,
	slot_id  INTEGER NOT NULL REFERENCES time_slots(id) ON DELETE CASCADE,
	votes    INTEGER NOT NULL CHECK (votes >= 0),
	PRIMARY KEY (group_id, slot_id)
);`
)

// schema lists table creation in dependency order.
var schema = []string{
	createCoursesStmt,
	createTopicsStmt,
	createTimeSlotsStmt,
	createGroupsStmt,
	createTopicVotesStmt,
	createSlotVotesStmt,
}

// tables lists tables in reverse dependency order, for dropping.
var tables = []string{
	"slot_votes",
	"topic_votes",
	"course_groups",
	"time_slots",
	"topics",
	"courses",
}
