package postgres

// ══════════════════════════════════════════════════════════════════════════════
// EMBEDDED MIGRATIONS
// ══════════════════════════════════════════════════════════════════════════════

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_groups_and_students",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_categories",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_ledger",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}

const migration001Up = `
CREATE TABLE IF NOT EXISTS groups (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	term       TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS students (
	code          TEXT PRIMARY KEY,
	group_id      TEXT NOT NULL REFERENCES groups(id),
	display_name  TEXT NOT NULL,
	contact_email TEXT NOT NULL DEFAULT '',
	contact_phone TEXT NOT NULL DEFAULT '',
	enrolled_at   TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_students_group ON students(group_id);
`

const migration001Down = `
DROP TABLE IF EXISTS students;
DROP TABLE IF EXISTS groups;
`

const migration002Up = `
CREATE TABLE IF NOT EXISTS categories (
	group_id       TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
	name           TEXT NOT NULL,
	weight_percent DOUBLE PRECISION NOT NULL,
	max_items      INTEGER NOT NULL CHECK (max_items >= 1),
	position       INTEGER NOT NULL,
	updated_at     TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	PRIMARY KEY (group_id, name)
);
`

const migration002Down = `
DROP TABLE IF EXISTS categories;
`

// Ledger tables carry the upsert keys as unique constraints:
// one grade per (student, category, date), one attendance mark per
// (student, date). Category names are plain text on purpose - a grade may
// reference a category that no longer exists in the rubric (an orphan).
const migration003Up = `
CREATE TABLE IF NOT EXISTS grades (
	id            TEXT PRIMARY KEY,
	student_code  TEXT NOT NULL REFERENCES students(code) ON DELETE CASCADE,
	category_name TEXT NOT NULL,
	value         DOUBLE PRECISION NOT NULL CHECK (value >= 0.0 AND value <= 10.0),
	recorded_on   DATE NOT NULL,
	UNIQUE (student_code, category_name, recorded_on)
);

CREATE INDEX IF NOT EXISTS idx_grades_student ON grades(student_code);

CREATE TABLE IF NOT EXISTS attendance (
	id           TEXT PRIMARY KEY,
	student_code TEXT NOT NULL REFERENCES students(code) ON DELETE CASCADE,
	class_date   DATE NOT NULL,
	status       TEXT NOT NULL CHECK (status IN ('Present', 'Absent', 'Late', 'Excused')),
	UNIQUE (student_code, class_date)
);

CREATE INDEX IF NOT EXISTS idx_attendance_student ON attendance(student_code);
`

const migration003Down = `
DROP TABLE IF EXISTS attendance;
DROP TABLE IF EXISTS grades;
`
