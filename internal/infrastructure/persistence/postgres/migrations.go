package postgres

// GetMigrations returns all embedded migrations in version order.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_roster_students",
			UpSQL:   migration001Up,
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE ROSTER
// ══════════════════════════════════════════════════════════════════════════════

// position keeps roster insertion order; it is rewritten on every save.
const migration001Up = `
CREATE TABLE IF NOT EXISTS roster_students (
    position INTEGER NOT NULL,
    id VARCHAR(4) NOT NULL,
    name TEXT NOT NULL,
    class TEXT NOT NULL DEFAULT '',
    grades JSONB NOT NULL DEFAULT '{}'::jsonb,

    PRIMARY KEY (id),
    CONSTRAINT roster_students_position_unique UNIQUE (position),
    CONSTRAINT valid_student_id CHECK (id ~ '^S[0-9]{3}$'),
    CONSTRAINT valid_name CHECK (btrim(name) <> '')
);

CREATE INDEX IF NOT EXISTS idx_roster_students_class ON roster_students (lower(class));
`
