package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS trips (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	date_start TEXT NOT NULL,
	date_end   TEXT NOT NULL,
	currency   TEXT NOT NULL DEFAULT 'USD',
	theme      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS days (
	id         TEXT PRIMARY KEY,
	trip_id    TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
	date       TEXT NOT NULL,
	day_index  INTEGER NOT NULL,
	notes      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS activities (
	id            TEXT PRIMARY KEY,
	trip_id       TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
	day_id        TEXT NOT NULL,
	title         TEXT NOT NULL,
	start_time    TEXT NOT NULL DEFAULT '',
	end_time      TEXT NOT NULL DEFAULT '',
	location_text TEXT NOT NULL DEFAULT '',
	category      TEXT NOT NULL DEFAULT 'general',
	notes         TEXT NOT NULL DEFAULT '',
	cost          REAL NOT NULL DEFAULT 0,
	priority      TEXT NOT NULL DEFAULT 'medium',
	color         TEXT NOT NULL DEFAULT '',
	order_index   INTEGER NOT NULL DEFAULT 0,
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_days_trip_id ON days(trip_id);
CREATE INDEX IF NOT EXISTS idx_days_day_index ON days(trip_id, day_index);
CREATE INDEX IF NOT EXISTS idx_activities_trip_id ON activities(trip_id);
CREATE INDEX IF NOT EXISTS idx_activities_day_order ON activities(day_id, order_index);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
