package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS scripts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  description TEXT,
  tags TEXT,
  code TEXT NOT NULL,
  notes TEXT,
  created_at TEXT NOT NULL,
  modified_at TEXT NOT NULL,
  version INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_scripts_name ON scripts(name);
CREATE INDEX IF NOT EXISTS idx_scripts_category ON scripts(category);
CREATE INDEX IF NOT EXISTS idx_scripts_created_at ON scripts(created_at);
CREATE INDEX IF NOT EXISTS idx_scripts_modified_at ON scripts(modified_at);

CREATE TABLE IF NOT EXISTS shell_cache (
  bucket TEXT NOT NULL,
  path TEXT NOT NULL,
  status INTEGER NOT NULL,
  content_type TEXT,
  headers TEXT,
  body BLOB,
  cached_at TEXT NOT NULL,
  PRIMARY KEY (bucket, path)
);

CREATE INDEX IF NOT EXISTS idx_shell_cache_bucket ON shell_cache(bucket);
`
