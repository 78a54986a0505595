package store

// Tracking tables. Names and columns are part of the tool's contract:
// external scripts and tests query schema_version directly.
const trackingSchema = `
-- One row per applied migration, keyed by file name (without extension)
CREATE TABLE IF NOT EXISTS schema_version (
  id INTEGER PRIMARY KEY,
  file_name VARCHAR,
  version VARCHAR,
  description VARCHAR,
  date_applied VARCHAR,
  success INTEGER
);

-- Last imported content checksum per manifest-referenced file
CREATE TABLE IF NOT EXISTS import_data_version (
  file_name VARCHAR PRIMARY KEY,
  checksum VARCHAR
);
`
