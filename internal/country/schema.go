package country

// Schema returns the idempotent DDL for the `country` table on driver.
// Unknown drivers get nil.
func Schema(driver string) []string {
	switch driver {
	case "mysql":
		return []string{mysqlSchema}
	case "sqlite3":
		return sqliteSchema
	default:
		return nil
	}
}

// cca2 is nullable so rows without an alpha-2 code do not collide on the
// unique index.
const mysqlSchema = `
CREATE TABLE IF NOT EXISTS country (
    id             BIGINT        NOT NULL AUTO_INCREMENT PRIMARY KEY,
    name           VARCHAR(255)  NOT NULL,
    official_name  VARCHAR(255)  NOT NULL,
    cca2           CHAR(2)       NULL,
    cca3           CHAR(3)       NOT NULL,
    flag           VARCHAR(255)  NOT NULL DEFAULT '',
    region         VARCHAR(100)  NOT NULL DEFAULT '',
    subregion      VARCHAR(100)  NOT NULL DEFAULT '',
    population     BIGINT        NOT NULL DEFAULT 0,
    languages      JSON          NOT NULL,
    timezones      JSON          NOT NULL,
    capitals       JSON          NOT NULL,
    currencies     JSON          NOT NULL,
    borders        JSON          NOT NULL,
    raw_data       JSON          NOT NULL,
    created_at     TIMESTAMP(6)  NOT NULL,
    updated_at     TIMESTAMP(6)  NOT NULL,
    UNIQUE KEY uq_country_cca3 (cca3),
    UNIQUE KEY uq_country_cca2 (cca2),
    KEY idx_country_region (region),
    KEY idx_country_name (name)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

var sqliteSchema = []string{`
CREATE TABLE IF NOT EXISTS country (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    name           TEXT     NOT NULL,
    official_name  TEXT     NOT NULL,
    cca2           TEXT     NULL UNIQUE,
    cca3           TEXT     NOT NULL UNIQUE,
    flag           TEXT     NOT NULL DEFAULT '',
    region         TEXT     NOT NULL DEFAULT '',
    subregion      TEXT     NOT NULL DEFAULT '',
    population     INTEGER  NOT NULL DEFAULT 0 CHECK (population >= 0),
    languages      TEXT     NOT NULL DEFAULT '{}',
    timezones      TEXT     NOT NULL DEFAULT '[]',
    capitals       TEXT     NOT NULL DEFAULT '[]',
    currencies     TEXT     NOT NULL DEFAULT '{}',
    borders        TEXT     NOT NULL DEFAULT '[]',
    raw_data       TEXT     NOT NULL DEFAULT '{}',
    created_at     DATETIME NOT NULL,
    updated_at     DATETIME NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_country_region ON country (region)`,
	`CREATE INDEX IF NOT EXISTS idx_country_name ON country (name)`,
}
