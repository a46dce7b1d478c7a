package commands

import (
	"database/sql"

	"github.com/oqabench/oqa/config"
	"github.com/oqabench/oqa/dataset"
	"github.com/oqabench/oqa/db"
	"github.com/oqabench/oqa/errors"
	"github.com/oqabench/oqa/logger"
	"github.com/oqabench/oqa/oracle"
)

// resolveDatasetPath returns the dataset file to operate on: the positional
// argument when given, otherwise the configured default.
func resolveDatasetPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Dataset.Path != "" {
		return cfg.Dataset.Path, nil
	}
	return "", errors.New("no dataset given: pass a path or set dataset.path in oqa.toml")
}

// buildOracle loads and validates a dataset file and indexes it.
func buildOracle(path string) (*oracle.Oracle, error) {
	table, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Debugw("Dataset loaded", "path", path, "objects", len(table))

	o, err := oracle.New(table)
	if err != nil {
		return nil, errors.Wrapf(err, "building oracle for %s", path)
	}
	return o, nil
}

// openRunStore opens and migrates the configured run database.
func openRunStore(cfg *config.Config) (*sql.DB, error) {
	database, err := db.Open(cfg.Database.Path, logger.Logger)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(database, logger.Logger); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// firstN returns the first n sorted object ids, or all of them when the
// table is smaller. This mirrors how the released oracle curves were
// produced (the first 30 keys of the table).
func firstN(ids []string, n int) []string {
	if n <= 0 || n >= len(ids) {
		return ids
	}
	return ids[:n]
}
