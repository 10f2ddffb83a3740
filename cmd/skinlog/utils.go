package main

import (
	"database/sql"
	"strings"
	"time"

	"github.com/unowned-ai/skinlog/pkg/config"
	pkgdb "github.com/unowned-ai/skinlog/pkg/db"
	"github.com/unowned-ai/skinlog/pkg/skincare"
	"github.com/unowned-ai/skinlog/pkg/utils"
)

// formatTimestamp converts a Unix timestamp (float64, seconds since epoch)
// to a human-readable string in RFC3339 format.
func formatTimestamp(timestamp float64) string {
	timeObj := time.Unix(int64(timestamp), 0)
	return timeObj.Format(time.RFC3339)
}

// openDB opens the configured database and brings its schema up to date.
func openDB() (*sql.DB, string, error) {
	path, err := utils.ResolveAndEnsureDBPath(dbPath)
	if err != nil {
		return nil, "", err
	}

	dbConn, err := pkgdb.OpenDBConnection(path, walMode, syncMode)
	if err != nil {
		return nil, "", err
	}

	if err := pkgdb.UpgradeDB(dbConn, path, pkgdb.TargetSchemaVersion); err != nil {
		dbConn.Close()
		return nil, "", err
	}
	return dbConn, path, nil
}

func currentConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

// openDictionary loads the configured ingredient dictionary.
func openDictionary() (*skincare.Database, error) {
	return skincare.OpenDatabase(currentConfig().Ingredients.Path)
}

// resolveCondition prefers an explicit condition over a classifier
// prediction; neither means Normal.
func resolveCondition(condition, prediction string) (skincare.Condition, error) {
	if strings.TrimSpace(condition) != "" {
		return skincare.ParseCondition(condition)
	}
	if strings.TrimSpace(prediction) != "" {
		return currentConfig().ConditionMapper().Map(prediction), nil
	}
	return skincare.Normal, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
