package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_analyses",
		SQL: `CREATE TABLE IF NOT EXISTS analyses (
  id                UUID             PRIMARY KEY DEFAULT uuid_generate_v4(),
  speech_id         UUID             NOT NULL,
  user_id           UUID             NOT NULL,
  speech_title      TEXT             NOT NULL,
  transcript        TEXT,
  summary           TEXT,
  feedback          TEXT             NOT NULL DEFAULT '',
  word_count        INTEGER          CHECK (word_count >= 0),
  clarity_score     DOUBLE PRECISION CHECK (clarity_score >= 0 AND clarity_score <= 10),
  structure_score   DOUBLE PRECISION CHECK (structure_score >= 0 AND structure_score <= 10),
  filler_word_count INTEGER          CHECK (filler_word_count >= 0),
  audio_path        TEXT,
  created_at        TIMESTAMPTZ      NOT NULL DEFAULT now(),
  updated_at        TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_analyses_user_created",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_analyses_user_created ON analyses (user_id, created_at DESC);`,
	},
	{
		Name: "create_index_analyses_clarity",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_analyses_clarity ON analyses (clarity_score);`,
	},
	{
		Name: "create_table_share_tokens",
		SQL: `CREATE TABLE IF NOT EXISTS share_tokens (
  id                  UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  analysis_id         UUID        NOT NULL REFERENCES analyses (id) ON DELETE CASCADE,
  user_id             UUID        NOT NULL,
  transcript_included BOOLEAN     NOT NULL DEFAULT false,
  expires_at          TIMESTAMPTZ NOT NULL,
  created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_share_tokens_analysis",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_share_tokens_analysis ON share_tokens (analysis_id);`,
	},
}

// EnsureMigrated checks if the 'analyses' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.analyses') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
