package models

import (
	"time"
)

// SweepRun represents one execution of the audit retention sweep
type SweepRun struct {
	ID               int64                  `db:"id"`
	RunDate          time.Time              `db:"run_date"`
	EntriesDeleted   int64                  `db:"entries_deleted"`
	ExecutionSummary map[string]interface{} `db:"execution_summary"`
	CreatedAt        time.Time              `db:"created_at"`
}
