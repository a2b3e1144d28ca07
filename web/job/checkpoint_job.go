// Package job contains the scheduled maintenance tasks run by the web
// server's cron scheduler.
package job

import (
	"github.com/scorebox/scorebox/database"
	"github.com/scorebox/scorebox/logger"
)

// CheckpointJob folds the sqlite WAL back into the main database file.
type CheckpointJob struct{}

func NewCheckpointJob() *CheckpointJob {
	return new(CheckpointJob)
}

// Run implements cron.Job.
func (j *CheckpointJob) Run() {
	if err := database.Checkpoint(); err != nil {
		logger.Warning("checkpoint job err:", err)
	}
}
