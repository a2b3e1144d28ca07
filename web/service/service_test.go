package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scorebox/scorebox/config"
	"github.com/scorebox/scorebox/database"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.InitDB(dbPath))
	t.Cleanup(func() {
		_ = database.CloseDB()
	})
}

func testSettings() *config.Settings {
	return &config.Settings{
		TokenSecret:   "test-token-secret",
		TokenTTLHours: 1,
		CodeSecret:    "test-code-secret",
	}
}

func countRows(value any, count *int64) error {
	return database.GetDB().Model(value).Count(count).Error
}

// recordingDispatcher captures deliveries for assertions.
type recordingDispatcher struct {
	sent chan string
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{sent: make(chan string, 8)}
}

func (d *recordingDispatcher) Send(to, subject, body string) error {
	d.sent <- body
	return nil
}
