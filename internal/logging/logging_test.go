package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

type failingHandler struct{}

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }
func (h failingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h failingHandler) WithGroup(string) slog.Handler { return h }

func TestMultiHandler_FansOut(t *testing.T) {
	var info, errOnly bytes.Buffer
	m := NewMultiHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errOnly, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	log := slog.New(m).With("request_id", "r1")

	log.Info("hello")
	log.Error("boom")

	assert.Contains(t, info.String(), `"msg":"hello"`)
	assert.Contains(t, info.String(), `"msg":"boom"`)
	assert.NotContains(t, errOnly.String(), "hello")
	assert.Contains(t, errOnly.String(), `"request_id":"r1"`)
}

func TestMultiHandler_KeepsGoingAfterFailure(t *testing.T) {
	var out bytes.Buffer
	m := NewMultiHandler(failingHandler{}, slog.NewJSONHandler(&out, nil))

	err := m.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "still logged", 0))
	assert.ErrorContains(t, err, "sink down")
	assert.Contains(t, out.String(), "still logged")
}

func TestPGHandler_PromotesAttributes(t *testing.T) {
	db, mock := newMockDB(t)
	h := newPGHandler(db, time.Hour)

	log := slog.New(h).With("request_id", "req-9")
	log.Info("ignored")
	log.Error("request failed",
		"method", "POST",
		"path", "/api/admin/vehicles",
		"discord_id", "111",
		"error", "connection refused",
		"attempt", 2,
	)

	h.sink.mu.Lock()
	require.Len(t, h.sink.buffer, 1)
	entry := h.sink.buffer[0]
	h.sink.mu.Unlock()

	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "request failed", entry.Message)
	assert.Equal(t, "req-9", entry.RequestID)
	assert.Equal(t, "POST", entry.Method)
	assert.Equal(t, "/api/admin/vehicles", entry.Path)
	require.NotNil(t, entry.DiscordID)
	assert.Equal(t, "111", *entry.DiscordID)
	assert.Equal(t, "connection refused", entry.Error)

	var extra map[string]any
	require.NoError(t, json.Unmarshal(entry.Extra, &extra))
	assert.EqualValues(t, 2, extra["attempt"])

	mock.ExpectExec(`INSERT INTO "system_logs"`).WillReturnResult(sqlmock.NewResult(0, 1))
	h.Stop()
	h.Stop()
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGHandler_StopWithEmptyBuffer(t *testing.T) {
	db, mock := newMockDB(t)
	h := newPGHandler(db, time.Hour)

	h.Stop()
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteExpiredLogs(t *testing.T) {
	db, mock := newMockDB(t)
	cutoff := time.Now().Add(-30 * 24 * time.Hour)

	mock.ExpectExec(`DELETE FROM "system_logs" WHERE timestamp < \$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	assert.Equal(t, int64(3), deleteExpiredLogs(db, cutoff))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteExpiredLogs_Error(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`DELETE FROM "system_logs"`).WillReturnError(errors.New("db down"))

	assert.Equal(t, int64(0), deleteExpiredLogs(db, time.Now()))
}
