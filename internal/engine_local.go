package internal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const memoryDB = ":memory:"

const localSchema = `
CREATE TABLE IF NOT EXISTS messages (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	channel TEXT    NOT NULL,
	time    INTEGER NOT NULL,
	who     TEXT    NOT NULL,
	message TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_channel_time ON messages(channel, time);
`

// LocalEngine is a loopback engine: what you say is stored and echoed back,
// and joining a channel replays its stored history. There are never peers.
type LocalEngine struct {
	emitter
	nymHolder

	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	replayed map[string]bool
}

// OpenLocalEngine opens or creates the history database at path. An empty
// path keeps history in memory for the lifetime of the process.
func OpenLocalEngine(path, nym string, logger *slog.Logger) (*LocalEngine, error) {
	if path == "" {
		path = memoryDB
	}
	if path != memoryDB {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// A second connection to :memory: would see an empty database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.Exec(localSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	e := &LocalEngine{
		db:       db,
		logger:   logger,
		now:      time.Now,
		replayed: make(map[string]bool),
	}
	e.SetNym(nym)
	return e, nil
}

func (e *LocalEngine) Start(ctx context.Context) error {
	return nil
}

// Join selects channel. Stored history is replayed the first time a channel
// is joined; the client keeps rows of parted channels.
func (e *LocalEngine) Join(channel string) error {
	e.emit(joinMsg{channel: channel})

	e.mu.Lock()
	replayed := e.replayed[channel]
	e.replayed[channel] = true
	e.mu.Unlock()
	if replayed {
		return nil
	}

	rows, err := e.history(channel)
	if err != nil {
		return fmt.Errorf("load history for %s: %w", channel, err)
	}
	for _, row := range rows {
		e.emit(sayMsg{channel: channel, row: row})
	}
	return nil
}

func (e *LocalEngine) Part(channel string) error {
	e.emit(partMsg{channel: channel})
	return nil
}

func (e *LocalEngine) Say(channel, text string) error {
	row := ChatRow{
		Time:    e.now().UnixMilli(),
		Who:     e.Nym(),
		Message: text,
	}

	_, err := e.db.Exec(
		"INSERT INTO messages (channel, time, who, message) VALUES (?, ?, ?, ?)",
		channel, row.Time, row.Who, row.Message,
	)
	if err != nil {
		return fmt.Errorf("store message: %w", err)
	}

	e.logger.Debug("Stored message", "channel", channel, "who", row.Who)
	e.emit(sayMsg{channel: channel, row: row})
	return nil
}

func (e *LocalEngine) Peers(channel string) []string {
	return nil
}

func (e *LocalEngine) Close() error {
	return e.db.Close()
}

func (e *LocalEngine) history(channel string) ([]ChatRow, error) {
	rows, err := e.db.Query(
		"SELECT time, who, message FROM messages WHERE channel = ? ORDER BY time, id",
		channel,
	)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var history []ChatRow
	for rows.Next() {
		var row ChatRow
		if err := rows.Scan(&row.Time, &row.Who, &row.Message); err != nil {
			return nil, err
		}
		history = append(history, row)
	}
	return history, rows.Err()
}
