package discussion

import (
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS discussion_sessions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    topic TEXT NOT NULL,
    participants TEXT NOT NULL,
    messages TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`

// SQLiteStore persists sessions in an embedded SQLite database. The driver
// is pure Go, so no cgo is needed.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if necessary) the database at path and
// ensures the schema exists.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening session database")
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating session schema")
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Participant lists are stored as a comma-joined string, matching the
// shape they arrive in from the UI layer.
func joinParticipants(participants []string) string {
	return strings.Join(participants, ",")
}

func splitParticipants(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}

func (s *SQLiteStore) Save(topic string, participants []string, messages string) (Session, error) {
	return s.SaveOrUpdate(0, topic, participants, messages)
}

func (s *SQLiteStore) SaveOrUpdate(id int64, topic string, participants []string, messages string) (Session, error) {
	now := nowFunc()
	if id == 0 {
		res, err := s.db.Exec(
			`INSERT INTO discussion_sessions (topic, participants, messages, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?)`,
			topic, joinParticipants(participants), messages, now, now,
		)
		if err != nil {
			return Session{}, errors.Wrap(err, "inserting session")
		}
		newID, err := res.LastInsertId()
		if err != nil {
			return Session{}, errors.Wrap(err, "reading inserted session id")
		}
		return s.Get(newID)
	}
	res, err := s.db.Exec(
		`UPDATE discussion_sessions SET topic = ?, participants = ?, messages = ?, updated_at = ? WHERE id = ?`,
		topic, joinParticipants(participants), messages, now, id,
	)
	if err != nil {
		return Session{}, errors.Wrap(err, "updating session")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Session{}, ErrSessionNotFound
	}
	return s.Get(id)
}

func (s *SQLiteStore) FindExisting(topic string, participants []string) (Session, error) {
	row := s.db.QueryRow(
		`SELECT id, topic, participants, messages, created_at, updated_at
		 FROM discussion_sessions
		 WHERE topic = ? AND participants = ?
		 ORDER BY updated_at DESC, id DESC LIMIT 1`,
		topic, joinParticipants(participants),
	)
	return scanSession(row)
}

func (s *SQLiteStore) List() ([]Session, error) {
	rows, err := s.db.Query(
		`SELECT id, topic, participants, messages, created_at, updated_at
		 FROM discussion_sessions
		 ORDER BY updated_at DESC, id DESC`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "listing sessions")
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var joined string
		if err := rows.Scan(&sess.ID, &sess.Topic, &joined, &sess.Messages, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scanning session row")
		}
		sess.Participants = splitParticipants(joined)
		sessions = append(sessions, sess)
	}
	return sessions, errors.Wrap(rows.Err(), "iterating session rows")
}

func (s *SQLiteStore) Get(id int64) (Session, error) {
	row := s.db.QueryRow(
		`SELECT id, topic, participants, messages, created_at, updated_at
		 FROM discussion_sessions WHERE id = ?`,
		id,
	)
	return scanSession(row)
}

func (s *SQLiteStore) UpdateMessages(id int64, messages string) error {
	res, err := s.db.Exec(
		`UPDATE discussion_sessions SET messages = ?, updated_at = ? WHERE id = ?`,
		messages, nowFunc(), id,
	)
	if err != nil {
		return errors.Wrap(err, "updating session messages")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *SQLiteStore) Delete(id int64) error {
	res, err := s.db.Exec(`DELETE FROM discussion_sessions WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "deleting session")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func scanSession(row *sql.Row) (Session, error) {
	var sess Session
	var joined string
	err := row.Scan(&sess.ID, &sess.Topic, &joined, &sess.Messages, &sess.CreatedAt, &sess.UpdatedAt)
	if err == sql.ErrNoRows {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, errors.Wrap(err, "scanning session")
	}
	sess.Participants = splitParticipants(joined)
	return sess, nil
}
