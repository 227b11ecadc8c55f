package discussion

import (
	"time"

	"github.com/pkg/errors"
)

// ErrSessionNotFound is returned by Store operations addressing a session
// id that does not exist.
var ErrSessionNotFound = errors.New("session not found")

// timeLayout is the timestamp format persisted with each session.
const timeLayout = "2006-01-02 15:04:05"

// nowFunc returns the current timestamp string. Tests replace it to pin
// ordering.
var nowFunc = func() string {
	return time.Now().UTC().Format(timeLayout)
}

// Session is one persisted discussion: its topic, participant names, and
// the serialized conversation.
type Session struct {
	ID           int64    `json:"id"`
	Topic        string   `json:"topic"`
	Participants []string `json:"participants"`
	Messages     string   `json:"messages"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

// Store persists discussion sessions. Implementations must be safe for
// concurrent use.
type Store interface {
	// Save creates a new session and returns it with its assigned id.
	Save(topic string, participants []string, messages string) (Session, error)

	// SaveOrUpdate creates the session when id is zero, otherwise updates
	// the existing session's content and touches updated_at.
	SaveOrUpdate(id int64, topic string, participants []string, messages string) (Session, error)

	// FindExisting returns the most recently updated session matching the
	// topic and exact participant list, or ErrSessionNotFound.
	FindExisting(topic string, participants []string) (Session, error)

	// List returns every session, most recently updated first.
	List() ([]Session, error)

	// Get returns the session with the given id, or ErrSessionNotFound.
	Get(id int64) (Session, error)

	// UpdateMessages replaces a session's conversation and touches
	// updated_at.
	UpdateMessages(id int64, messages string) error

	// Delete removes a session, or returns ErrSessionNotFound.
	Delete(id int64) error
}

func sameParticipants(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
