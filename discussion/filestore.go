package discussion

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// FileStore keeps sessions in a single JSON file, rewritten on every
// mutation. Suited to a single desktop process.
type FileStore struct {
	mu   sync.Mutex
	path string
}

type fileState struct {
	Sessions map[int64]Session `json:"sessions"`
	NextID   int64             `json:"next_id"`
}

// NewFileStore stores sessions under dir/sessions.json. The directory is
// created on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, "sessions.json")}
}

func (s *FileStore) load() (fileState, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return fileState{Sessions: map[int64]Session{}, NextID: 1}, nil
	}
	if err != nil {
		return fileState{}, errors.Wrap(err, "reading session file")
	}
	var st fileState
	if err := json.Unmarshal(data, &st); err != nil {
		return fileState{}, errors.Wrap(err, "parsing session file")
	}
	if st.Sessions == nil {
		st.Sessions = map[int64]Session{}
	}
	if st.NextID < 1 {
		st.NextID = 1
	}
	return st, nil
}

func (s *FileStore) persist(st fileState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "creating session directory")
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding session file")
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return errors.Wrap(err, "writing session file")
	}
	return nil
}

func (s *FileStore) Save(topic string, participants []string, messages string) (Session, error) {
	return s.SaveOrUpdate(0, topic, participants, messages)
}

func (s *FileStore) SaveOrUpdate(id int64, topic string, participants []string, messages string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return Session{}, err
	}
	now := nowFunc()
	if id == 0 {
		sess := Session{
			ID:           st.NextID,
			Topic:        topic,
			Participants: participants,
			Messages:     messages,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		st.Sessions[sess.ID] = sess
		st.NextID++
		return sess, s.persist(st)
	}
	sess, ok := st.Sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	sess.Topic = topic
	sess.Participants = participants
	sess.Messages = messages
	sess.UpdatedAt = now
	st.Sessions[id] = sess
	return sess, s.persist(st)
}

func (s *FileStore) FindExisting(topic string, participants []string) (Session, error) {
	sessions, err := s.List()
	if err != nil {
		return Session{}, err
	}
	for _, sess := range sessions {
		if sess.Topic == topic && sameParticipants(sess.Participants, participants) {
			return sess, nil
		}
	}
	return Session{}, ErrSessionNotFound
}

func (s *FileStore) List() ([]Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return nil, err
	}
	sessions := lo.Values(st.Sessions)
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].UpdatedAt != sessions[j].UpdatedAt {
			return sessions[i].UpdatedAt > sessions[j].UpdatedAt
		}
		return sessions[i].ID > sessions[j].ID
	})
	return sessions, nil
}

func (s *FileStore) Get(id int64) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return Session{}, err
	}
	sess, ok := st.Sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return sess, nil
}

func (s *FileStore) UpdateMessages(id int64, messages string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return err
	}
	sess, ok := st.Sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	sess.Messages = messages
	sess.UpdatedAt = nowFunc()
	st.Sessions[id] = sess
	return s.persist(st)
}

func (s *FileStore) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := st.Sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.Sessions, id)
	return s.persist(st)
}
