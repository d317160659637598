package sessions

import (
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/scriptbridge/scriptbridge/core/domain/interfaces"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/logging"
)

// Manager holds the loaded sessions. Reloading swaps the whole set at once,
// so a query sees either the old or the new snapshot, never a mix.
type Manager struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	defaultID string
	log       interfaces.Logger
}

var _ interfaces.SessionManager = (*Manager)(nil)

// NewManager creates an empty manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		log:      logging.New("sessions"),
	}
}

// Load builds every session of file and replaces the current set. On error
// the current set is kept.
func (m *Manager) Load(file *File) error {
	ids := make([]string, 0, len(file.Sessions))
	for id := range file.Sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	built := make([]*Session, len(ids))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, id := range ids {
		g.Go(func() error {
			s, err := NewSession(id, file.Sessions[id])
			if err != nil {
				return err
			}
			built[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sessions := make(map[string]*Session, len(built))
	for _, s := range built {
		sessions[s.ID()] = s
	}
	defaultID := file.Default
	if defaultID == "" && len(ids) > 0 {
		defaultID = ids[0]
	}

	m.mu.Lock()
	m.sessions = sessions
	m.defaultID = defaultID
	m.mu.Unlock()

	m.log.Debugf("Loaded %d session(s), default %s", len(sessions), defaultID)
	return nil
}

// Reload reads path and loads it
func (m *Manager) Reload(path string) error {
	file, err := ReadFile(path)
	if err != nil {
		return err
	}
	return m.Load(file)
}

// Get returns a session by ID
func (m *Manager) Get(id string) (interfaces.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return s, true
}

// Default returns the session named as default in the snapshot, or the
// first session by ID
func (m *Manager) Default() (interfaces.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[m.defaultID]
	if !ok {
		return nil, false
	}
	return s, true
}

// IDs returns the sorted session IDs
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Count returns the number of sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
