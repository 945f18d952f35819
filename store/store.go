package store

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/qrdrop/qrdrop/models"
	"github.com/qrdrop/qrdrop/utils"
)

// ErrInvalidSession is returned when a write targets an expired or unknown
// session. Distinct from a plain negative lookup so the upload boundary can
// report it separately.
var ErrInvalidSession = errors.New("invalid or expired session")

// Notifier receives fire-and-forget "files changed" signals for a session.
// Implementations must never block; delivery failures are the notifier's
// problem, not the store's.
type Notifier interface {
	Publish(sessionID string)
}

// Store composes the session and file registries and runs the background
// reclaimer. Construct once per process with New, Start it, and Stop it on
// shutdown.
type Store struct {
	Sessions *SessionStore
	Files    *FileStore

	notifier Notifier
	stop     chan struct{}
	done     chan struct{}
}

// New builds a store. notifier may be nil when realtime updates are not
// wanted (tests).
func New(notifier Notifier) *Store {
	return &Store{
		Sessions: NewSessionStore(),
		Files:    NewFileStore(),
		notifier: notifier,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// CreateSession mints a session under the caller-chosen id.
func (s *Store) CreateSession(id string) *models.Session {
	return s.Sessions.Create(id)
}

// StoreFile validates the owning session and inserts the file. Validity is
// checked once, up front; if the session is invalidated between the check and
// the insert the file is stored anyway and purged by the next sweep or reset
// cascade. That bounds staleness to one sweep interval without serializing
// uploads against resets.
func (s *Store) StoreFile(f *models.StoredFile) error {
	if !s.Sessions.IsValid(f.SessionID) {
		return ErrInvalidSession
	}
	s.Files.Put(f)
	if s.notifier != nil {
		s.notifier.Publish(f.SessionID)
	}
	return nil
}

// Reset terminates oldID and mints a replacement session. The ordering is
// the contract: invalidate first so no new upload passes the validity check,
// then purge the old session's files, then create the new session. Returns
// the new session and how many files were purged.
func (s *Store) Reset(oldID string) (*models.Session, int) {
	s.Sessions.Invalidate(oldID)
	purged := s.Files.DeleteBySession(oldID)
	fresh := s.Sessions.Create(uuid.NewString())
	return fresh, purged
}

// Start launches the periodic reclaimer. Expired sessions are removed and
// their files cascaded in the same pass, so an abandoned session's files live
// at most SessionTTL + SweepInterval.
func (s *Store) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop terminates the reclaimer and waits for it to exit.
func (s *Store) Stop() {
	close(s.stop)
	<-s.done
}

// Sweep runs one reclaimer pass: expired sessions out first, then their
// files. Called by the periodic loop and directly by tests.
func (s *Store) Sweep() (sessions, files int) {
	removed := s.Sessions.SweepExpired()
	for _, id := range removed {
		files += s.Files.DeleteBySession(id)
	}
	if len(removed) > 0 && utils.Sugar != nil {
		utils.Sugar.Infof("reclaimed %d expired sessions, %d files", len(removed), files)
	}
	return len(removed), files
}
