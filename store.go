package valutatrade

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// File names of the documents kept in the data directory.
const (
	UsersFile      = "users.json"
	PortfoliosFile = "portfolios.json"
	HistoryFile    = "exchange_rates.json"
	SnapshotFile   = "rates.json"
	SessionFile    = "session.json"
)

// Store persists every document of the application as a JSON file in a
// single directory.
//
// Each document is read and written wholesale. Writes go to a temporary file
// in the same directory which is then renamed over the target, so a reader
// never observes a partially written document.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on the
// first write.
func NewStore(dir string) *Store { return &Store{dir: dir} }

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(name string) string { return filepath.Join(s.dir, name) }

// readJSON decodes the document name into v. It returns false if the
// document does not exist.
func (s *Store) readJSON(name string, v any) (bool, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("could not read %q: %w", name, err)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("could not decode %q: %w", name, err)
	}
	return true, nil
}

// writeJSON atomically replaces the document name with v.
func (s *Store) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode %q: %w", name, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("could not create data directory %q: %w", s.dir, err)
	}
	tmp, err := os.CreateTemp(s.dir, "tmp-*.json")
	if err != nil {
		return fmt.Errorf("could not write %q: %w", name, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("could not write %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("could not write %q: %w", name, err)
	}
	if err := os.Rename(tmpPath, s.path(name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("could not replace %q: %w", name, err)
	}
	return nil
}

// History returns every record of the rate history, oldest first.
func (s *Store) History() ([]RateRecord, error) {
	var records []RateRecord
	if _, err := s.readJSON(HistoryFile, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AppendHistory appends records to the rate history, skipping any record
// whose ID is already present, including duplicates within records itself.
// It returns the number of records actually appended.
//
// Appending the same records twice leaves the history unchanged the second time.
func (s *Store) AppendHistory(records []RateRecord) (int, error) {
	existing, err := s.History()
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing)+len(records))
	for _, r := range existing {
		seen[r.ID] = true
	}
	appended := 0
	for _, r := range records {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		existing = append(existing, r)
		appended++
	}
	if appended == 0 {
		return 0, nil
	}
	if err := s.writeJSON(HistoryFile, existing); err != nil {
		return 0, err
	}
	return appended, nil
}

// WriteSnapshot replaces the snapshot with exactly pairs.
func (s *Store) WriteSnapshot(pairs map[RatePair]SnapshotEntry, lastRefresh time.Time) error {
	if pairs == nil {
		pairs = map[RatePair]SnapshotEntry{}
	}
	return s.writeJSON(SnapshotFile, RateSnapshot{Pairs: pairs, LastRefresh: Stamp(lastRefresh)})
}

// ReadSnapshot returns the current snapshot, or nil if none was ever written.
func (s *Store) ReadSnapshot() (*RateSnapshot, error) {
	snap := new(RateSnapshot)
	found, err := s.readJSON(SnapshotFile, snap)
	if err != nil || !found {
		return nil, err
	}
	if snap.Pairs == nil {
		snap.Pairs = map[RatePair]SnapshotEntry{}
	}
	return snap, nil
}

// Users returns all the registered users.
func (s *Store) Users() ([]User, error) {
	var users []User
	if _, err := s.readJSON(UsersFile, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SaveUsers replaces the user list.
func (s *Store) SaveUsers(users []User) error {
	if users == nil {
		users = []User{}
	}
	return s.writeJSON(UsersFile, users)
}

func (s *Store) portfolios() ([]*Portfolio, error) {
	var ps []*Portfolio
	if _, err := s.readJSON(PortfoliosFile, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// Portfolio returns the portfolio of userID, or an empty one if the user has
// none yet.
func (s *Store) Portfolio(userID int) (*Portfolio, error) {
	ps, err := s.portfolios()
	if err != nil {
		return nil, err
	}
	for _, p := range ps {
		if p.UserID == userID {
			return p, nil
		}
	}
	return NewPortfolio(userID), nil
}

// SavePortfolio replaces the stored portfolio of p.UserID with p.
func (s *Store) SavePortfolio(p *Portfolio) error {
	ps, err := s.portfolios()
	if err != nil {
		return err
	}
	replaced := false
	for i, q := range ps {
		if q.UserID == p.UserID {
			ps[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		ps = append(ps, p)
	}
	return s.writeJSON(PortfoliosFile, ps)
}

// ReadSession returns the open session, or nil if there is none.
func (s *Store) ReadSession() (*Session, error) {
	sess := new(Session)
	found, err := s.readJSON(SessionFile, sess)
	if err != nil || !found {
		return nil, err
	}
	return sess, nil
}

// WriteSession replaces the open session.
func (s *Store) WriteSession(sess Session) error {
	return s.writeJSON(SessionFile, sess)
}

// ClearSession removes the open session, if any.
func (s *Store) ClearSession() error {
	err := os.Remove(s.path(SessionFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not remove session: %w", err)
	}
	return nil
}
