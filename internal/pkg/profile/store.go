package profile

import (
	"sync"
	"time"
)

// Store is the per-user profile storage consumed by the bot, the quota
// ledger and the render pipeline. Missing users read as zero values.
type Store interface {
	Settings(userID int64) (Settings, error)
	SetCaption(userID int64, caption string) error
	SetThumbnail(userID int64, fileID string) error
	SetMediaPreference(userID int64, mediaType string) error
	SetRenameSource(userID int64, source RenameSource) error
	SetFormatTemplate(userID int64, template string) error

	Premium(userID int64) (PremiumStatus, error)
	SetPremium(userID int64, status PremiumStatus) error

	QuotaRecord(userID int64) (QuotaRecord, error)
	SaveQuotaRecord(userID int64, rec QuotaRecord) error
	SetDailyLimit(userID int64, limit int) error
}

// CheckPremium reports whether the user currently holds an active
// premium grant. The read may mutate: an expired grant, or a grant
// stored without an expiry, is downgraded in the store before false is
// returned.
func CheckPremium(s Store, userID int64, now time.Time) (bool, error) {
	status, err := s.Premium(userID)
	if err != nil {
		return false, err
	}
	if !status.IsPremium {
		return false, nil
	}
	if status.ExpiresAt == nil || now.After(*status.ExpiresAt) {
		if err := s.SetPremium(userID, PremiumStatus{}); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// MemoryStore keeps profiles in process memory. Used in tests and as a
// fallback when no database is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	settings map[int64]Settings
	premium  map[int64]PremiumStatus
	quota    map[int64]QuotaRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		settings: make(map[int64]Settings),
		premium:  make(map[int64]PremiumStatus),
		quota:    make(map[int64]QuotaRecord),
	}
}

func (m *MemoryStore) Settings(userID int64) (Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings[userID], nil
}

func (m *MemoryStore) update(userID int64, fn func(*Settings)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.settings[userID]
	fn(&s)
	m.settings[userID] = s
	return nil
}

func (m *MemoryStore) SetCaption(userID int64, caption string) error {
	return m.update(userID, func(s *Settings) { s.Caption = caption })
}

func (m *MemoryStore) SetThumbnail(userID int64, fileID string) error {
	return m.update(userID, func(s *Settings) { s.ThumbFileID = fileID })
}

func (m *MemoryStore) SetMediaPreference(userID int64, mediaType string) error {
	return m.update(userID, func(s *Settings) { s.MediaType = mediaType })
}

func (m *MemoryStore) SetRenameSource(userID int64, source RenameSource) error {
	return m.update(userID, func(s *Settings) { s.RenameSource = source })
}

func (m *MemoryStore) SetFormatTemplate(userID int64, template string) error {
	return m.update(userID, func(s *Settings) { s.FormatTemplate = template })
}

func (m *MemoryStore) Premium(userID int64) (PremiumStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.premium[userID], nil
}

func (m *MemoryStore) SetPremium(userID int64, status PremiumStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.premium[userID] = status
	return nil
}

func (m *MemoryStore) QuotaRecord(userID int64) (QuotaRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.quota[userID], nil
}

func (m *MemoryStore) SaveQuotaRecord(userID int64, rec QuotaRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quota[userID] = rec
	return nil
}

func (m *MemoryStore) SetDailyLimit(userID int64, limit int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.quota[userID]
	rec.CustomLimit = &limit
	m.quota[userID] = rec
	return nil
}
