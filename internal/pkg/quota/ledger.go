package quota

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"file_rename_bot/internal/pkg/profile"
)

// Unlimited is the custom-limit value that disables the daily cap for
// a user.
const Unlimited = -1

// Store is the slice of the profile store the ledger needs.
type Store interface {
	QuotaRecord(userID int64) (profile.QuotaRecord, error)
	SaveQuotaRecord(userID int64, rec profile.QuotaRecord) error
	SetDailyLimit(userID int64, limit int) error
}

// Ledger tracks per-user daily rename counts with lazy UTC-day
// rollover. Store errors always surface; callers deny the rename when
// they do.
type Ledger struct {
	store        Store
	defaultLimit int
	now          func() time.Time
}

func NewLedger(store Store, defaultLimit int) *Ledger {
	return &Ledger{
		store:        store,
		defaultLimit: defaultLimit,
		now:          time.Now,
	}
}

// UseClock replaces the time source. Intended for test setup only.
func (l *Ledger) UseClock(now func() time.Time) {
	l.now = now
}

// Limit returns the user's custom limit if set, else the global default.
func (l *Ledger) Limit(userID int64) (int, error) {
	rec, err := l.store.QuotaRecord(userID)
	if err != nil {
		return 0, fmt.Errorf("read quota record: %w", err)
	}
	if rec.CustomLimit != nil {
		return *rec.CustomLimit, nil
	}
	return l.defaultLimit, nil
}

// CountWithRollover returns the user's current daily count and limit.
// The read may mutate: when the current UTC date has passed the record's
// last reset date, the count is reset to zero and the reset persisted
// before returning.
func (l *Ledger) CountWithRollover(userID int64) (count, limit int, err error) {
	rec, err := l.rolledOver(userID)
	if err != nil {
		return 0, 0, err
	}
	limit = l.defaultLimit
	if rec.CustomLimit != nil {
		limit = *rec.CustomLimit
	}
	return rec.DailyCount, limit, nil
}

// Increment adds one completed rename to the user's daily count,
// rolling the day over first so a stale count is never incremented
// across a date boundary.
func (l *Ledger) Increment(userID int64) error {
	rec, err := l.rolledOver(userID)
	if err != nil {
		return err
	}
	rec.DailyCount++
	if err := l.store.SaveQuotaRecord(userID, rec); err != nil {
		return fmt.Errorf("save quota record: %w", err)
	}
	return nil
}

// SetLimit sets a custom daily limit for the user. Unlimited (-1)
// disables the cap.
func (l *Ledger) SetLimit(userID int64, limit int) error {
	if err := l.store.SetDailyLimit(userID, limit); err != nil {
		return fmt.Errorf("set daily limit: %w", err)
	}
	return nil
}

// Exceeded reports whether the user is at or over their daily limit.
// An unlimited custom limit never exceeds.
func (l *Ledger) Exceeded(userID int64) (exceeded bool, count, limit int, err error) {
	count, limit, err = l.CountWithRollover(userID)
	if err != nil {
		return false, 0, 0, err
	}
	if limit == Unlimited {
		return false, count, limit, nil
	}
	return count >= limit, count, limit, nil
}

func (l *Ledger) rolledOver(userID int64) (profile.QuotaRecord, error) {
	rec, err := l.store.QuotaRecord(userID)
	if err != nil {
		return profile.QuotaRecord{}, fmt.Errorf("read quota record: %w", err)
	}

	today := l.now().UTC().Truncate(24 * time.Hour)
	lastReset := rec.LastResetDate.UTC().Truncate(24 * time.Hour)
	if lastReset.Before(today) {
		rec.DailyCount = 0
		rec.LastResetDate = today
		if err := l.store.SaveQuotaRecord(userID, rec); err != nil {
			return profile.QuotaRecord{}, fmt.Errorf("persist quota rollover: %w", err)
		}
		log.Info().Int64("user_id", userID).Msg("daily rename count reset")
	}
	return rec, nil
}
