package postgres_storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"file_rename_bot/internal/pkg/profile"
)

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

// EnsureSchema creates the users table if it does not exist yet.
func (p *PostgresStorage) EnsureSchema() error {
	_, err := p.db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			user_id          BIGINT PRIMARY KEY,
			caption          TEXT NOT NULL DEFAULT '',
			thumb_file_id    TEXT NOT NULL DEFAULT '',
			title            TEXT NOT NULL DEFAULT '',
			artist           TEXT NOT NULL DEFAULT '',
			author           TEXT NOT NULL DEFAULT '',
			video_title      TEXT NOT NULL DEFAULT '',
			audio_title      TEXT NOT NULL DEFAULT '',
			subtitle         TEXT NOT NULL DEFAULT '',
			media_type       TEXT NOT NULL DEFAULT '',
			rename_source    TEXT NOT NULL DEFAULT 'filename',
			format_template  TEXT NOT NULL DEFAULT '',
			is_premium       BOOLEAN NOT NULL DEFAULT FALSE,
			premium_expiry   TIMESTAMPTZ,
			daily_count      INTEGER NOT NULL DEFAULT 0,
			last_reset_date  DATE NOT NULL DEFAULT CURRENT_DATE,
			daily_limit      INTEGER
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure users schema: %w", err)
	}
	return nil
}

func (p *PostgresStorage) Settings(userID int64) (profile.Settings, error) {
	row := p.db.QueryRow(`
		SELECT caption, thumb_file_id, title, artist, author,
		       video_title, audio_title, subtitle, media_type,
		       rename_source, format_template
		FROM users
		WHERE user_id=$1
	`, userID)

	var s profile.Settings
	var source string
	err := row.Scan(&s.Caption, &s.ThumbFileID, &s.Title, &s.Artist, &s.Author,
		&s.VideoTitle, &s.AudioTitle, &s.Subtitle, &s.MediaType,
		&source, &s.FormatTemplate)
	if err == sql.ErrNoRows {
		return profile.Settings{RenameSource: profile.SourceFilename}, nil
	}
	if err != nil {
		return profile.Settings{}, err
	}
	s.RenameSource = profile.RenameSource(source)
	return s, nil
}

func (p *PostgresStorage) setColumn(userID int64, column string, value any) error {
	query := fmt.Sprintf(`
		INSERT INTO users (user_id, %s) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET %s=$2
	`, column, column)
	_, err := p.db.Exec(query, userID, value)
	return err
}

func (p *PostgresStorage) SetCaption(userID int64, caption string) error {
	return p.setColumn(userID, "caption", caption)
}

func (p *PostgresStorage) SetThumbnail(userID int64, fileID string) error {
	return p.setColumn(userID, "thumb_file_id", fileID)
}

func (p *PostgresStorage) SetMediaPreference(userID int64, mediaType string) error {
	return p.setColumn(userID, "media_type", mediaType)
}

func (p *PostgresStorage) SetRenameSource(userID int64, source profile.RenameSource) error {
	return p.setColumn(userID, "rename_source", string(source))
}

func (p *PostgresStorage) SetFormatTemplate(userID int64, template string) error {
	return p.setColumn(userID, "format_template", template)
}

func (p *PostgresStorage) Premium(userID int64) (profile.PremiumStatus, error) {
	row := p.db.QueryRow(`
		SELECT is_premium, premium_expiry FROM users WHERE user_id=$1
	`, userID)

	var status profile.PremiumStatus
	var expiry sql.NullTime
	err := row.Scan(&status.IsPremium, &expiry)
	if err == sql.ErrNoRows {
		return profile.PremiumStatus{}, nil
	}
	if err != nil {
		return profile.PremiumStatus{}, err
	}
	if expiry.Valid {
		t := expiry.Time
		status.ExpiresAt = &t
	}
	return status, nil
}

func (p *PostgresStorage) SetPremium(userID int64, status profile.PremiumStatus) error {
	var expiry sql.NullTime
	if status.ExpiresAt != nil {
		expiry = sql.NullTime{Time: *status.ExpiresAt, Valid: true}
	}
	_, err := p.db.Exec(`
		INSERT INTO users (user_id, is_premium, premium_expiry)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET is_premium=$2, premium_expiry=$3
	`, userID, status.IsPremium, expiry)
	return err
}

func (p *PostgresStorage) QuotaRecord(userID int64) (profile.QuotaRecord, error) {
	row := p.db.QueryRow(`
		SELECT daily_count, last_reset_date, daily_limit
		FROM users
		WHERE user_id=$1
	`, userID)

	var rec profile.QuotaRecord
	var lastReset time.Time
	var limit sql.NullInt64
	err := row.Scan(&rec.DailyCount, &lastReset, &limit)
	if err == sql.ErrNoRows {
		return profile.QuotaRecord{LastResetDate: time.Now().UTC()}, nil
	}
	if err != nil {
		return profile.QuotaRecord{}, err
	}
	rec.LastResetDate = lastReset
	if limit.Valid {
		l := int(limit.Int64)
		rec.CustomLimit = &l
	}
	return rec, nil
}

func (p *PostgresStorage) SaveQuotaRecord(userID int64, rec profile.QuotaRecord) error {
	var limit sql.NullInt64
	if rec.CustomLimit != nil {
		limit = sql.NullInt64{Int64: int64(*rec.CustomLimit), Valid: true}
	}
	_, err := p.db.Exec(`
		INSERT INTO users (user_id, daily_count, last_reset_date, daily_limit)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET daily_count=$2, last_reset_date=$3, daily_limit=$4
	`, userID, rec.DailyCount, rec.LastResetDate, limit)
	return err
}

func (p *PostgresStorage) SetDailyLimit(userID int64, limit int) error {
	_, err := p.db.Exec(`
		INSERT INTO users (user_id, daily_limit) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET daily_limit=$2
	`, userID, limit)
	return err
}
