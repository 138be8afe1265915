package profile

import "time"

// MediaKind is the container type used when re-uploading a file.
type MediaKind string

const (
	MediaDocument MediaKind = "document"
	MediaVideo    MediaKind = "video"
	MediaAudio    MediaKind = "audio"
)

// Valid reports whether the kind is one of the known container types.
// Stored preferences may hold stale or invalid values.
func (k MediaKind) Valid() bool {
	switch k {
	case MediaDocument, MediaVideo, MediaAudio:
		return true
	}
	return false
}

// RenameSource selects which original attribute supplies metadata for
// template-driven naming.
type RenameSource string

const (
	SourceCaption  RenameSource = "caption"
	SourceFilename RenameSource = "filename"
)

// PremiumStatus is a user's premium grant. An active grant always
// carries an expiry; a grant without one is treated as inactive.
type PremiumStatus struct {
	IsPremium bool
	ExpiresAt *time.Time
}

// QuotaRecord is a user's daily rename accounting.
type QuotaRecord struct {
	DailyCount    int
	LastResetDate time.Time // UTC calendar date of the last rollover
	// CustomLimit overrides the global default when non-nil; -1 means
	// unlimited for this user.
	CustomLimit *int
}

// Settings are the per-user strings stamped into file metadata and
// used to build uploads.
type Settings struct {
	Caption        string
	ThumbFileID    string
	Title          string
	Artist         string
	Author         string
	VideoTitle     string
	AudioTitle     string
	Subtitle       string
	MediaType      string
	RenameSource   RenameSource
	FormatTemplate string
}
