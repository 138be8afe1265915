package domain

import (
	"errors"
	"fmt"
	"time"

	"file_rename_bot/internal/pkg/profile"
)

// MessageRef identifies a chat message.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// MediaDescriptor is the media snapshot taken from the source message
// at enqueue time. Width, height, duration and performer are only
// populated for the media kinds that carry them.
type MediaDescriptor struct {
	Kind        profile.MediaKind
	FileName    string
	FileSize    int64
	MimeType    string
	Duration    int
	Width       int
	Height      int
	Title       string
	Performer   string
	ThumbFileID string
}

// RenameTask is one unit of work for the render pipeline. IsPriority is
// computed once at enqueue time and never changes, so a later premium
// change does not reorder an already-queued task.
type RenameTask struct {
	ID             string
	UserID         int64
	Source         MessageRef
	FileID         string
	TargetBaseName string
	RenameSource   profile.RenameSource
	Media          MediaDescriptor
	IsPriority     bool
	EnqueuedAt     time.Time
}

// ProgressFunc receives transfer progress while the gateway moves
// bytes. Total may be zero when the remote size is unknown.
type ProgressFunc func(current, total int64)

// UploadParams describe one outbound file upload.
type UploadParams struct {
	ChatID    int64
	Kind      profile.MediaKind
	FilePath  string
	ThumbPath string
	Caption   string
	Duration  int
	Width     int
	Height    int
	Title     string
	Performer string
}

// FloodWaitError is the gateway's flow-control signal: the transport
// demands a pause of Seconds before further outbound calls.
type FloodWaitError struct {
	Seconds int
}

func (e *FloodWaitError) Error() string {
	return fmt.Sprintf("flood wait for %d seconds", e.Seconds)
}

// AsFloodWait unwraps err into a FloodWaitError if it carries one.
func AsFloodWait(err error) (*FloodWaitError, bool) {
	var fw *FloodWaitError
	if errors.As(err, &fw) {
		return fw, true
	}
	return nil, false
}
