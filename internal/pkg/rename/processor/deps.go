package processor

import (
	"file_rename_bot/internal/pkg/profile"
	"file_rename_bot/internal/pkg/rename/domain"
)

// Gateway is the messaging transport the pipeline drives: status
// updates, the remote-file fetch and the final upload.
type Gateway interface {
	Send(chatID int64, text string) (domain.MessageRef, error)
	Edit(ref domain.MessageRef, text string) error
	Delete(ref domain.MessageRef) error
	Download(fileID, destPath string, progress domain.ProgressFunc) (string, error)
	Upload(params domain.UploadParams) error
}

// Store is the slice of the profile store the pipeline reads.
type Store interface {
	Settings(userID int64) (profile.Settings, error)
}
