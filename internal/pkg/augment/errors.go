package augment

import "errors"

// Error kinds. Callers match them with errors.Is; context is attached with errors.Wrapf
// from github.com/pkg/errors.
var (
	ErrInvalidConfig  = errors.New("invalid augmentation config")
	ErrInvalidImage   = errors.New("invalid image")
	ErrUnreadableFile = errors.New("unreadable file")
	ErrWriteError     = errors.New("write error")
)
