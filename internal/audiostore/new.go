package audiostore

import (
	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
)

type implStore struct {
	dir    string
	logger logger.Logger
}

// New creates a Store rooted at dir. The directory is created on first Save.
func New(dir string, log logger.Logger) Store {
	return &implStore{
		dir:    dir,
		logger: log,
	}
}
