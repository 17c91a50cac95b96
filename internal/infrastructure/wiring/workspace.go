package wiring

import (
	"log/slog"

	"boardkit/pkg/storage"
)

// Workspace bundles the core infrastructure for a repo root.
type Workspace struct {
	Repo   *storage.FilesystemRepository
	Logger *slog.Logger
}

func NewWorkspace(root string) *Workspace {
	return &Workspace{
		Repo:   storage.NewFilesystemRepository(root),
		Logger: slog.Default(),
	}
}
