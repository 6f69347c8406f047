package history

import (
	"git.home.luguber.info/inful/resourcescan/internal/foundation/errors"
)

var (
	// ErrDatabaseOpenFailed indicates the SQLite database could not be opened.
	ErrDatabaseOpenFailed = errors.StoreError("could not open history database").Build()

	// ErrInitializeSchemaFailed indicates the database schema could not be initialized.
	ErrInitializeSchemaFailed = errors.StoreError("failed to initialize history schema").Build()

	// ErrRunAppendFailed indicates recording a run failed.
	ErrRunAppendFailed = errors.StoreError("failed to record scan run").Build()

	// ErrRunQueryFailed indicates listing runs failed.
	ErrRunQueryFailed = errors.StoreError("failed to query scan runs").Build()
)
