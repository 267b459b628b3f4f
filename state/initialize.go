package state

import (
	"time"

	"github.com/google/uuid"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		BuildID: uuid.NewString(),
		start:   time.Now(),
	}
}

// Version is cache busting version of the build: start time formatted with
// configured layout. Empty without configuration.
func (e *LocalEnv) Version() string {
	if e.Cfg == nil || e.Cfg.Build.VersionFormat == "" {
		return ""
	}
	return e.start.Format(e.Cfg.Build.VersionFormat)
}
