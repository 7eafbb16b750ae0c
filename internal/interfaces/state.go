package interfaces

import "time"

// StateManager persists the lifecycle journal and last-used server options
type StateManager interface {
	RecordEvent(server, operation, outcome, detail string) error
	Events(server string, limit int) ([]ServerEvent, error)
	SaveOptions(opts ServerOptions) error
	LoadOptions(server string) (*ServerOptions, error)
	Close() error
}

// ServerEvent is one journaled lifecycle operation
type ServerEvent struct {
	ID        int64
	Server    string
	Operation string
	Outcome   string
	Detail    string
	CreatedAt time.Time
}
