package interfaces

import "context"

// ConsoleManager runs an interactive console session against one server
type ConsoleManager interface {
	Run(ctx context.Context) error
}
