package ports

import (
	"context"

	"github.com/cdsmodel/cellbridge/domain/entities"
)

// Host is the spreadsheet application's callback surface.
type Host interface {
	// ModuleName returns the path of the loaded add-in, used as the first
	// operand of every registration.
	ModuleName(ctx context.Context) (string, error)

	// Register makes one function callable from cells. The request's strings
	// are only valid for the duration of the call; implementations copy what
	// they keep.
	Register(ctx context.Context, req entities.RegistrationRequest) error

	// Unregister removes a function by its display name.
	Unregister(ctx context.Context, displayName string) error

	// Alert shows a message to the user.
	Alert(ctx context.Context, message string)
}
