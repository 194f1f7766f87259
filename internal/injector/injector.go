//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/google/wire"

	"github.com/zeusync/evecs/internal/config"
)

// InitializeApp wires an App for cfg drawing on screen. The returned cleanup
// tears the world down and flushes the logger.
func InitializeApp(ctx context.Context, cfg *config.Config, screen tcell.Screen) (*App, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
