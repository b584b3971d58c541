package nakama

import (
	"context"
	"database/sql"

	"tilerummy/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs and hooks for the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(gameConfigPath(ctx)); err != nil {
		logger.Warn("InitModule: Could not load game config, using defaults: %v", err)
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	logger.Info("TileRummy Go module loaded.")
	return nil
}

// gameConfigPath resolves the rules-table location from the runtime env,
// falling back to the bundled data path.
func gameConfigPath(ctx context.Context) string {
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok && env[envGameConfigPath] != "" {
		return env[envGameConfigPath]
	}
	return defaultGameConfigPath
}
