package nakama

import (
	"context"
	"testing"

	"github.com/heroiclabs/nakama-common/runtime"
)

func TestGameConfigPathDefault(t *testing.T) {
	if got := gameConfigPath(context.Background()); got != defaultGameConfigPath {
		t.Fatalf("path = %q, want %q", got, defaultGameConfigPath)
	}
}

func TestGameConfigPathFromEnv(t *testing.T) {
	env := map[string]string{envGameConfigPath: "/etc/tilerummy/rules.json"}
	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_ENV, env)

	if got := gameConfigPath(ctx); got != "/etc/tilerummy/rules.json" {
		t.Fatalf("path = %q, want the env override", got)
	}
}
