package main

import (
	"context"
	"os"

	"osmosis-chef/cmd/osmosis-chef/commands"
	"osmosis-chef/lib/telemetry"
	"osmosis-chef/lib/util/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()

	// no telemetry.json5 just means running without exporters
	t, err := telemetry.SetupFromEnv(ctx, "osmosis-chef")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer t.Shutdown(context.Background())

	commands.ExecuteContext(ctx)
}
