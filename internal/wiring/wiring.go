// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/knob/internal/adapters/cachefile"
	_ "go.trai.ch/knob/internal/adapters/config"
	_ "go.trai.ch/knob/internal/adapters/logger"
	_ "go.trai.ch/knob/internal/adapters/shell"
	_ "go.trai.ch/knob/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/knob/internal/app"
	_ "go.trai.ch/knob/internal/engine/bridge"
)
