package version

import "runtime"

var (
	AppName        = "Groovebot"
	AppDescription = "Single-track Discord voice bot that streams audio from YouTube"

	// BuildDate is set at build time via
	// -ldflags "-X groovebot/internal/version.BuildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
	BuildDate = ""

	GoVersion = runtime.Version()
)
