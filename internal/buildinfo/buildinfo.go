package buildinfo

import "runtime"

// Version, Commit and Date are set at build time via -ldflags, e.g.
//
//	-X transitboard/internal/buildinfo.Version=v1.2.0
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns a compact build identifier for the window title and logs.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// Long describes the build for the version command.
func Long() string {
	return "transitboard " + Short() + " (commit " + Commit + ", built " + Date + ", " + runtime.Version() + ")"
}

// UserAgent identifies the board to the feed APIs. api.weather.gov rejects
// requests without one.
func UserAgent() string {
	return "transitboard/" + Short()
}
