// Package version carries the build-time version string, overridable via
// -ldflags at build time the way the teacher's cmd/root.go expects.
package version

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// FullVersion is assigned to cobra.Command.Version directly. It is built
// at package init from Version, Commit and BuildDate, so those three are
// what -ldflags -X overrides; -X cannot set FullVersion itself, since it
// is not initialised to a constant string.
var FullVersion = Version + " (" + Commit + ", " + BuildDate + ")"
