package drip

// release is the semantic version of this source tree.
const release = "v0.1.0-dev"

// GitCommit is set at build time with
// -ldflags "-X github.com/iov-one/drip.GitCommit=<sha>".
var GitCommit = ""

// Version returns the release, followed by the commit when known.
func Version() string {
	if GitCommit == "" {
		return release
	}
	return release + " " + GitCommit
}
