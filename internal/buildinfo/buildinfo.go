package buildinfo

import "fmt"

// Set through -ldflags at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("foodgram-pages %s (commit=%s, date=%s)", Version, Commit, Date)
}
