package version

import "fmt"

// Set with -ldflags "-X github.com/orionhq/dashboard/internal/version.version=..."
var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

type Info struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	GitCommit string `json:"git_commit"`
}

func Get() Info {
	return Info{
		Version:   version,
		BuildDate: buildDate,
		GitCommit: gitCommit,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("%s (built %s, commit %s)", i.Version, i.BuildDate, i.GitCommit)
}
