package buildinfo

// Injecté à la compilation via -ldflags:
//
//	-X github.com/vodkeeper/vodkeeper/internal/buildinfo.Version=v0.0.0
//	-X github.com/vodkeeper/vodkeeper/internal/buildinfo.Commit=abcdef
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
}

func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}
