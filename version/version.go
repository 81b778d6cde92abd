package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Tag is set at link time: -ldflags "-X todo-board/version.Tag=v1.2.0".
var Tag string

type Info struct {
	Tag      string `json:"tag,omitempty"`
	Revision string `json:"revision,omitempty"`
	BuildAt  string `json:"buildAt,omitempty"`
	Dirty    bool   `json:"dirty,omitempty"`
}

// Read collects version details from the build info.
func Read() Info {
	info := Info{Tag: Tag}
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, setting := range buildInfo.Settings {
		// https://pkg.go.dev/runtime/debug#BuildSetting
		switch setting.Key {
		case "vcs.revision":
			info.Revision = setting.Value
		case "vcs.time":
			info.BuildAt = setting.Value
		case "vcs.modified":
			info.Dirty = setting.Value == "true"
		}
	}
	return info
}

func (i Info) String() string {
	// go run
	if i.Revision == "" {
		if i.Tag != "" {
			return i.Tag
		}
		return "dev"
	}

	rev := i.Revision
	if len(rev) > 7 {
		rev = rev[:7]
	}
	buildAt := i.BuildAt
	if t, err := time.Parse(time.RFC3339, buildAt); err == nil {
		buildAt = t.Format("2006-01-02 15:04:05")
	}

	s := fmt.Sprintf("%s at %s", rev, buildAt)
	if i.Tag != "" {
		s = i.Tag + " " + s
	}
	if i.Dirty {
		s += " dirty"
	}
	return s
}

func String() string {
	return Read().String()
}
