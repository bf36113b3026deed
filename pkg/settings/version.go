package settings

import "runtime/debug"

const unknown = "unknown"

// Current returns VersionInformation with fields left unset by ldflags
// filled in from the embedded module build info.
func Current() VersionInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return VersionInformation
	}
	return fromBuildInfo(VersionInformation, info)
}

// GoVersion returns the toolchain the binary was built with.
func GoVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return unknown
}

func fromBuildInfo(v VersionInfo, info *debug.BuildInfo) VersionInfo {
	if v.BuildVersion == defaultBuildVersion {
		if mv := info.Main.Version; mv != "" && mv != "(devel)" {
			v.BuildVersion = mv
		}
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if v.Commit == unknown {
				v.Commit = s.Value
			}
		case "vcs.time":
			if v.BuildTime == unknown {
				v.BuildTime = s.Value
			}
		}
	}
	return v
}
