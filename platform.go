package buildtool

import (
	"os"
	"path/filepath"
	"runtime"
)

// Platform describes the host-specific names used when shelling out to pip
// and protoc, and where the Galaxy client looks for installed plugins.
type Platform struct {
	// PipPlatform is passed to pip install --platform.
	PipPlatform string

	PythonExe string
	ProtocExe string

	// DistDir is the Galaxy plugin installation directory, or empty if
	// Galaxy is not available on this platform.
	DistDir string
}

// Platforms contains one entry for each GOOS the Galaxy client runs on.
var Platforms = map[string]func() Platform{
	"windows": func() Platform {
		return Platform{
			PipPlatform: "win32",
			PythonExe:   "python.exe",
			ProtocExe:   "protoc.exe",
			DistDir:     filepath.Join(os.Getenv("localappdata"), "GOG.com", "Galaxy", "plugins", "installed"),
		}
	},
	"darwin": func() Platform {
		return Platform{
			// https://github.com/FriendsOfGalaxy/galaxy-integrations-updater/blob/master/scripts.py
			PipPlatform: "macosx_10_13_x86_64",
			PythonExe:   "python",
			ProtocExe:   "protoc",
			DistDir:     os.ExpandEnv("$HOME/Library/Application Support/GOG.com/Galaxy/plugins/installed"),
		}
	},
}

// HostPlatform returns the Platform for runtime.GOOS. Hosts without a Galaxy
// client (e.g. linux) can still pull and generate schema files, so they get
// plain executable names and an empty DistDir.
func HostPlatform() Platform {
	if fn, ok := Platforms[runtime.GOOS]; ok {
		return fn()
	}
	return Platform{
		PipPlatform: "manylinux2014_x86_64",
		PythonExe:   "python",
		ProtocExe:   "protoc",
	}
}
