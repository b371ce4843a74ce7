package solver

import (
	"fmt"
	"runtime"

	"github.com/aretw0/lama/pkg/domain"
)

// Platform is a host OS family the solver can run on.
type Platform string

const (
	Linux   Platform = "linux"
	MacOS   Platform = "darwin"
	Windows Platform = "windows"
)

// Classify maps a GOOS value onto a supported Platform.
func Classify(goos string) (Platform, error) {
	switch p := Platform(goos); p {
	case Linux, MacOS, Windows:
		return p, nil
	}
	return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedPlatform, goos)
}

// Current classifies the host running this process.
func Current() (Platform, error) {
	return Classify(runtime.GOOS)
}

// ExecutableName is the default solver binary name on p.
func (p Platform) ExecutableName() string {
	if p == Windows {
		return "ccx.exe"
	}
	return "ccx"
}

// SearchCommand is the OS facility used to resolve an executable from PATH.
func (p Platform) SearchCommand() string {
	if p == Windows {
		return "where"
	}
	return "which"
}

// WellKnownPaths lists the common installation paths probed on p, in order.
func (p Platform) WellKnownPaths() []string {
	switch p {
	case MacOS:
		return []string{
			"/usr/local/bin/ccx",
			"/opt/homebrew/bin/ccx",
			"/opt/local/bin/ccx",
		}
	case Windows:
		return []string{
			`C:\Program Files\CalculiX\ccx.exe`,
			`C:\CalculiX\ccx.exe`,
			`C:\Program Files (x86)\CalculiX\ccx.exe`,
		}
	case Linux:
		return []string{
			"/usr/local/bin/ccx",
			"/usr/bin/ccx",
		}
	}
	return nil
}

// PlatformInfo describes the host, e.g. "Platform: linux, Architecture: amd64".
func PlatformInfo() (string, error) {
	p, err := Current()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Platform: %s, Architecture: %s", p, runtime.GOARCH), nil
}
