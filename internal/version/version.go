// Package version reports build information and checks that a backend
// speaks the API revision this build expects.
package version

import (
	"fmt"
	"runtime"
)

// APIRevision is the backend API contract this build is written against.
// It changes only when a route or payload changes incompatibly.
const APIRevision = 1

// Info contains version information about pulse.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	GoVer   string `json:"go_version"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

// NewInfo creates a new Info from the build variables.
func NewInfo(version, commit, date string) *Info {
	return &Info{
		Version: version,
		Commit:  commit,
		Date:    date,
		GoVer:   runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
}

// String returns a formatted version string.
func (i *Info) String() string {
	return fmt.Sprintf("pulse %s (commit: %s, built: %s)", i.Version, i.Commit, i.Date)
}

// FullString returns a detailed version string.
func (i *Info) FullString() string {
	return fmt.Sprintf(`pulse %s
  Commit:   %s
  Built:    %s
  Go:       %s
  OS/Arch:  %s/%s`, i.Version, i.Commit, i.Date, i.GoVer, i.OS, i.Arch)
}

// Backend is the payload of GET /version.
type Backend struct {
	Version string `json:"version"`
	// API is the contract revision; 0 means the backend does not say.
	API int `json:"api"`
}

// Compatibility is the outcome of comparing a backend with this build.
type Compatibility struct {
	Backend Backend
	OK      bool
	// Advice tells the user what to upgrade. Empty when OK.
	Advice string
}

// Check compares b's contract revision with APIRevision.
func Check(b Backend) Compatibility {
	c := Compatibility{Backend: b}
	switch {
	case b.API == 0:
		c.Advice = "The backend does not report an API revision; some views may fail."
	case b.API < APIRevision:
		c.Advice = fmt.Sprintf("The backend speaks API revision %d but pulse needs %d. Upgrade the backend.", b.API, APIRevision)
	case b.API > APIRevision:
		c.Advice = fmt.Sprintf("The backend speaks API revision %d, newer than %d. Upgrade pulse.", b.API, APIRevision)
	default:
		c.OK = true
	}
	return c
}

// String describes the backend and the verdict on one line.
func (c Compatibility) String() string {
	v := c.Backend.Version
	if v == "" {
		v = "unknown"
	}
	if c.OK {
		return fmt.Sprintf("✓ Backend %s (API revision %d) is compatible.", v, c.Backend.API)
	}
	return fmt.Sprintf("⚠ Backend %s: %s", v, c.Advice)
}
