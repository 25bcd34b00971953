// Package drawhost adapts the host services a drawing engine calls back into.
//
// The engine asks its host for files it cannot locate on its own (fonts,
// shape files, hatch patterns, external references, application modules)
// and for host configuration such as registry root keys. An Adapter
// answers those calls: for every capability the operator decides whether
// the engine's default behavior runs or the adapter substitutes its own,
// and every call can be observed as it happens.
package drawhost

import (
	"context"
	"net/url"

	"github.com/reglet-dev/drawhost/resolve"
)

// Database identifies the drawing a request is made for. The adapter never
// inspects it and passes it to the base services unchanged.
type Database any

// PasswordOptions describes how a password for an encrypted drawing is asked for.
type PasswordOptions uint8

// PasswordDefault asks once.
const PasswordDefault PasswordOptions = 0

const (
	// PasswordRetry means an earlier password was rejected.
	PasswordRetry PasswordOptions = 1 << iota
	// PasswordFixed means the drawing must open with a password already known.
	PasswordFixed
)

// LoadReason tells why an application module is loaded.
type LoadReason uint8

const (
	LoadOnRequest LoadReason = iota
	LoadOnProxyDetection
	LoadOnCommandInvocation
	LoadOnStartup
)

var loadReasonNames = map[LoadReason]string{
	LoadOnRequest:           "on-request",
	LoadOnProxyDetection:    "on-proxy-detection",
	LoadOnCommandInvocation: "on-command",
	LoadOnStartup:           "on-startup",
}

func (r LoadReason) String() string {
	if s, ok := loadReasonNames[r]; ok {
		return s
	}
	return "unknown"
}

// ModelerFlavor is the solid-modeler variant the host supports.
type ModelerFlavor uint8

const (
	ModelerFull ModelerFlavor = iota
	ModelerReadOnly
	ModelerNone
)

func (f ModelerFlavor) String() string {
	switch f {
	case ModelerFull:
		return "full"
	case ModelerReadOnly:
		return "read-only"
	case ModelerNone:
		return "none"
	default:
		return "unknown"
	}
}

// Services is the host contract: one method per capability the engine may
// call. Implementations must be safe for the engine's calling pattern.
type Services interface {
	// FindFile returns the path of fileName, or "" when it cannot be found.
	FindFile(ctx context.Context, fileName string, db Database, hint resolve.Hint) string
	GetPassword(dwgName string, options PasswordOptions) string
	// GetRemoteFile returns the local copy of a remote resource.
	GetRemoteFile(u *url.URL, ignoreCache bool) string
	// GetURL maps a local copy back to the URL it was fetched from.
	GetURL(localFile string) *url.URL
	IsURL(filePath string) bool
	LoadApplication(appName string, why LoadReason, printIt, asCmd bool)
	PutRemoteFile(u *url.URL, localFile string)

	AlternateFontName() string
	CompanyName() string
	FontMapFileName() string
	LocalRootFolder() string
	MachineRegistryProductRootKey() string
	ModelerFlavor() ModelerFlavor
	Product() string
	Program() string
	RoamableRootFolder() string
	UserRegistryProductRootKey() string
}
