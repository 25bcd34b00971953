package drawhost

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/reglet-dev/drawhost/resolve"
)

var _ Services = (*BaseServices)(nil)

// BaseServices is the engine's default behavior. It never searches for
// files and never touches the network: FindFile answers "", remote
// transfers are refused, and properties return their configured values.
type BaseServices struct {
	Company       string
	ProductName   string
	ProgramName   string
	AlternateFont string
	FontMap       string
	LocalRoot     string
	RoamableRoot  string
	MachineKey    string
	UserKey       string
	Flavor        ModelerFlavor

	// Logger receives LoadApplication and PutRemoteFile notices.
	Logger *slog.Logger

	mu     sync.Mutex
	loaded []string
}

// NewBaseServices returns defaults matching an unconfigured engine.
func NewBaseServices() *BaseServices {
	return &BaseServices{
		Company:       "Autodesk",
		ProductName:   "RealDWG",
		ProgramName:   "drawhost",
		AlternateFont: "simplex.shx",
		FontMap:       "acad.fmp",
		MachineKey:    `Software\Autodesk\RealDWG`,
		UserKey:       `Software\Autodesk\RealDWG`,
		Flavor:        ModelerFull,
	}
}

func (b *BaseServices) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

func (b *BaseServices) FindFile(ctx context.Context, fileName string, db Database, hint resolve.Hint) string {
	return ""
}

func (b *BaseServices) GetPassword(dwgName string, options PasswordOptions) string {
	return ""
}

func (b *BaseServices) GetRemoteFile(u *url.URL, ignoreCache bool) string {
	return ""
}

func (b *BaseServices) GetURL(localFile string) *url.URL {
	return nil
}

// IsURL reports whether filePath is an absolute http, https or ftp URL.
func (b *BaseServices) IsURL(filePath string) bool {
	u, err := url.Parse(filePath)
	if err != nil || u.Host == "" {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ftp":
		return true
	default:
		return false
	}
}

// LoadApplication records the module name; nothing is executed.
func (b *BaseServices) LoadApplication(appName string, why LoadReason, printIt, asCmd bool) {
	b.mu.Lock()
	b.loaded = append(b.loaded, appName)
	b.mu.Unlock()

	if printIt {
		b.logger().Info("application load requested", "app", appName, "reason", why.String(), "as_command", asCmd)
	}
}

// Loaded returns the modules passed to LoadApplication, in call order.
func (b *BaseServices) Loaded() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.loaded))
	copy(out, b.loaded)
	return out
}

func (b *BaseServices) PutRemoteFile(u *url.URL, localFile string) {
	b.logger().Warn("remote upload not supported", "url", redact(u), "file", localFile)
}

// redact drops user:password@ so URLs can be logged.
func redact(u *url.URL) string {
	if u == nil {
		return ""
	}
	clean := *u
	clean.User = nil
	return clean.String()
}

func (b *BaseServices) AlternateFontName() string             { return b.AlternateFont }
func (b *BaseServices) CompanyName() string                   { return b.Company }
func (b *BaseServices) FontMapFileName() string               { return b.FontMap }
func (b *BaseServices) LocalRootFolder() string               { return b.LocalRoot }
func (b *BaseServices) MachineRegistryProductRootKey() string { return b.MachineKey }
func (b *BaseServices) ModelerFlavor() ModelerFlavor          { return b.Flavor }
func (b *BaseServices) Product() string                       { return b.ProductName }
func (b *BaseServices) Program() string                       { return b.ProgramName }
func (b *BaseServices) RoamableRootFolder() string            { return b.RoamableRoot }
func (b *BaseServices) UserRegistryProductRootKey() string    { return b.UserKey }
