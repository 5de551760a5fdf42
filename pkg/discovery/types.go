package discovery

import (
	"errors"
	"time"

	"github.com/mtimer/mtimer-go/pkg/version"
)

// Service constants.
const (
	// ServiceType is the DNS-SD service type.
	ServiceType = "_mtimer._tcp"

	// Domain is the mDNS domain.
	Domain = "local."

	// DefaultPort is used when ServiceInfo.Port is zero.
	DefaultPort = 8080

	// MaxInstanceNameLen is the DNS label limit for instance names.
	MaxInstanceNameLen = 63

	// APIVersion is advertised in the ver TXT record.
	APIVersion = version.Current

	// APIPath is advertised in the path TXT record.
	APIPath = "/api/v1"

	// BrowseTimeout is the default browse duration.
	BrowseTimeout = 3 * time.Second
)

// TXT record keys.
const (
	TXTKeyVersion = "ver"
	TXTKeyPath    = "path"
	TXTKeyTimers  = "n"
)

// Discovery errors.
var (
	ErrNotAdvertising      = errors.New("not advertising")
	ErrInstanceNameTooLong = errors.New("instance name too long")
	ErrMissingRequired     = errors.New("missing required TXT record")
	ErrInvalidTXT          = errors.New("invalid TXT record value")
)

// ServiceInfo describes the service to advertise.
type ServiceInfo struct {
	// Instance is the DNS-SD instance name.
	Instance string

	// Port is the HTTP listen port.
	Port int

	// Timers is the number of timers currently shown.
	Timers int
}

// Service is a browsed instance.
type Service struct {
	Instance  string
	Host      string
	Port      int
	Addresses []string
	Version   string
	Path      string
	Timers    int
}

// Compatible reports whether the browsed instance speaks an API major
// version this build understands.
func (s *Service) Compatible() bool {
	v, err := version.Parse(s.Version)
	if err != nil {
		return false
	}
	return version.MustCurrent().Compatible(v)
}
