package client

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shamank/odoo-sdk-go/pkg/xmlrpc"
)

// Supported server major versions. Anything else only triggers a warning.
const (
	MinTestedMajor = 14
	MaxTestedMajor = 18
)

// Session is the authenticated handle to the remote server. It is owned by a
// ConnectionManager and becomes unusable once the manager resets.
type Session struct {
	// UID is the remote user id returned by authenticate.
	UID int64
	// Version describes the server as reported by version().
	Version ServerVersion
	// CreatedAt is when authentication succeeded.
	CreatedAt time.Time

	object xmlrpc.Endpoint
	// refs and stale are guarded by the owning manager's mutex.
	refs  int
	stale bool
}

func (s *Session) close() {
	if s.object == nil {
		return
	}
	if err := s.object.Close(); err != nil {
		zap.L().Debug("close object endpoint", zap.Error(err))
	}
	s.object = nil
}

// ServerVersion is the parsed result of the common version() call.
type ServerVersion struct {
	Raw      string
	Major    int
	Minor    int
	Serie    string
	Protocol int
}

func (v ServerVersion) String() string {
	if v.Raw != "" {
		return v.Raw
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Known reports whether Major/Minor were parsed.
func (v ServerVersion) Known() bool { return v.Major > 0 }

// Compatible returns "" when the version is inside the tested range, or a
// description of why it looks unexpected.
func (v ServerVersion) Compatible() string {
	if !v.Known() {
		return "unrecognised server version " + strconv.Quote(v.Raw)
	}
	if v.Major < MinTestedMajor || v.Major > MaxTestedMajor {
		return fmt.Sprintf("server %d.%d is outside the tested range %d.0-%d.x", v.Major, v.Minor, MinTestedMajor, MaxTestedMajor)
	}
	return ""
}

// ParseVersion reads the map returned by version(). It tolerates missing or
// oddly typed keys; unknown parts stay zero.
func ParseVersion(raw any) ServerVersion {
	var v ServerVersion
	m, ok := raw.(map[string]any)
	if !ok {
		if s, ok := raw.(string); ok {
			v.Raw = s
			v.Major, v.Minor = parseVersionString(s)
		}
		return v
	}

	v.Raw, _ = m["server_version"].(string)
	v.Serie, _ = m["server_serie"].(string)
	v.Protocol = toInt(m["protocol_version"])

	if info, ok := m["server_version_info"].([]any); ok && len(info) >= 2 {
		v.Major = toInt(info[0])
		v.Minor = toInt(info[1])
	}
	if !v.Known() {
		v.Major, v.Minor = parseVersionString(v.Raw)
	}
	return v
}

// parseVersionString handles "17.0", "17.0+e", "saas~17.2".
func parseVersionString(s string) (int, int) {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "~"); i >= 0 {
		s = s[i+1:]
	}
	parts := strings.SplitN(s, ".", 3)
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0
	}
	minor := 0
	if len(parts) > 1 {
		digits := strings.TrimRightFunc(parts[1], func(r rune) bool { return r < '0' || r > '9' })
		minor, _ = strconv.Atoi(digits)
	}
	return major, minor
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	}
	return 0
}

// sessionHandle interprets the authenticate result: a positive uid or a
// falsy value (false, 0, nil).
func sessionHandle(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, n > 0
	case int:
		return int64(n), n > 0
	case float64:
		return int64(n), n > 0
	}
	return 0, false
}
