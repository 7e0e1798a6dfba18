package frigate

import (
	"fmt"
	"net/url"
	"strings"
)

// Default stream settings matching the camera form's auto-generated URL.
const (
	DefaultStreamPort  = 554
	defaultStreamPath  = "/cam/realmonitor"
	defaultStreamQuery = "channel=1&subtype=0"
)

// StreamParts are the components of an RTSP camera URL.
type StreamParts struct {
	Username string
	Password string
	Host     string
	Port     int
	Path     string
	Query    string
}

// URL assembles the RTSP URL with the username and password percent-encoded,
// so credentials containing '@', ':', or '/' never corrupt the authority
// section of the generated document.
func (p StreamParts) URL() string {
	port := p.Port
	if port <= 0 {
		port = DefaultStreamPort
	}
	path := p.Path
	if path == "" {
		path = defaultStreamPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	query := p.Query
	if query == "" && path == defaultStreamPath {
		query = defaultStreamQuery
	}
	u := url.URL{
		Scheme:   "rtsp",
		Host:     fmt.Sprintf("%s:%d", p.Host, port),
		Path:     path,
		RawQuery: query,
	}
	if p.Username != "" || p.Password != "" {
		u.User = url.UserPassword(p.Username, p.Password)
	}
	return u.String()
}

// BuildStreamURL generates the default camera URL from credentials and a
// host, mirroring the auto-generate behavior of the camera form.
func BuildStreamURL(username, password, host string) string {
	return StreamParts{Username: username, Password: password, Host: host}.URL()
}

// ParseStreamURL decomposes an existing RTSP URL back into its parts so a
// stored camera can be re-edited. It reports false for URLs it cannot parse;
// callers keep the raw URL in that case.
func ParseStreamURL(raw string) (StreamParts, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(strings.ToLower(raw), "rtsp://") {
		return StreamParts{}, false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return StreamParts{}, false
	}
	parts := StreamParts{
		Host:  u.Hostname(),
		Path:  u.Path,
		Query: u.RawQuery,
	}
	if u.User != nil {
		parts.Username = u.User.Username()
		parts.Password, _ = u.User.Password()
	}
	if portStr := u.Port(); portStr != "" {
		var port int
		if _, err := fmt.Sscanf(portStr, "%d", &port); err == nil {
			parts.Port = port
		}
	}
	return parts, true
}
