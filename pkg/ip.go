package pkg

import (
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
)

var (
	localDockerIpRegex = regexp.MustCompile(`^172\.\d{1,3}\.0\.1:\d{1,5}`)
)

func IPIsLocal(ipAddr string) bool {
	// used in local development ?
	if strings.HasPrefix(ipAddr, "127.0.0.1:") {
		return true
	}

	// user within docker container ?
	return localDockerIpRegex.MatchString(ipAddr)
}

// ReadUserIP returns the client IP of the request's connection.
// With trustProxyHeaders set, X-Real-Ip and then the right-most X-Forwarded-For entry
// (the one appended by the proxy in front of the service) take precedence.
func ReadUserIP(r *http.Request, trustProxyHeaders bool) (string, error) {
	var ipAddr string
	if trustProxyHeaders {
		ipAddr = strings.TrimSpace(r.Header.Get("X-Real-Ip"))
		if ipAddr == "" {
			ipAddr = lastForwardedFor(r.Header.Values("X-Forwarded-For"))
		}
	}
	if ipAddr == "" {
		ipAddr = r.RemoteAddr
	}

	if IPIsLocal(ipAddr) {
		return "localhost", nil
	}

	if host, _, err := net.SplitHostPort(ipAddr); err == nil {
		ipAddr = host
	}

	if ip := net.ParseIP(ipAddr); ip == nil {
		return "", fmt.Errorf("ip addr %s is invalid", ipAddr)
	}

	return ipAddr, nil
}

func lastForwardedFor(values []string) string {
	for i := len(values) - 1; i >= 0; i-- {
		entries := strings.Split(values[i], ",")
		for j := len(entries) - 1; j >= 0; j-- {
			if entry := strings.TrimSpace(entries[j]); entry != "" {
				return entry
			}
		}
	}
	return ""
}
