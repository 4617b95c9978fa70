// Package callauth attaches authentication metadata from a pluggable
// credential provider to outbound RPC calls without blocking the
// caller. An Interceptor wraps each new call in a DeferredCall whose
// start waits for the provider to resolve; failures surface through the
// call's listener as an UNAUTHENTICATED status, never as a fault on the
// caller's goroutine.
package callauth

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/louisbranch/callauth/errors"
)

// defaultPort is the implied port for the https scheme.
const defaultPort = 443

// ServiceURI identifies the service a credential fetch is scoped to.
// A zero Port means the scheme default.
type ServiceURI struct {
	Host    string
	Port    int
	Service string
}

// String renders the URI as https://host[:port]/service. The port is
// omitted when it equals the scheme default.
func (u ServiceURI) String() string {
	host := u.Host
	if u.Port != 0 && u.Port != defaultPort {
		host = net.JoinHostPort(u.Host, strconv.Itoa(u.Port))
	}
	out := url.URL{Scheme: "https", Host: host, Path: "/" + u.Service}
	return out.String()
}

// BuildServiceURI derives the credential scope for a call from the
// channel authority ("host[:port]") and the full method name
// ("pkg.Service/Method", with or without grpc-go's leading slash).
// Only the service portion of the method enters the URI path.
func BuildServiceURI(authority, fullMethod string) (ServiceURI, error) {
	if strings.TrimSpace(authority) == "" {
		return ServiceURI{}, errors.New(errors.CodeAuthorityMalformed, "channel authority is empty")
	}

	host := authority
	port := 0
	if strings.Contains(authority, ":") {
		splitHost, splitPort, err := net.SplitHostPort(authority)
		if err != nil {
			return ServiceURI{}, errors.Wrap(errors.CodeAuthorityMalformed, "split channel authority", err)
		}
		parsed, err := strconv.Atoi(splitPort)
		if err != nil || parsed <= 0 {
			return ServiceURI{}, errors.WithMetadata(errors.CodeAuthorityMalformed, "invalid authority port", map[string]string{"port": splitPort})
		}
		host = splitHost
		if parsed != defaultPort {
			port = parsed
		}
	}

	service, err := serviceName(fullMethod)
	if err != nil {
		return ServiceURI{}, err
	}

	return ServiceURI{Host: host, Port: port, Service: service}, nil
}

// serviceName extracts the fully-qualified service from a full method
// name, following the "service/method" convention.
func serviceName(fullMethod string) (string, error) {
	trimmed := strings.TrimPrefix(fullMethod, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx <= 0 || idx == len(trimmed)-1 {
		return "", errors.WithMetadata(errors.CodeMethodMalformed, "method name is not of the form service/method", map[string]string{"method": fullMethod})
	}
	return trimmed[:idx], nil
}
