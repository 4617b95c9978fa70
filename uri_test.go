package callauth

import (
	"errors"
	"testing"

	apperrors "github.com/louisbranch/callauth/errors"
)

func TestBuildServiceURI(t *testing.T) {
	tests := []struct {
		name       string
		authority  string
		fullMethod string
		want       string
	}{
		{
			name:       "default port omitted",
			authority:  "example.com:443",
			fullMethod: "a.service/method",
			want:       "https://example.com/a.service",
		},
		{
			name:       "non-default port kept",
			authority:  "example.com:123",
			fullMethod: "a.service/method",
			want:       "https://example.com:123/a.service",
		},
		{
			name:       "no port",
			authority:  "example.com",
			fullMethod: "a.service/method",
			want:       "https://example.com/a.service",
		},
		{
			name:       "grpc-go leading slash",
			authority:  "example.com",
			fullMethod: "/pkg.Service/Method",
			want:       "https://example.com/pkg.Service",
		},
		{
			name:       "ipv6 authority",
			authority:  "[::1]:8443",
			fullMethod: "a.service/method",
			want:       "https://[::1]:8443/a.service",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			uri, err := BuildServiceURI(tc.authority, tc.fullMethod)
			if err != nil {
				t.Fatalf("build service URI: %v", err)
			}
			if got := uri.String(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestBuildServiceURIErrors(t *testing.T) {
	tests := []struct {
		name       string
		authority  string
		fullMethod string
		wantCode   apperrors.Code
	}{
		{
			name:       "empty authority",
			authority:  "",
			fullMethod: "a.service/method",
			wantCode:   apperrors.CodeAuthorityMalformed,
		},
		{
			name:       "non-numeric port",
			authority:  "example.com:http",
			fullMethod: "a.service/method",
			wantCode:   apperrors.CodeAuthorityMalformed,
		},
		{
			name:       "missing port after colon",
			authority:  "example.com:",
			fullMethod: "a.service/method",
			wantCode:   apperrors.CodeAuthorityMalformed,
		},
		{
			name:       "method without service",
			authority:  "example.com",
			fullMethod: "method",
			wantCode:   apperrors.CodeMethodMalformed,
		},
		{
			name:       "method without name",
			authority:  "example.com",
			fullMethod: "a.service/",
			wantCode:   apperrors.CodeMethodMalformed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildServiceURI(tc.authority, tc.fullMethod)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, apperrors.New(tc.wantCode, "")) {
				t.Fatalf("expected code %s, got %v", tc.wantCode, err)
			}
		})
	}
}

func TestServiceURIStringKeepsNonDefaultPort(t *testing.T) {
	uri := ServiceURI{Host: "example.com", Port: 8080, Service: "a.service"}
	if got := uri.String(); got != "https://example.com:8080/a.service" {
		t.Fatalf("unexpected URI: %q", got)
	}
}
