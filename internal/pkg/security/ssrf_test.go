package security_test

import (
	"errors"
	"testing"

	"github.com/ferdiebergado/hrkit/internal/pkg/security"
)

func TestCheckEndpointURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		url          string
		allowPrivate bool
		wantErr      bool
		wantPrivate  bool
	}{
		{
			name: "success - public https",
			url:  "https://hooks.example.com/hr",
		},
		{
			name: "success - public http",
			url:  "http://hooks.example.com/hr",
		},
		{
			name:    "error - ftp scheme",
			url:     "ftp://hooks.example.com/hr",
			wantErr: true,
		},
		{
			name:    "error - no host",
			url:     "https:///hr",
			wantErr: true,
		},
		{
			name:        "error - loopback literal",
			url:         "http://127.0.0.1:8080/hook",
			wantErr:     true,
			wantPrivate: true,
		},
		{
			name:        "error - private literal",
			url:         "http://10.0.0.5/hook",
			wantErr:     true,
			wantPrivate: true,
		},
		{
			name:         "success - loopback allowed for dev",
			url:          "http://127.0.0.1:8080/hook",
			allowPrivate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := security.CheckEndpointURL(tt.url, tt.allowPrivate)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("security.CheckEndpointURL(%q) error = %v", tt.url, err)
				}
				return
			}

			if err == nil {
				t.Fatalf("security.CheckEndpointURL(%q) error = nil, want an error", tt.url)
			}
			if tt.wantPrivate && !errors.Is(err, security.ErrPrivateAddress) {
				t.Errorf("error = %v, want: %v", err, security.ErrPrivateAddress)
			}
		})
	}
}

func TestSafeDialControl(t *testing.T) {
	t.Parallel()

	control := security.SafeDialControl(false)

	if err := control("tcp", "93.184.216.34:443", nil); err != nil {
		t.Errorf(`control("tcp", "93.184.216.34:443") error = %v`, err)
	}

	for _, address := range []string{"127.0.0.1:80", "10.1.2.3:443", "169.254.0.1:80", "0.0.0.0:80"} {
		if err := control("tcp", address, nil); !errors.Is(err, security.ErrPrivateAddress) {
			t.Errorf("control(%q) error = %v, want: %v", address, err, security.ErrPrivateAddress)
		}
	}

	allowAll := security.SafeDialControl(true)
	if err := allowAll("tcp", "127.0.0.1:80", nil); err != nil {
		t.Errorf(`allowAll("tcp", "127.0.0.1:80") error = %v`, err)
	}
}
