package security_test

import (
	"strings"
	"testing"

	"github.com/ferdiebergado/hrkit/internal/pkg/security"
)

func TestSignPayload(t *testing.T) {
	t.Parallel()

	body := []byte(`{"id":"1","kind":"employees.created"}`)
	sig := security.SignPayload(body, "topsecret")

	if !strings.HasPrefix(sig, "sha256=") {
		t.Fatalf("security.SignPayload() = %q, want a sha256= prefix", sig)
	}
	if len(sig) != len("sha256=")+64 {
		t.Errorf("len(sig) = %d, want: %d", len(sig), len("sha256=")+64)
	}

	if again := security.SignPayload(body, "topsecret"); again != sig {
		t.Errorf("security.SignPayload() = %q on second call, want: %q", again, sig)
	}
}

func TestVerifySignature(t *testing.T) {
	t.Parallel()

	body := []byte(`{"id":"1"}`)
	sig := security.SignPayload(body, "topsecret")

	tests := []struct {
		name   string
		body   []byte
		secret string
		header string
		want   bool
	}{
		{
			name:   "success - valid signature",
			body:   body,
			secret: "topsecret",
			header: sig,
			want:   true,
		},
		{
			name:   "fail - wrong secret",
			body:   body,
			secret: "othersecret",
			header: sig,
			want:   false,
		},
		{
			name:   "fail - tampered body",
			body:   []byte(`{"id":"2"}`),
			secret: "topsecret",
			header: sig,
			want:   false,
		},
		{
			name:   "fail - missing prefix",
			body:   body,
			secret: "topsecret",
			header: strings.TrimPrefix(sig, "sha256="),
			want:   false,
		},
		{
			name:   "fail - not hex",
			body:   body,
			secret: "topsecret",
			header: "sha256=zzzz",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := security.VerifySignature(tt.body, tt.secret, tt.header); got != tt.want {
				t.Errorf("security.VerifySignature() = %v, want: %v", got, tt.want)
			}
		})
	}
}
