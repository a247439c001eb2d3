package apierror

import (
	"errors"
	"fmt"
	"testing"
)

type rateLimitedErr struct{}

func (rateLimitedErr) Error() string          { return "slow down" }
func (rateLimitedErr) IsRateLimitError() bool { return true }

func TestInspector_Classification(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name        string
		err         error
		isAuth      bool
		isNotFound  bool
		isRateLimit bool
		isNetwork   bool
	}{
		{
			name: "nil error",
			err:  nil,
		},
		{
			name:   "401 status",
			err:    errors.New("GET /repos/a/b/compare/x...y: 401 Unauthorized"),
			isAuth: true,
		},
		{
			name:   "bad credentials message",
			err:    errors.New("Bad credentials"),
			isAuth: true,
		},
		{
			name:       "404 status",
			err:        errors.New("received status 404"),
			isNotFound: true,
		},
		{
			name:       "graphql repository resolution",
			err:        errors.New("Could not resolve to a Repository with the name 'acme/gone'"),
			isNotFound: true,
		},
		{
			name:        "rate limit message",
			err:         errors.New("API rate limit exceeded for installation"),
			isRateLimit: true,
		},
		{
			name:        "429 status",
			err:         errors.New("received status 429"),
			isRateLimit: true,
		},
		{
			name:      "connection refused",
			err:       errors.New("dial tcp 10.0.0.1:443: connect: connection refused"),
			isNetwork: true,
		},
		{
			name:      "dns failure",
			err:       errors.New("lookup api.github.com: no such host"),
			isNetwork: true,
		},
		{
			name:        "typed rate limit in chain",
			err:         fmt.Errorf("fetch page 3: %w", rateLimitedErr{}),
			isRateLimit: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsAuthError(tt.err); got != tt.isAuth {
				t.Errorf("IsAuthError = %v, want %v", got, tt.isAuth)
			}
			if got := inspector.IsNotFoundError(tt.err); got != tt.isNotFound {
				t.Errorf("IsNotFoundError = %v, want %v", got, tt.isNotFound)
			}
			if got := inspector.IsRateLimitError(tt.err); got != tt.isRateLimit {
				t.Errorf("IsRateLimitError = %v, want %v", got, tt.isRateLimit)
			}
			if got := inspector.IsNetworkError(tt.err); got != tt.isNetwork {
				t.Errorf("IsNetworkError = %v, want %v", got, tt.isNetwork)
			}
		})
	}
}
