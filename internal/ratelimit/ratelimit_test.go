// Copyright 2025 Relctx Authors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"
)

func respWith(status int, headers map[string]string) *http.Response {
	h := http.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}
	return &http.Response{StatusCode: status, Header: h}
}

func TestDetector_IsRateLimited(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name string
		resp *http.Response
		want bool
	}{
		{
			name: "nil response",
			resp: nil,
			want: false,
		},
		{
			name: "plain 200",
			resp: respWith(200, nil),
			want: false,
		},
		{
			name: "403 without headers is auth, not rate limit",
			resp: respWith(403, nil),
			want: false,
		},
		{
			name: "403 with remaining zero",
			resp: respWith(403, map[string]string{"X-RateLimit-Remaining": "0"}),
			want: true,
		},
		{
			name: "403 with retry-after",
			resp: respWith(403, map[string]string{"Retry-After": "30"}),
			want: true,
		},
		{
			name: "429",
			resp: respWith(429, nil),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.IsRateLimited(tt.resp); got != tt.want {
				t.Errorf("IsRateLimited = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetector_Delay(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	d := &Detector{now: func() time.Time { return now }}

	tests := []struct {
		name    string
		info    Info
		maxWait time.Duration
		want    time.Duration
	}{
		{
			name: "retry-after wins",
			info: Info{RetryAfter: 10 * time.Second, Reset: now.Add(time.Hour)},
			want: 10 * time.Second,
		},
		{
			name: "reset header plus skew",
			info: Info{Reset: now.Add(30 * time.Second)},
			want: 30*time.Second + resetSkew,
		},
		{
			name: "reset in the past clamps to skew",
			info: Info{Reset: now.Add(-time.Minute)},
			want: resetSkew,
		},
		{
			name:    "cap applies",
			info:    Info{Reset: now.Add(2 * time.Hour)},
			maxWait: 15 * time.Minute,
			want:    15 * time.Minute,
		},
		{
			name: "no headers falls back to a minute",
			info: Info{Remaining: -1},
			want: time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Delay(tt.info, tt.maxWait); got != tt.want {
				t.Errorf("Delay = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetector_Detect(t *testing.T) {
	d := NewDetector()
	reset := time.Now().Add(time.Minute).Unix()
	resp := respWith(403, map[string]string{
		"X-RateLimit-Remaining": "0",
		"X-RateLimit-Reset":     strconv.FormatInt(reset, 10),
	})

	info := d.Detect(resp)
	if info.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", info.Remaining)
	}
	if info.Reset.Unix() != reset {
		t.Errorf("Reset = %v, want epoch %d", info.Reset, reset)
	}
}

func TestWaiter_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWaiter(nil)
	if err := w.Wait(ctx, time.Minute); err == nil {
		t.Fatal("expected context error, got nil")
	}
}

func TestWaiter_ZeroDelay(t *testing.T) {
	w := NewWaiter(nil)
	if err := w.Wait(context.Background(), 0); err != nil {
		t.Fatalf("Wait(0) = %v, want nil", err)
	}
}
