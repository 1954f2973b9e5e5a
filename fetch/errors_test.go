package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{
			name: "nil error",
			err:  nil,
			want: CategoryUnknown,
		},
		{
			name: "4xx status",
			err:  &StatusError{URL: "http://example.com", StatusCode: 404},
			want: Category4xx,
		},
		{
			name: "5xx status",
			err:  &StatusError{URL: "http://example.com", StatusCode: 502},
			want: Category5xx,
		},
		{
			name: "wrapped status",
			err:  fmt.Errorf("fetch: %w", &StatusError{StatusCode: 503}),
			want: Category5xx,
		},
		{
			name: "not html",
			err:  fmt.Errorf("page: %w", ErrNotHTML),
			want: CategoryNotHTML,
		},
		{
			name: "unsupported scheme",
			err:  fmt.Errorf("page: %w", ErrUnsupportedScheme),
			want: CategoryUnsupportedScheme,
		},
		{
			name: "timeout error",
			err:  context.DeadlineExceeded,
			want: CategoryTimeout,
		},
		{
			name: "dns failure",
			err:  &net.DNSError{Err: "no such host", Name: "example.invalid"},
			want: CategoryDNSFailure,
		},
		{
			name: "connection refused",
			err:  &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
			want: CategoryConnectionRefused,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: CategoryUnknown,
		},
		{
			name: "cancelled",
			err:  context.Canceled,
			want: CategoryUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"429", &StatusError{StatusCode: 429}, true},
		{"500", &StatusError{StatusCode: 500}, true},
		{"503", &StatusError{StatusCode: 503}, true},
		{"404", &StatusError{StatusCode: 404}, false},
		{"403", &StatusError{StatusCode: 403}, false},
		{"not html", ErrNotHTML, false},
		{"unsupported scheme", ErrUnsupportedScheme, false},
		{"timeout", context.DeadlineExceeded, true},
		{"dns", &net.DNSError{Err: "no such host", Name: "x.invalid"}, true},
		{"cancelled", context.Canceled, false},
		{"unknown", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldRetry(tt.err); got != tt.want {
				t.Errorf("shouldRetry(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsHTMLContentType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		want        bool
	}{
		{"HTML", "text/html", true},
		{"HTML with charset", "text/html; charset=utf-8", true},
		{"HTML uppercase", "TEXT/HTML", true},
		{"XHTML", "application/xhtml+xml", true},
		{"Plain text", "text/plain", false},
		{"PDF", "application/pdf", false},
		{"PNG", "image/png", false},
		{"JSON", "application/json", false},
		{"XML", "application/xml", false},
		{"Empty", "", false},
		{"Garbage", ";;;", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isHTMLContentType(tt.contentType); got != tt.want {
				t.Errorf("isHTMLContentType(%q) = %v, want %v", tt.contentType, got, tt.want)
			}
		})
	}
}

func TestFormatCategory(t *testing.T) {
	tests := []struct {
		cat  ErrorCategory
		want string
	}{
		{CategoryTimeout, "Timeouts"},
		{CategoryDNSFailure, "DNS Failures"},
		{CategoryConnectionRefused, "Connection Refused"},
		{Category4xx, "Client Errors (4xx)"},
		{Category5xx, "Server Errors (5xx)"},
		{CategoryNotHTML, "Not HTML"},
		{CategoryUnsupportedScheme, "Unsupported Schemes"},
		{CategoryUnknown, "Other Errors"},
	}

	for _, tt := range tests {
		if got := FormatCategory(tt.cat); got != tt.want {
			t.Errorf("FormatCategory(%v) = %q, want %q", tt.cat, got, tt.want)
		}
	}
}
