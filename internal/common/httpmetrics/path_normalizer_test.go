package httpmetrics_test

import (
	"testing"

	"github.com/taskcrate/backend/internal/common/httpmetrics"
)

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		path string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"/tasks/", "/tasks/"},
		{"/tasks/42", "/tasks/{id}"},
		{"/tasks/42/complete", "/tasks/{id}/complete"},
		{"/users/me/", "/users/me/"},
		{"/tasks/abc", "/tasks/abc"},
		{"/tasks/12a", "/tasks/12a"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			if got := httpmetrics.NormalizePath(tc.path); got != tc.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tc.path, got, tc.want)
			}
		})
	}
}
