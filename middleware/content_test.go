package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireJSON(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireJSON(ok)

	tests := []struct {
		name        string
		body        string
		contentType string
		expected    int
	}{
		{name: "no body", expected: http.StatusOK},
		{name: "json", body: `{}`, contentType: "application/json", expected: http.StatusOK},
		{name: "json with charset", body: `{}`, contentType: "application/json; charset=utf-8", expected: http.StatusOK},
		{name: "form", body: "a=b", contentType: "application/x-www-form-urlencoded", expected: http.StatusUnsupportedMediaType},
		{name: "missing type", body: `{}`, expected: http.StatusUnsupportedMediaType},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			req := httptest.NewRequest(http.MethodPost, "/", body)
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.expected, rec.Code)
		})
	}
}
