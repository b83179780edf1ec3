package core

import (
	"net/http/httptest"
	"testing"
)

func TestDefaultValidatorContentType(t *testing.T) {
	testCases := []struct {
		name        string
		contentType string
		wantErr     bool
	}{
		{name: "exact match", contentType: "application/json"},
		{name: "with charset parameter", contentType: "application/json; charset=utf-8"},
		{name: "missing", contentType: "", wantErr: true},
		{name: "wrong type", contentType: "text/plain", wantErr: true},
		{name: "multipart", contentType: "multipart/form-data; boundary=x", wantErr: true},
	}

	v := NewValidator()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", nil)
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}

			resp, err := v.ContentType(req, MimeTypeJSON)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if resp.status != errorInvalidContentType.status {
					t.Errorf("response status = %d, want %d", resp.status, errorInvalidContentType.status)
				}
				return
			}
			if err != nil {
				t.Fatalf("ContentType() error = %v", err)
			}
		})
	}
}
