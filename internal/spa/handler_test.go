package spa

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func TestHandler(t *testing.T) {
	root := fstest.MapFS{
		"index.html":          {Data: []byte("<html>app</html>")},
		"assets/app.js":       {Data: []byte("console.log(1)")},
		"assets/styles.css":   {Data: []byte("body{}")},
		"images/logo.svg":     {Data: []byte("<svg/>")},
		"assets/nested/x.txt": {Data: []byte("x")},
	}

	h := Handler(root)

	testCases := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "Root", method: http.MethodGet, path: "/", wantStatus: http.StatusOK, wantBody: "<html>app</html>"},
		{name: "Existing File", method: http.MethodGet, path: "/assets/app.js", wantStatus: http.StatusOK, wantBody: "console.log(1)"},
		{name: "Client Route", method: http.MethodGet, path: "/services/web-development", wantStatus: http.StatusOK, wantBody: "<html>app</html>"},
		{name: "Directory", method: http.MethodGet, path: "/assets", wantStatus: http.StatusOK, wantBody: "<html>app</html>"},
		{name: "Traversal", method: http.MethodGet, path: "/../../etc/passwd", wantStatus: http.StatusOK, wantBody: "<html>app</html>"},
		{name: "Head", method: http.MethodHead, path: "/about", wantStatus: http.StatusOK},
		{name: "Post", method: http.MethodPost, path: "/", wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			res := httptest.NewRecorder()

			h.ServeHTTP(res, req)

			assert.Equal(t, tc.wantStatus, res.Code)
			if tc.wantBody != "" {
				assert.Equal(t, tc.wantBody, res.Body.String())
			}
		})
	}
}

func TestHandlerMissingIndex(t *testing.T) {
	h := Handler(fstest.MapFS{"app.js": {Data: []byte("1")}})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	res := httptest.NewRecorder()

	h.ServeHTTP(res, req)

	assert.Equal(t, http.StatusNotFound, res.Code)
}
