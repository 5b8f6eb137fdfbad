package googleDriveApi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/KotFed0t/portfolio_tracker/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type driveStub struct {
	mu        sync.Mutex
	requests  []string
	listQuery string
	failID    string
}

func (s *driveStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/upload/drive/v3/files"):
		_, _ = w.Write([]byte(`{"id":"file-1","name":"report.xlsx"}`))
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/files/file-1/permissions"):
		_, _ = w.Write([]byte(`{"id":"perm-1","type":"anyone","role":"reader"}`))
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/files"):
		s.mu.Lock()
		s.listQuery = r.URL.Query().Get("q")
		s.mu.Unlock()
		_, _ = w.Write([]byte(`{"files":[{"id":"old-1","name":"a.xlsx"},{"id":"old-2","name":"b.xlsx"}]}`))
	case r.Method == http.MethodDelete && strings.HasSuffix(r.URL.Path, "/files/trash"):
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodDelete && strings.HasSuffix(r.URL.Path, "/files/"+s.failID):
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"forbidden"}}`))
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *driveStub) count(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func newTestDrive(t *testing.T, stub *driveStub) *GoogleDriveApi {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	cfg := &config.Config{GoogleDrive: config.GoogleDrive{FileTTL: time.Hour}}
	a, err := newWithOptions(context.Background(), cfg, option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return a
}

func TestUploadFile(t *testing.T) {
	stub := &driveStub{}
	a := newTestDrive(t, stub)

	link, err := a.UploadFile(context.Background(), strings.NewReader("xlsx"), "report.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "https://drive.google.com/file/d/file-1/view", link)
	assert.Equal(t, 1, stub.count(http.MethodPost+" /files/file-1/permissions"))
}

func TestDeleteOldFiles(t *testing.T) {
	stub := &driveStub{failID: "old-1"}
	a := newTestDrive(t, stub)

	err := a.DeleteOldFiles(context.Background())
	require.NoError(t, err)

	assert.Contains(t, stub.listQuery, "createdTime <")
	assert.Contains(t, stub.listQuery, "trashed = false")

	// a failed delete does not stop the rest
	assert.Equal(t, 1, stub.count(http.MethodDelete+" /files/old-2"))
	assert.Equal(t, 1, stub.count(http.MethodDelete+" /files/trash"))
}
