package idem

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// Redis-backed behavior (replay, in-flight lock) needs a live server; what can
// be pinned down here is that the middleware never gets in the way when it has
// nothing to work with.

func newCountingRouter(store *Store) (*gin.Engine, *int) {
	gin.SetMode(gin.TestMode)
	calls := 0
	r := gin.New()
	r.POST("/pay", Middleware(store), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, &calls
}

func TestNilStorePassesThrough(t *testing.T) {
	r, calls := newCountingRouter(nil)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/pay", nil)
		req.Header.Set(Header, "key-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: %d", i+1, w.Code)
		}
	}
	// Without Redis there is no replay: both requests reach the handler.
	if *calls != 2 {
		t.Fatalf("handler calls=%d want=2", *calls)
	}
}

func TestMissingHeaderPassesThrough(t *testing.T) {
	// A store that would panic on use proves the key-less path never touches it.
	store := &Store{}
	r, calls := newCountingRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/pay", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if *calls != 1 {
		t.Fatalf("handler calls=%d want=1", *calls)
	}
}

func TestBodyWriterTeesOutput(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	bw := &bodyWriter{ResponseWriter: c.Writer}
	if _, err := bw.Write([]byte(`{"ok":`)); err != nil {
		t.Fatal(err)
	}
	if _, err := bw.WriteString("true}"); err != nil {
		t.Fatal(err)
	}
	if got := bw.body.String(); got != `{"ok":true}` {
		t.Fatalf("captured %q", got)
	}
	if got := w.Body.String(); got != `{"ok":true}` {
		t.Fatalf("client saw %q", got)
	}
}
