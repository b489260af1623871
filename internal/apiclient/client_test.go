package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/investdesk/desk/internal/model"
	"github.com/investdesk/desk/internal/session"
)

func newTestClient(t *testing.T, h http.HandlerFunc, store session.Store, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, store, opts...)
	require.NoError(t, err)
	return c
}

func signedIn() *session.MemoryStore {
	return session.NewMemoryStore(session.Session{
		AccessToken: "tok-123",
		User:        &model.User{ID: "u1", Name: "Admin"},
	})
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := New("/api", session.NewMemoryStore(session.Session{}))
	require.Error(t, err)

	_, err = New("https://api.example.com", nil)
	require.Error(t, err)
}

func TestDo_AttachesBearerAndHeaders(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = io.WriteString(w, `{"success":true,"data":{"_id":"u1","name":"Admin"}}`)
	}, signedIn())

	var user model.User
	err := c.Get(context.Background(), "/auth/admin/me", url.Values{"x": {"1"}}, &user)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", got.Header.Get("Authorization"))
	assert.NotEmpty(t, got.Header.Get(RequestIDHeader))
	assert.Contains(t, got.Header.Get("User-Agent"), "desk/")
	assert.Equal(t, "/auth/admin/me", got.URL.Path)
	assert.Equal(t, "1", got.URL.Query().Get("x"))
	assert.Equal(t, "Admin", user.Name)
}

func TestDo_NoTokenNoAuthorization(t *testing.T) {
	var auth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{}`)
	}, session.NewMemoryStore(session.Session{}))

	require.NoError(t, c.Get(context.Background(), "/x", nil, nil))
	assert.Empty(t, auth)
}

func TestDo_UnauthorizedClearsSessionOnAnyEndpoint(t *testing.T) {
	endpoints := []struct{ method, path string }{
		{http.MethodGet, "/investor/admin/all"},
		{http.MethodPost, "/transaction/addTransaction"},
		{http.MethodPut, "/investor/admin/updateInvestor/abc"},
		{http.MethodDelete, "/app-version/admin/v1"},
		{http.MethodPost, "/user-finance/checkPanCard"},
	}
	for _, ep := range endpoints {
		t.Run(ep.method+" "+ep.path, func(t *testing.T) {
			store := signedIn()
			var redirected []string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(w, `{"message":"jwt expired"}`)
			}, store, OnUnauthorized(func(p string) { redirected = append(redirected, p) }))

			err := c.Do(context.Background(), Request{Method: ep.method, Path: ep.path}, nil)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindUnauthorized))
			assert.Equal(t, "jwt expired", Message(err, "fallback"))

			s, _ := store.Get()
			assert.Empty(t, s.AccessToken)
			assert.Nil(t, s.User)
			assert.Equal(t, []string{LoginPath}, redirected)
		})
	}
}

func TestDo_HTTPErrorMessagePriority(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"success":false,"message":"Investor not found"}`, "Investor not found"},
		{"error field", `{"error":"bad id"}`, "bad id"},
		{"no message", `<html>oops</html>`, "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, tt.body)
			}, signedIn())

			err := c.Get(context.Background(), "/investor/admin/x", nil, nil)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindHTTP))
			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusNotFound, apiErr.Status)
			assert.Equal(t, tt.want, Message(err, "fallback"))
		})
	}
}

func TestDo_SuccessFalseIsRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"message":"PAN already registered"}`)
	}, signedIn())

	var out map[string]any
	err := c.Post(context.Background(), "/user-finance/checkPanCard", map[string]string{"pan": "ABCDE1234F"}, &out)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindRejected))
	assert.Equal(t, "PAN already registered", Message(err, "fallback"))
	assert.Nil(t, out)
}

func TestDo_RawAndBareBodies(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			_, _ = io.WriteString(w, `{"success":true,"token":"abc","data":{"ignored":true}}`)
		case "/bare":
			_, _ = io.WriteString(w, `[{"_id":"p1","name":"Weekly"}]`)
		}
	}, signedIn())

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/login", Raw: true}, &login))
	assert.Equal(t, "abc", login.Token)

	var systems []model.PaymentSystem
	require.NoError(t, c.Get(context.Background(), "/bare", nil, &systems))
	require.Len(t, systems, 1)
	assert.Equal(t, "Weekly", systems[0].Name)
}

func TestDo_DecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":"not an object"}`)
	}, signedIn())

	var user model.User
	err := c.Get(context.Background(), "/x", nil, &user)
	assert.True(t, IsKind(err, KindDecode))
}

func TestDo_TimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, signedIn(), WithTimeout(50*time.Millisecond))
	defer close(release)

	err := c.Get(context.Background(), "/slow", nil, nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetwork))
	assert.NotEqual(t, "fallback", Message(err, "fallback"))
}

func TestDo_CanceledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, signedIn())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := c.Get(ctx, "/slow", nil, nil)
	assert.True(t, IsKind(err, KindCanceled))
}

func TestDo_MultipartParts(t *testing.T) {
	dir := t.TempDir()
	panPath := filepath.Join(dir, "pan.pdf")
	require.NoError(t, os.WriteFile(panPath, []byte("%PDF-pan"), 0o644))

	var fields map[string][]string
	var fileName, fileBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fields = r.MultipartForm.Value
		f, hdr, err := r.FormFile(model.DocPanCard)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		fileName, fileBody = hdr.Filename, string(b)
		_, _ = io.WriteString(w, `{"success":true}`)
	}, signedIn())

	err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/investor/admin/create",
		Form: &Multipart{
			Fields: map[string]string{"name": "Asha", "pan": "ABCDE1234F"},
			Files:  map[string]string{model.DocPanCard: panPath},
		},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Asha"}, fields["name"])
	assert.Equal(t, "pan.pdf", fileName)
	assert.Equal(t, "%PDF-pan", fileBody)
}

func TestDo_MissingUploadFile(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true }, signedIn())

	err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/investor/admin/create",
		Form:   &Multipart{Files: map[string]string{model.DocSignature: "/does/not/exist.png"}},
	}, nil)
	require.Error(t, err)
	assert.False(t, called)
}

func TestDo_RecordsClientSpan(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, signedIn(), WithTracer(tp.Tracer("test")))

	_ = c.Get(context.Background(), "/investor/admin/all", nil, nil)

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /investor/admin/all", spans[0].Name)
	assert.Equal(t, "Error", spans[0].Status.Code.String())
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "fb", Message(nil, "fb"))
	assert.Equal(t, "plain", Message(errors.New("plain"), "fb"))
	assert.Equal(t, "fb", Message(&Error{Kind: KindHTTP}, "fb"))
	assert.Equal(t, "dial failed", Message(&Error{Kind: KindNetwork, Err: errors.New("dial failed")}, "fb"))
}
