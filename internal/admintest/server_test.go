package admintest

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investdesk/desk/internal/model"
)

func get(t *testing.T, s *Server, path, token string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, s.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestAuthRequired(t *testing.T) {
	s := New(t)

	status, body := get(t, s, "/investor/getAllPaymentSystem", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, `"success":false`)

	status, body = get(t, s, "/investor/getAllPaymentSystem", s.Token(time.Hour))
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Weekly")

	assert.Equal(t, 2, s.Calls(Route(http.MethodGet, "/investor/getAllPaymentSystem")))
}

func TestStaticAndParamRoutesCoexist(t *testing.T) {
	s := New(t)
	id := s.SeedInvestor(investorNamed("Asha"))
	tok := s.Token(time.Hour)

	status, body := get(t, s, "/investor/admin/all", tok)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"investors"`)

	status, body = get(t, s, "/investor/admin/"+id, tok)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Asha")
}

func TestFailInjection(t *testing.T) {
	s := New(t)
	route := Route(http.MethodGet, "/user-finance/panCardTypes")
	s.Fail(route, http.StatusServiceUnavailable, "maintenance")

	status, body := get(t, s, "/user-finance/panCardTypes", s.Token(time.Hour))
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.True(t, strings.Contains(body, "maintenance"))

	s.Recover(route)
	status, _ = get(t, s, "/user-finance/panCardTypes", s.Token(time.Hour))
	assert.Equal(t, http.StatusOK, status)
}

func TestLoginRecordsBody(t *testing.T) {
	s := New(t)
	resp, err := http.Post(s.URL+"/auth/admin/login", "application/json",
		strings.NewReader(`{"email":"`+AdminEmail+`","password":"`+AdminPassword+`"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	bodies := s.Bodies(Route(http.MethodPost, "/auth/admin/login"))
	require.Len(t, bodies, 1)
	assert.Contains(t, string(bodies[0]), AdminEmail)
}

func investorNamed(name string) model.Investor {
	return model.Investor{Name: name}
}
