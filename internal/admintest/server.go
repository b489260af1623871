// Package admintest runs an in-memory fake of the admin REST API for tests.
//
// Routes mirror the production backend closely enough for the console's
// client, controllers and commands to be exercised end to end: JWT bearer
// auth, the {success, data, message} envelope, pagination and multipart
// uploads. Every request is counted per route, JSON bodies are recorded, and
// failures can be injected per route.
package admintest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/investdesk/desk/internal/model"
)

// Default credentials of the seeded administrator.
const (
	AdminEmail    = "admin@investdesk.in"
	AdminPassword = "secret123"
)

// Server is a running fake backend.
type Server struct {
	URL string

	srv    *httptest.Server
	secret []byte
	now    func() time.Time

	mu       sync.Mutex
	admin    model.User
	calls    map[string]int
	bodies   map[string][]json.RawMessage
	failures map[string]failure
	tokens   map[string]string
	revoked  map[string]bool
	seq      map[string]int

	investors      []model.Investor
	transactions   []model.Transaction
	payouts        []model.Payout
	profitLoss     []model.ProfitLoss
	appVersions    []model.AppVersion
	paymentSystems []model.PaymentSystem
	references     []model.Reference
	accounts       []model.Account
	panCardTypes   []model.PanCardType
}

type failure struct {
	status  int
	message string
}

// New starts a Server seeded with lookup data and one administrator. It is
// closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		secret:   []byte("admintest-secret"),
		now:      time.Now,
		admin:    model.User{ID: "adm-1", Name: "Desk Admin", Email: AdminEmail, Role: "admin"},
		calls:    map[string]int{},
		bodies:   map[string][]json.RawMessage{},
		failures: map[string]failure{},
		tokens:   map[string]string{},
		revoked:  map[string]bool{},
		seq:      map[string]int{},
		paymentSystems: []model.PaymentSystem{
			{ID: "ps-weekly", Name: "Weekly"},
			{ID: "ps-monthly", Name: "Monthly"},
			{ID: "ps-none", Name: "None"},
		},
		references: []model.Reference{
			{ID: "ref-1", Name: "Ravi Kumar", Mobile: "9876543210"},
			{ID: "ref-2", Name: "Meera Shah"},
		},
		accounts: []model.Account{
			{ID: "acc-1", Name: "HDFC Current", BankName: "HDFC Bank", AccountNumber: "50200012345678"},
		},
		panCardTypes: []model.PanCardType{
			{ID: "pct-p", Name: "Individual", Code: "P"},
			{ID: "pct-c", Name: "Company", Code: "C"},
		},
	}

	s.srv = httptest.NewServer(s.routes())
	s.URL = s.srv.URL
	t.Cleanup(s.srv.Close)
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.record, s.inject)

	r.POST("/auth/admin/login", s.login)

	auth := r.Group("")
	auth.Use(s.jwtAuth)
	auth.POST("/auth/admin/terminateSessions", s.terminateSessions)

	auth.GET("/investor/admin/all", s.listInvestors)
	auth.GET("/investor/admin/:id", s.getInvestor)
	auth.POST("/investor/admin/create", s.createInvestor)
	auth.PUT("/investor/admin/updateInvestor/:id", s.updateInvestor)
	auth.PUT("/investor/admin/status/:id", s.setInvestorStatus)
	auth.GET("/investor/getAllPaymentSystem", s.listPaymentSystems)
	auth.GET("/investor/getAllReference", s.listReferences)

	auth.GET("/transaction/admin/all", s.listTransactions)
	auth.POST("/transaction/addTransaction", s.addTransaction)
	auth.DELETE("/transaction/admin/:id", s.deleteTransaction)
	auth.POST("/transaction/admin/payout", s.runPayout)
	auth.GET("/transaction/admin/payouts", s.listPayouts)
	auth.GET("/transaction-accounts/getAllAccount", s.listAccounts)

	auth.GET("/profit-loss/admin/all", s.listProfitLoss)
	auth.POST("/profit-loss/admin/create", s.createProfitLoss)

	auth.GET("/app-version/admin", s.listAppVersions)
	auth.POST("/app-version/admin", s.createAppVersion)
	auth.PUT("/app-version/admin/:id", s.updateAppVersion)
	auth.DELETE("/app-version/admin/:id", s.deleteAppVersion)

	auth.POST("/user-finance/checkPanCard", s.checkPanCard)
	auth.GET("/user-finance/panCardTypes", s.listPanCardTypes)
	return r
}

// Route names a registered endpoint as "METHOD /pattern", e.g.
// "DELETE /transaction/admin/:id".
func Route(method, pattern string) string {
	return method + " " + pattern
}

// Calls returns how many requests reached route.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// TotalCalls returns the number of routed requests.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// Bodies returns the JSON bodies sent to route, in order. Multipart requests
// are recorded as a JSON object of their fields plus "files".
func (s *Server) Bodies(route string) []json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]json.RawMessage(nil), s.bodies[route]...)
}

// Fail makes route answer with status and message until Recover is called.
// A 200 status produces a {success:false} rejection.
func (s *Server) Fail(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, message: message}
}

// Recover removes an injected failure.
func (s *Server) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// Token issues a valid bearer token for the seeded administrator.
func (s *Server) Token(ttl time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, err := s.issueLocked(s.admin, ttl)
	if err != nil {
		panic(err)
	}
	return tok
}

// Admin returns the seeded administrator.
func (s *Server) Admin() model.User {
	return s.admin
}

func (s *Server) issueLocked(u model.User, ttl time.Duration) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
		"jti":   s.nextIDLocked("jti"),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	s.tokens[signed] = u.ID
	return signed, nil
}

func (s *Server) nextIDLocked(prefix string) string {
	s.seq[prefix]++
	return fmt.Sprintf("%s-%d", prefix, s.seq[prefix])
}

func (s *Server) record(c *gin.Context) {
	route := Route(c.Request.Method, c.FullPath())
	var body []byte
	if c.Request.Body != nil && !strings.HasPrefix(c.ContentType(), "multipart/") {
		body, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}

	s.mu.Lock()
	s.calls[route]++
	if len(bytes.TrimSpace(body)) > 0 && json.Valid(body) {
		s.bodies[route] = append(s.bodies[route], json.RawMessage(body))
	}
	s.mu.Unlock()
	c.Next()
}

func (s *Server) inject(c *gin.Context) {
	s.mu.Lock()
	f, ok := s.failures[Route(c.Request.Method, c.FullPath())]
	s.mu.Unlock()
	if !ok {
		c.Next()
		return
	}
	c.AbortWithStatusJSON(f.status, gin.H{"success": false, "message": f.message})
}

func (s *Server) jwtAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		unauthorized(c, "Authorization token missing")
		return
	}
	raw := strings.TrimPrefix(header, "Bearer ")
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		unauthorized(c, "Invalid or expired token")
		return
	}

	s.mu.Lock()
	revoked := s.revoked[raw]
	s.mu.Unlock()
	if revoked {
		unauthorized(c, "Session terminated")
		return
	}

	sub, _ := token.Claims.GetSubject()
	c.Set("userId", sub)
	c.Set("token", raw)
	c.Next()
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": msg})
}

func respond(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func reject(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "message": msg})
}
