// Package admin exposes the admin REST API as typed operations.
package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/investdesk/desk/internal/apiclient"
	"github.com/investdesk/desk/internal/auditlog"
	"github.com/investdesk/desk/internal/model"
	"github.com/investdesk/desk/internal/session"
)

// API paths.
const (
	pathLogin             = "/auth/admin/login"
	pathTerminateSessions = "/auth/admin/terminateSessions"
	pathInvestors         = "/investor/admin/all"
	pathInvestor          = "/investor/admin/"
	pathInvestorCreate    = "/investor/admin/create"
	pathInvestorUpdate    = "/investor/admin/updateInvestor/"
	pathInvestorStatus    = "/investor/admin/status/"
	pathPaymentSystems    = "/investor/getAllPaymentSystem"
	pathReferences        = "/investor/getAllReference"
	pathTransactions      = "/transaction/admin/all"
	pathTransactionAdd    = "/transaction/addTransaction"
	pathTransaction       = "/transaction/admin/"
	pathPayoutRun         = "/transaction/admin/payout"
	pathPayouts           = "/transaction/admin/payouts"
	pathAccounts          = "/transaction-accounts/getAllAccount"
	pathProfitLoss        = "/profit-loss/admin/all"
	pathProfitLossCreate  = "/profit-loss/admin/create"
	pathAppVersions       = "/app-version/admin"
	pathPanCheck          = "/user-finance/checkPanCard"
	pathPanCardTypes      = "/user-finance/panCardTypes"
)

// Recorder receives an entry for every successful mutation.
type Recorder interface {
	Record(e auditlog.Entry) error
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder sets the audit recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.audit = r }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// Service performs admin operations through an API client.
type Service struct {
	client *apiclient.Client
	audit  Recorder
	logger zerolog.Logger
}

// NewService creates a Service.
func NewService(client *apiclient.Client, opts ...Option) *Service {
	s := &Service{client: client, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session returns the session store the client authenticates with.
func (s *Service) Session() session.Store {
	return s.client.Session()
}

type loginResponse struct {
	Token       string      `json:"token"`
	AccessToken string      `json:"access_token"`
	User        *model.User `json:"user"`
	Data        struct {
		Token string      `json:"token"`
		User  *model.User `json:"user"`
	} `json:"data"`
}

func (r loginResponse) token() string {
	for _, t := range []string{r.Token, r.AccessToken, r.Data.Token} {
		if t != "" {
			return t
		}
	}
	return ""
}

func (r loginResponse) user() *model.User {
	if r.User != nil {
		return r.User
	}
	return r.Data.User
}

// Login exchanges credentials for a token and stores the new session.
func (s *Service) Login(ctx context.Context, email, password string) (session.Session, error) {
	var resp loginResponse
	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   pathLogin,
		Body:   map[string]string{"email": email, "password": password},
		Raw:    true,
	}, &resp)
	if err != nil {
		return session.Session{}, err
	}
	sess := session.Session{AccessToken: resp.token(), User: resp.user()}
	if sess.AccessToken == "" {
		return session.Session{}, errors.New("login response carried no token")
	}
	if sess.User == nil {
		sess.User = &model.User{Email: email}
	}
	if err := s.Session().Set(sess); err != nil {
		return session.Session{}, fmt.Errorf("saving session: %w", err)
	}
	s.record(actorOf(sess), "login", "session", "", "")
	return sess, nil
}

// Logout clears the stored session. No request is made.
func (s *Service) Logout() error {
	if err := s.Session().Clear(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// TerminateSessions signs out every session of the given admin user, or all
// admin sessions when userID is empty. It returns how many were ended.
func (s *Service) TerminateSessions(ctx context.Context, userID string) (int, error) {
	body := map[string]string{}
	if userID != "" {
		body["userId"] = userID
	}
	var out struct {
		Terminated int `json:"terminated"`
	}
	if err := s.client.Post(ctx, pathTerminateSessions, body, &out); err != nil {
		return 0, err
	}
	s.recordCurrent("terminate", "session", userID, fmt.Sprintf("%d sessions", out.Terminated))
	return out.Terminated, nil
}

func (s *Service) recordCurrent(action, resource, id, details string) {
	actor := ""
	if sess, err := s.Session().Get(); err == nil {
		actor = actorOf(sess)
	}
	s.record(actor, action, resource, id, details)
}

func (s *Service) record(actor, action, resource, id, details string) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(auditlog.Entry{
		Actor:      actor,
		Action:     action,
		Resource:   resource,
		ResourceID: id,
		Details:    details,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("action", action).Str("resource", resource).Msg("writing audit entry")
	}
}

func actorOf(sess session.Session) string {
	if sess.User == nil {
		return ""
	}
	if sess.User.Email != "" {
		return sess.User.Email
	}
	return sess.User.Name
}
