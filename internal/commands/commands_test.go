package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investdesk/desk/internal/admintest"
	"github.com/investdesk/desk/internal/config"
	"github.com/investdesk/desk/internal/model"
	"github.com/investdesk/desk/internal/session"
	"github.com/investdesk/desk/internal/ui"
)

type testEnv struct {
	t       *testing.T
	srv     *admintest.Server
	dir     string
	config  string
	env     map[string]string
	answer  bool
	prompts []string
	titles  []string
	picks   int
	pickers []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	srv := admintest.New(t)
	dir := t.TempDir()

	cfg := config.Default(dir)
	cfg.API.BaseURL = srv.URL
	cfg.UI.SuccessDelay = 0
	cfg.UI.Debounce = time.Millisecond
	cfg.Log.Level = "error"
	path := filepath.Join(dir, config.FileName)
	require.NoError(t, config.Save(path, cfg))

	return &testEnv{t: t, srv: srv, dir: dir, config: path, env: map[string]string{}}
}

func (e *testEnv) run(args ...string) (stdout, stderr string, err error) {
	e.t.Helper()
	a := newApp()
	a.getenv = func(k string) string { return e.env[k] }
	a.confirm = func(_ *cobra.Command, title, label string) (bool, error) {
		e.titles = append(e.titles, title)
		e.prompts = append(e.prompts, label)
		return e.answer, nil
	}
	a.pick = func(_ *cobra.Command, p *ui.Picker) (ui.Option, bool, error) {
		e.picks++
		e.pickers = append(e.pickers, p.View())
		return drivePicker(p)
	}

	root := newRootCommand(a)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// drivePicker opens p, waits for the first page of options and picks the
// highlighted one, the way an operator pressing Enter twice would.
func drivePicker(p *ui.Picker) (ui.Option, bool, error) {
	enter := tea.KeyMsg{Type: tea.KeyEnter}
	_, cmd := p.Update(enter)
	if cmd != nil {
		p.Update(cmd())
	}
	if err := p.Err(); err != nil {
		return ui.Option{}, false, err
	}
	p.Update(enter)
	o, ok := p.Selected()
	return o, ok, nil
}

func (e *testEnv) login() {
	e.t.Helper()
	_, _, err := e.run("login", "--email", admintest.AdminEmail, "--password", admintest.AdminPassword)
	require.NoError(e.t, err)
}

func (e *testEnv) seedInvestor(name, pan string) string {
	return e.srv.SeedInvestor(model.Investor{Name: name, PAN: pan, Mobile: "9876543210"})
}

func TestLoginWhoamiLogout(t *testing.T) {
	e := newTestEnv(t)

	_, _, err := e.run("whoami")
	require.ErrorIs(t, err, errNotSignedIn)

	out, _, err := e.run("login", "--email", admintest.AdminEmail, "--password", admintest.AdminPassword)
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Desk Admin.")

	out, _, err = e.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Desk Admin <admin@investdesk.in>")
	assert.Contains(t, out, "Role: admin")
	assert.NotContains(t, out, "expired")

	out, _, err = e.run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out.")

	_, _, err = e.run("whoami")
	require.ErrorIs(t, err, errNotSignedIn)
}

func TestLogin_PasswordFromEnv(t *testing.T) {
	e := newTestEnv(t)
	e.env["DESK_PASSWORD"] = admintest.AdminPassword

	_, _, err := e.run("login", "--email", admintest.AdminEmail)
	require.NoError(t, err)
}

func TestLogin_InvalidInputNeverCallsAPI(t *testing.T) {
	e := newTestEnv(t)

	_, stderr, err := e.run("login", "--email", "not-an-email", "--password", "123")
	require.ErrorIs(t, err, errInvalidInput)
	assert.Contains(t, stderr, "Email:")
	assert.Contains(t, stderr, "Password must be at least 6 characters")
	assert.Zero(t, e.srv.TotalCalls())
}

func TestLogin_BadCredentials(t *testing.T) {
	e := newTestEnv(t)

	_, _, err := e.run("login", "--email", admintest.AdminEmail, "--password", "wrong-password")
	require.EqualError(t, err, "Invalid email or password")

	_, _, err = e.run("whoami")
	require.ErrorIs(t, err, errNotSignedIn)
}

func TestCommandsRequireSession(t *testing.T) {
	e := newTestEnv(t)

	_, _, err := e.run("investor", "list")
	require.ErrorIs(t, err, errNotSignedIn)
	assert.Zero(t, e.srv.TotalCalls())
}

func TestExpiredSession_SignsOutAndPointsToLogin(t *testing.T) {
	e := newTestEnv(t)
	admin := e.srv.Admin()
	store := session.NewFileStore(filepath.Join(e.dir, "session.json"))
	require.NoError(t, store.Set(session.Session{AccessToken: e.srv.Token(-time.Minute), User: &admin}))

	out, _, err := e.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "The token has expired")

	_, stderr, err := e.run("investor", "list")
	require.EqualError(t, err, "Invalid or expired token")
	assert.Contains(t, stderr, "Session expired")
	assert.Contains(t, stderr, "/login")

	s, err := store.Get()
	require.NoError(t, err)
	assert.False(t, s.SignedIn())
}

func TestInvestorList_Page2FetchesOnce(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	for i := 0; i < 12; i++ {
		e.seedInvestor("Investor "+string(rune('A'+i)), "")
	}

	out, _, err := e.run("investor", "list", "--page", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Investor K")
	assert.Contains(t, out, "Investor L")
	assert.NotContains(t, out, "Investor A ")
	assert.Contains(t, out, "Page 2 of 2 (12 investors)")
	assert.Equal(t, 1, e.srv.Calls(admintest.Route(http.MethodGet, "/investor/admin/all")))
}

func TestInvestorList_SearchStatusAndJSON(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	e.seedInvestor("Asha Rao", "ABCDE1234F")
	e.srv.SeedInvestor(model.Investor{Name: "Asha Iyer", Status: model.InvestorInactive})
	e.seedInvestor("Vikram Sen", "")

	out, _, err := e.run("-o", "json", "investor", "list", "--search", "asha", "--status", "inactive")
	require.NoError(t, err)
	var got []model.Investor
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Asha Iyer", got[0].Name)

	out, _, err = e.run("investor", "list", "--search", "nobody")
	require.NoError(t, err)
	assert.Contains(t, out, "No investors found.")

	_, _, err = e.run("investor", "list", "--status", "deleted")
	require.Error(t, err)
}

func TestInvestorCreateUpdateAndAudit(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	doc := filepath.Join(e.dir, "pan.pdf")
	require.NoError(t, os.WriteFile(doc, []byte("%PDF-pan"), 0o644))

	out, _, err := e.run("investor", "create",
		"--name", "Asha Rao",
		"--mobile", "9876543210",
		"--pan", "ABCDE1234F",
		"--aadhar", "123456789012",
		"--investment-amount", "250000",
		"--payment-system", "weekly",
		"--reference", "Ravi Kumar",
		"--bank-name", "HDFC Bank",
		"--account-number", "50200012345678",
		"--ifsc", "HDFC0001234",
		"--doc", model.DocPanCard+"="+doc,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Created investor Asha Rao")

	investors := e.srv.Investors()
	require.Len(t, investors, 1)
	inv := investors[0]
	assert.Equal(t, "ps-weekly", inv.PaymentSystemID)
	assert.Equal(t, "ref-1", inv.ReferenceID)
	assert.Equal(t, "/uploads/pancard/pan.pdf", inv.Documents[model.DocPanCard])

	_, _, err = e.run("investor", "update", inv.ID, "--mobile", "9123456789")
	require.NoError(t, err)
	updated := e.srv.Investors()[0]
	assert.Equal(t, "9123456789", updated.Mobile)
	assert.Equal(t, "ABCDE1234F", updated.PAN)

	out, _, err = e.run("audit")
	require.NoError(t, err)
	assert.Contains(t, out, "login")
	assert.Contains(t, out, "create")
	assert.Contains(t, out, "update")
	assert.Contains(t, out, inv.ID)
}

func TestInvestorCreate_InvalidFieldsNeverPost(t *testing.T) {
	e := newTestEnv(t)
	e.login()

	_, stderr, err := e.run("investor", "create", "--name", "Asha", "--pan", "abc")
	require.ErrorIs(t, err, errInvalidInput)
	assert.Contains(t, stderr, "PAN:")
	assert.Contains(t, stderr, "Mobile is required")
	assert.Zero(t, e.srv.Calls(admintest.Route(http.MethodPost, "/investor/admin/create")))
}

func TestInvestorShowAndStatus(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	id := e.seedInvestor("Asha Rao", "ABCDE1234F")

	out, _, err := e.run("investor", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Asha Rao")
	assert.Contains(t, out, "ABCDE1234F")

	out, _, err = e.run("investor", "deactivate", id)
	require.NoError(t, err)
	assert.Contains(t, out, "is now inactive")
	assert.False(t, e.srv.Investors()[0].Active())

	_, _, err = e.run("investor", "activate", id)
	require.NoError(t, err)
	assert.True(t, e.srv.Investors()[0].Active())

	_, _, err = e.run("investor", "show", "inv-404")
	require.EqualError(t, err, "Investor not found")
}

func TestTransactionAdd_ZeroAmountNeverPosts(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	id := e.seedInvestor("Asha", "")

	_, stderr, err := e.run("transaction", "add",
		"--investor", id, "--tag", "New", "--amount", "0", "--date", "2024-05-01", "--note", "test")
	require.ErrorIs(t, err, errInvalidInput)
	assert.Contains(t, stderr, "Amount: Please enter a valid amount")
	assert.Zero(t, e.srv.Calls(admintest.Route(http.MethodPost, "/transaction/addTransaction")))
}

func TestTransactionAdd_PostsOnceThenListsInvestorTransactions(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	id := e.seedInvestor("Asha", "")
	e.srv.SeedTransaction(model.Transaction{InvestorID: "someone-else", InvestorName: "Other", Tag: model.TagOld, Amount: decimal.NewFromInt(5)})

	out, _, err := e.run("transaction", "add",
		"--investor", id, "--tag", "New", "--amount", "1000", "--date", "2024-05-01", "--note", "test")
	require.NoError(t, err)

	route := admintest.Route(http.MethodPost, "/transaction/addTransaction")
	bodies := e.srv.Bodies(route)
	require.Len(t, bodies, 1)
	assert.JSONEq(t, `{"tag":"New","investorId":"`+id+`","amount":1000,"date":"2024-05-01","note":"test"}`, string(bodies[0]))

	assert.Contains(t, out, "added: ₹1000.00 for Asha on 2024-05-01")
	assert.Contains(t, out, "Page 1 of 1 (1 transactions)")
	assert.NotContains(t, out, "Other")
}

func TestTransactionAdd_ServerMessageShown(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	id := e.seedInvestor("Asha", "")
	e.srv.Fail(admintest.Route(http.MethodPost, "/transaction/addTransaction"), http.StatusOK, "Daily limit reached")

	_, _, err := e.run("transaction", "add", "--investor", id, "--tag", "Old", "--amount", "10", "--date", "2024-05-01")
	require.EqualError(t, err, "Daily limit reached")

	e.srv.Fail(admintest.Route(http.MethodPost, "/transaction/addTransaction"), http.StatusInternalServerError, "")
	_, _, err = e.run("transaction", "add", "--investor", id, "--tag", "Old", "--amount", "10", "--date", "2024-05-01")
	require.EqualError(t, err, "Something went wrong. Please try again.")
	assert.Empty(t, e.srv.Transactions())
}

func TestTransactionAdd_PickInvestor(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	id := e.seedInvestor("Asha", "ABCDE1234F")

	_, _, err := e.run("transaction", "add", "--pick", "--tag", "New", "--amount", "500", "--date", "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, 1, e.picks)
	assert.Contains(t, e.pickers[0], "Investor | InvestDesk Admin")

	txns := e.srv.Transactions()
	require.Len(t, txns, 1)
	assert.Equal(t, id, txns[0].InvestorID)
}

func TestTransactionAdd_PickChecksFlagsBeforeOpening(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	e.seedInvestor("Asha", "ABCDE1234F")

	_, stderr, err := e.run("transaction", "add", "--pick", "--tag", "New", "--amount", "0")
	require.ErrorIs(t, err, errInvalidInput)
	assert.Contains(t, stderr, "Amount: Please enter a valid amount")
	assert.NotContains(t, stderr, "Investor:")
	assert.Zero(t, e.picks)
	assert.Zero(t, e.srv.Calls(admintest.Route(http.MethodPost, "/transaction/addTransaction")))
}

func TestTransactionDelete_Confirm(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	id := e.srv.SeedTransaction(model.Transaction{InvestorID: "inv-1", Tag: model.TagNew, Amount: decimal.NewFromInt(10)})

	out, _, err := e.run("transaction", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")
	assert.Len(t, e.srv.Transactions(), 1)
	require.Len(t, e.prompts, 1)
	assert.Contains(t, e.prompts[0], id)
	assert.Equal(t, []string{"Delete transaction | InvestDesk Admin"}, e.titles)

	e.answer = true
	out, _, err = e.run("transaction", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")
	assert.Empty(t, e.srv.Transactions())

	_, _, err = e.run("transaction", "delete", id, "--yes")
	require.EqualError(t, err, "Transaction not found")
	assert.Len(t, e.prompts, 2)
}

func TestTransactionList_Filters(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	e.srv.SeedTransaction(model.Transaction{InvestorID: "inv-1", InvestorName: "Asha", Tag: model.TagNew, Amount: decimal.NewFromInt(10)})
	e.srv.SeedTransaction(model.Transaction{InvestorID: "inv-2", InvestorName: "Vikram", Tag: model.TagOld, Amount: decimal.NewFromInt(20)})

	out, _, err := e.run("transaction", "list", "--tag", "Old")
	require.NoError(t, err)
	assert.Contains(t, out, "Vikram")
	assert.NotContains(t, out, "Asha")

	out, _, err = e.run("transaction", "list", "--investor", "inv-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Asha")
	assert.NotContains(t, out, "Vikram")
}

func TestTransactionImport_InvalidRowsReportedNotSent(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	id := e.seedInvestor("Asha", "")
	file := filepath.Join(e.dir, "batch.csv")
	require.NoError(t, os.WriteFile(file, []byte(
		"investorId,tag,amount,date,note\n"+
			id+",New,1000,2024-05-01,first\n"+
			id+",New,0,2024-05-02,zero\n"+
			id+",Later,10,2024-05-03,bad tag\n"), 0o644))

	out, stderr, err := e.run("transaction", "import", file)
	require.Error(t, err)
	assert.Contains(t, out, "batch.csv: 3 rows, 1 added, 2 invalid, 0 failed")
	assert.Contains(t, stderr, "line 3: amount: Please enter a valid amount")
	assert.Contains(t, stderr, "line 4: tag:")
	assert.Equal(t, 1, e.srv.Calls(admintest.Route(http.MethodPost, "/transaction/addTransaction")))
}

func TestTransactionImport_StatementDirectory(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	id := e.seedInvestor("Asha", "ABCDE1234F")
	inbox := filepath.Join(e.dir, "inbox")
	require.NoError(t, os.MkdirAll(inbox, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "may.csv"), []byte(
		"Txn Date,PAN,Credit,Cohort,Narration\n"+
			"01/05/2024,abcde1234f,\"1,500.00\",New,NEFT\n"), 0o644))

	out, _, err := e.run("transaction", "import", inbox, "--format", "statement", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "may.csv: 1 rows, 1 valid, 0 invalid, 0 failed")
	assert.Empty(t, e.srv.Transactions())
	assert.FileExists(t, filepath.Join(inbox, "may.csv"))

	_, _, err = e.run("transaction", "import", inbox, "--format", "statement")
	require.NoError(t, err)
	txns := e.srv.Transactions()
	require.Len(t, txns, 1)
	assert.Equal(t, id, txns[0].InvestorID)
	assert.True(t, decimal.NewFromInt(1500).Equal(txns[0].Amount))
	assert.Equal(t, "2024-05-01", txns[0].Date.String())
	assert.NoFileExists(t, filepath.Join(inbox, "may.csv"))
	assert.FileExists(t, filepath.Join(inbox, "processed", "may.csv"))
}

func TestTransactionImport_UnknownPAN(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	file := filepath.Join(e.dir, "st.csv")
	require.NoError(t, os.WriteFile(file, []byte(
		"Txn Date,PAN,Credit,Cohort,Narration\n01/05/2024,ZZZZZ9999Z,100,New,\n"), 0o644))

	_, stderr, err := e.run("transaction", "import", file, "--format", "statement")
	require.Error(t, err)
	assert.Contains(t, stderr, "no investor with PAN ZZZZZ9999Z")
	assert.Empty(t, e.srv.Transactions())

	_, _, err = e.run("transaction", "import", file, "--format", "bank")
	require.ErrorContains(t, err, `unknown format "bank" (one of: desk, statement)`)
}

func TestTransactionImport_RetrySendsOnlyRejectedRows(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	id := e.seedInvestor("Asha", "")
	inbox := filepath.Join(e.dir, "inbox")
	require.NoError(t, os.MkdirAll(inbox, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "batch.csv"), []byte(
		"investorId,tag,amount,date,note\n"+
			id+",New,1000,2024-05-01,first\n"+
			"inv-missing,New,50,2024-05-02,unknown investor\n"), 0o644))

	out, stderr, err := e.run("transaction", "import", inbox)
	require.Error(t, err)
	assert.Contains(t, out, "batch.csv: 2 rows, 1 added, 0 invalid, 1 failed")
	assert.Contains(t, stderr, "batch.csv line 3: Investor not found")
	rejected := filepath.Join(inbox, "batch.rejected.csv")
	assert.Contains(t, out, "1 rows to retry written to "+rejected)
	assert.FileExists(t, filepath.Join(inbox, "processed", "batch.csv"))
	assert.NoFileExists(t, filepath.Join(inbox, "batch.csv"))
	data, err := os.ReadFile(rejected)
	require.NoError(t, err)
	assert.Equal(t, "investorId,tag,amount,date,note\ninv-missing,New,50,2024-05-02,unknown investor\n", string(data))

	out, _, err = e.run("transaction", "import", inbox)
	require.Error(t, err)
	assert.Contains(t, out, "batch.rejected.csv: 1 rows, 0 added, 0 invalid, 1 failed")

	route := admintest.Route(http.MethodPost, "/transaction/addTransaction")
	assert.Equal(t, 3, e.srv.Calls(route))
	sentFor := map[string]int{}
	for _, body := range e.srv.Bodies(route) {
		var req struct {
			InvestorID string `json:"investorId"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		sentFor[req.InvestorID]++
	}
	assert.Equal(t, map[string]int{id: 1, "inv-missing": 2}, sentFor)
	assert.Len(t, e.srv.Transactions(), 1)
}

func TestTransactionImport_StopsWhenSessionExpires(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	id := e.seedInvestor("Asha", "")
	file := filepath.Join(e.dir, "batch.csv")
	require.NoError(t, os.WriteFile(file, []byte(
		"investorId,tag,amount,date,note\n"+
			id+",New,100,2024-05-01,\n"+
			id+",New,200,2024-05-02,\n"+
			id+",Old,300,2024-05-03,\n"), 0o644))
	route := admintest.Route(http.MethodPost, "/transaction/addTransaction")
	e.srv.Fail(route, http.StatusUnauthorized, "Invalid or expired token")

	out, stderr, err := e.run("transaction", "import", file)
	require.ErrorContains(t, err, "Invalid or expired token")
	assert.Equal(t, 1, e.srv.Calls(route))
	assert.Equal(t, 1, strings.Count(stderr, "Session expired"))
	assert.Contains(t, out, "batch.csv: 3 rows, 0 added, 0 invalid, 3 failed")

	data, err := os.ReadFile(filepath.Join(e.dir, "batch.rejected.csv"))
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(data), "\n"))
	assert.FileExists(t, filepath.Join(e.dir, "processed", "batch.csv"))
}

func TestPayoutRunAndList(t *testing.T) {
	e := newTestEnv(t)
	e.login()

	out, _, err := e.run("payout", "run", "--payment-system", "Monthly", "--as-on", "2024-06-30")
	require.NoError(t, err)
	assert.Contains(t, out, "started as on 2024-06-30 (Pending)")
	assert.Contains(t, out, "Monthly")

	_, _, err = e.run("payout", "run", "--payment-system", "Daily")
	require.ErrorContains(t, err, "unknown payment system")

	_, stderr, err := e.run("payout", "run", "--payment-system", "Weekly", "--as-on", "2024-02-30")
	require.ErrorIs(t, err, errInvalidInput)
	assert.Contains(t, stderr, "As-on date:")
	assert.Equal(t, 1, e.srv.Calls(admintest.Route(http.MethodPost, "/transaction/admin/payout")))
}

func TestPnLAddAndNetTotal(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	id := e.seedInvestor("Asha", "")

	_, _, err := e.run("pnl", "add", "--investor", id, "--type", "Profit", "--amount", "1500.50", "--date", "2024-05-01")
	require.NoError(t, err)
	out, _, err := e.run("pnl", "add", "--investor", id, "--type", "Loss", "--amount", "500", "--date", "2024-05-02")
	require.NoError(t, err)
	assert.Contains(t, out, "Loss of ₹500.00 booked")
	assert.Contains(t, out, "Net on this page: ₹1000.50")

	_, stderr, err := e.run("pnl", "add", "--investor", id, "--type", "Gain", "--amount", "1")
	require.ErrorIs(t, err, errInvalidInput)
	assert.Contains(t, stderr, "Type:")
}

func TestAppVersionLifecycle(t *testing.T) {
	e := newTestEnv(t)
	e.login()

	_, stderr, err := e.run("appversion", "create", "--latest", "2.0.0", "--minimum", "2.1.0")
	require.ErrorIs(t, err, errInvalidInput)
	assert.Contains(t, stderr, "Minimum version cannot be greater than latest version")
	assert.Zero(t, e.srv.Calls(admintest.Route(http.MethodPost, "/app-version/admin")))

	out, _, err := e.run("appversion", "create", "--latest", "2.1.0", "--minimum", "2.0.0", "--android-force", "true")
	require.NoError(t, err)
	assert.Contains(t, out, "latest 2.1.0, minimum 2.0.0")

	versions := e.srv.AppVersions()
	require.Len(t, versions, 1)
	id := versions[0].ID
	assert.True(t, versions[0].AndroidForceUpdate)

	_, _, err = e.run("appversion", "update", id, "--latest", "2.2.0")
	require.NoError(t, err)
	v := e.srv.AppVersions()[0]
	assert.Equal(t, "2.2.0", v.LatestVersion)
	assert.Equal(t, "2.0.0", v.MinimumVersion)
	assert.True(t, v.AndroidForceUpdate)

	_, _, err = e.run("appversion", "update", "av-404", "--latest", "3.0.0")
	require.ErrorContains(t, err, "not found")

	e.answer = true
	out, _, err = e.run("appversion", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")
	assert.Empty(t, e.srv.AppVersions())
	assert.Len(t, e.prompts, 1)
}

func TestPanCheckAndLookups(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	id := e.seedInvestor("Asha Rao", "ABCDE1234F")

	out, _, err := e.run("pan", "check", "abcde1234f")
	require.NoError(t, err)
	assert.Contains(t, out, "registered to Asha Rao ("+id+")")

	out, _, err = e.run("pan", "check", "ZZZZZ9999Z")
	require.NoError(t, err)
	assert.Contains(t, out, "is not registered")

	_, _, err = e.run("pan", "check", "123")
	require.ErrorIs(t, err, errInvalidInput)
	assert.Equal(t, 2, e.srv.Calls(admintest.Route(http.MethodPost, "/user-finance/checkPanCard")))

	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"pan", "types"}, []string{"Individual", "Company"}},
		{[]string{"reference", "list"}, []string{"Ravi Kumar", "Meera Shah"}},
		{[]string{"payment-system", "list"}, []string{"Weekly", "Monthly", "None"}},
		{[]string{"account", "list"}, []string{"HDFC Current", "50200012345678"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, _, err := e.run(tt.args...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestSessionTerminate(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	other := e.srv.Token(time.Hour)

	e.answer = true
	out, _, err := e.run("session", "terminate")
	require.NoError(t, err)
	assert.Contains(t, out, "Terminated 1 sessions.")

	assert.Equal(t, http.StatusUnauthorized, statusWith(t, e.srv.URL+"/investor/admin/all", other))

	// The caller's own session survives.
	_, _, err = e.run("investor", "list")
	require.NoError(t, err)
}

func statusWith(t *testing.T, url, token string) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestConfigInitAndShow(t *testing.T) {
	e := newTestEnv(t)

	_, _, err := e.run("config", "init")
	require.ErrorContains(t, err, "already exists")

	fresh := filepath.Join(t.TempDir(), "nested", config.FileName)
	_, _, err = e.run("--config", fresh, "config", "init")
	require.NoError(t, err)
	cfg, err := config.Load(fresh)
	require.NoError(t, err)
	assert.Equal(t, "https://api.investdesk.in/api/v1", cfg.API.BaseURL)
	assert.Equal(t, filepath.Join(filepath.Dir(fresh), "session.json"), cfg.Session.Path)

	e.env["DESK_API_URL"] = "https://staging.investdesk.in/api/v1"
	out, _, err := e.run("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "base_url: https://staging.investdesk.in/api/v1")

	_, _, err = e.run("-o", "xml", "config", "show")
	require.ErrorContains(t, err, "unknown output format")
}
