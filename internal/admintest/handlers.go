package admintest

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/investdesk/desk/internal/model"
)

func paginate[T any](c *gin.Context, items []T) gin.H {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	total := len(items)
	pages := max(1, (total+limit-1)/limit)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	return gin.H{
		"items": slices.Clone(items[start:end]),
		"pagination": model.Pagination{
			CurrentPage: page,
			TotalPages:  pages,
			TotalItems:  total,
			Limit:       limit,
		},
	}
}

func listed[T any](c *gin.Context, key string, items []T) {
	p := paginate(c, items)
	respond(c, gin.H{key: p["items"], "pagination": p["pagination"]})
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		reject(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !strings.EqualFold(req.Email, AdminEmail) || req.Password != AdminPassword {
		reject(c, http.StatusBadRequest, "Invalid email or password")
		return
	}
	s.mu.Lock()
	tok, err := s.issueLocked(s.admin, time.Hour)
	s.mu.Unlock()
	if err != nil {
		reject(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Login successful", "token": tok, "user": s.admin})
}

func (s *Server) terminateSessions(c *gin.Context) {
	var req struct {
		UserID string `json:"userId"`
	}
	_ = c.ShouldBindJSON(&req)
	caller := c.GetString("token")

	s.mu.Lock()
	n := 0
	for tok, uid := range s.tokens {
		if tok == caller || s.revoked[tok] {
			continue
		}
		if req.UserID == "" || req.UserID == uid {
			s.revoked[tok] = true
			n++
		}
	}
	s.mu.Unlock()
	respond(c, gin.H{"terminated": n})
}

// Investors

// SeedInvestor stores inv, assigning an id if it has none, and returns the id.
func (s *Server) SeedInvestor(inv model.Investor) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv.ID == "" {
		inv.ID = s.nextIDLocked("inv")
	}
	if inv.Status == "" {
		inv.Status = model.InvestorActive
	}
	s.investors = append(s.investors, inv)
	return inv.ID
}

// Investors returns the stored investors.
func (s *Server) Investors() []model.Investor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.investors)
}

func (s *Server) findInvestorLocked(id string) int {
	return slices.IndexFunc(s.investors, func(i model.Investor) bool { return i.ID == id })
}

func (s *Server) listInvestors(c *gin.Context) {
	search, status := c.Query("search"), c.Query("status")
	s.mu.Lock()
	var out []model.Investor
	for _, inv := range s.investors {
		if search != "" && !contains(inv.Name, search) && !contains(inv.PAN, search) && !contains(inv.Mobile, search) {
			continue
		}
		if status != "" && string(inv.Status) != status {
			continue
		}
		out = append(out, inv)
	}
	s.mu.Unlock()
	listed(c, "investors", out)
}

func (s *Server) getInvestor(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findInvestorLocked(c.Param("id"))
	if i < 0 {
		reject(c, http.StatusNotFound, "Investor not found")
		return
	}
	respond(c, s.investors[i])
}

// applyMultipart overlays the multipart fields onto inv and stores the
// uploaded part names as document URLs.
func (s *Server) applyMultipart(c *gin.Context, inv *model.Investor) error {
	mf, err := c.MultipartForm()
	if err != nil {
		return err
	}
	current, err := json.Marshal(inv)
	if err != nil {
		return err
	}
	merged := map[string]any{}
	if err := json.Unmarshal(current, &merged); err != nil {
		return err
	}
	recorded := map[string]any{}
	for k, vs := range mf.Value {
		if len(vs) > 0 {
			merged[k] = vs[0]
			recorded[k] = vs[0]
		}
	}
	data, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, inv); err != nil {
		return err
	}

	var files []string
	for part, hdrs := range mf.File {
		if len(hdrs) == 0 {
			continue
		}
		if inv.Documents == nil {
			inv.Documents = model.Documents{}
		}
		inv.Documents[part] = "/uploads/" + part + "/" + hdrs[0].Filename
		files = append(files, part)
	}
	slices.Sort(files)
	recorded["files"] = files
	body, _ := json.Marshal(recorded)

	route := Route(c.Request.Method, c.FullPath())
	s.bodies[route] = append(s.bodies[route], body)
	return nil
}

func (s *Server) createInvestor(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv := model.Investor{}
	if err := s.applyMultipart(c, &inv); err != nil {
		reject(c, http.StatusBadRequest, "Invalid investor data")
		return
	}
	if inv.Name == "" {
		reject(c, http.StatusBadRequest, "Name is required")
		return
	}
	for _, other := range s.investors {
		if inv.PAN != "" && other.PAN == inv.PAN {
			reject(c, http.StatusConflict, "PAN already registered")
			return
		}
	}
	inv.ID = s.nextIDLocked("inv")
	if inv.Status == "" {
		inv.Status = model.InvestorActive
	}
	inv.CreatedAt = s.now().UTC()
	inv.UpdatedAt = inv.CreatedAt
	s.investors = append(s.investors, inv)
	respond(c, inv)
}

func (s *Server) updateInvestor(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findInvestorLocked(c.Param("id"))
	if i < 0 {
		reject(c, http.StatusNotFound, "Investor not found")
		return
	}
	inv := s.investors[i]
	if err := s.applyMultipart(c, &inv); err != nil {
		reject(c, http.StatusBadRequest, "Invalid investor data")
		return
	}
	inv.UpdatedAt = s.now().UTC()
	s.investors[i] = inv
	respond(c, inv)
}

func (s *Server) setInvestorStatus(c *gin.Context) {
	var req struct {
		Status model.InvestorStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !req.Status.Valid() {
		reject(c, http.StatusBadRequest, "Invalid status")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findInvestorLocked(c.Param("id"))
	if i < 0 {
		reject(c, http.StatusNotFound, "Investor not found")
		return
	}
	s.investors[i].Status = req.Status
	respond(c, s.investors[i])
}

func (s *Server) listPaymentSystems(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respond(c, s.paymentSystems)
}

func (s *Server) listReferences(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respond(c, s.references)
}

// Transactions

// SeedTransaction stores txn and returns its id.
func (s *Server) SeedTransaction(txn model.Transaction) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if txn.ID == "" {
		txn.ID = s.nextIDLocked("txn")
	}
	s.transactions = append(s.transactions, txn)
	return txn.ID
}

// Transactions returns the stored transactions.
func (s *Server) Transactions() []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.transactions)
}

func (s *Server) listTransactions(c *gin.Context) {
	search, tag, investor := c.Query("search"), c.Query("tag"), c.Query("investorId")
	s.mu.Lock()
	var out []model.Transaction
	for _, t := range s.transactions {
		if search != "" && !contains(t.InvestorName, search) && !contains(t.Note, search) {
			continue
		}
		if tag != "" && string(t.Tag) != tag {
			continue
		}
		if investor != "" && t.InvestorID != investor {
			continue
		}
		out = append(out, t)
	}
	s.mu.Unlock()
	listed(c, "transactions", out)
}

func (s *Server) addTransaction(c *gin.Context) {
	var req struct {
		Tag        model.Tag       `json:"tag"`
		InvestorID string          `json:"investorId"`
		Amount     decimal.Decimal `json:"amount"`
		Date       model.Date      `json:"date"`
		Note       string          `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		reject(c, http.StatusBadRequest, "Invalid transaction data")
		return
	}
	if !req.Tag.Valid() || !req.Amount.IsPositive() {
		reject(c, http.StatusBadRequest, "Invalid transaction data")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findInvestorLocked(req.InvestorID)
	if i < 0 {
		reject(c, http.StatusNotFound, "Investor not found")
		return
	}
	txn := model.Transaction{
		ID:           s.nextIDLocked("txn"),
		InvestorID:   req.InvestorID,
		InvestorName: s.investors[i].Name,
		Amount:       req.Amount,
		Tag:          req.Tag,
		Date:         req.Date,
		Note:         req.Note,
		Status:       "Completed",
		CreatedAt:    s.now().UTC(),
	}
	s.transactions = append(s.transactions, txn)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Transaction added", "data": txn})
}

func (s *Server) deleteTransaction(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.transactions, func(t model.Transaction) bool { return t.ID == c.Param("id") })
	if i < 0 {
		reject(c, http.StatusNotFound, "Transaction not found")
		return
	}
	s.transactions = slices.Delete(s.transactions, i, i+1)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Transaction deleted"})
}

func (s *Server) runPayout(c *gin.Context) {
	var req struct {
		PaymentSystem string     `json:"paymentSystem"`
		AsOnDate      model.Date `json:"asOnDate"`
		Note          string     `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.PaymentSystem == "" {
		reject(c, http.StatusBadRequest, "Invalid payout data")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.ContainsFunc(s.paymentSystems, func(p model.PaymentSystem) bool { return p.ID == req.PaymentSystem }) {
		reject(c, http.StatusNotFound, "Payment system not found")
		return
	}
	p := model.Payout{
		ID:              s.nextIDLocked("pay"),
		PaymentSystemID: req.PaymentSystem,
		AsOn:            req.AsOnDate,
		Note:            req.Note,
		Status:          model.PayoutPending,
	}
	s.payouts = append(s.payouts, p)
	respond(c, p)
}

func (s *Server) listPayouts(c *gin.Context) {
	s.mu.Lock()
	out := slices.Clone(s.payouts)
	s.mu.Unlock()
	listed(c, "payouts", out)
}

func (s *Server) listAccounts(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respond(c, s.accounts)
}

// Profit & loss

func (s *Server) listProfitLoss(c *gin.Context) {
	investor := c.Query("investorId")
	s.mu.Lock()
	var out []model.ProfitLoss
	for _, pl := range s.profitLoss {
		if investor == "" || pl.InvestorID == investor {
			out = append(out, pl)
		}
	}
	s.mu.Unlock()
	listed(c, "profitLoss", out)
}

func (s *Server) createProfitLoss(c *gin.Context) {
	var pl model.ProfitLoss
	if err := c.ShouldBindJSON(&pl); err != nil {
		reject(c, http.StatusBadRequest, "Invalid profit/loss data")
		return
	}
	if pl.Kind != model.KindProfit && pl.Kind != model.KindLoss {
		reject(c, http.StatusBadRequest, "Type must be Profit or Loss")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pl.ID = s.nextIDLocked("pl")
	s.profitLoss = append(s.profitLoss, pl)
	respond(c, pl)
}

// App versions

// SeedAppVersion stores v and returns its id.
func (s *Server) SeedAppVersion(v model.AppVersion) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == "" {
		v.ID = s.nextIDLocked("av")
	}
	s.appVersions = append(s.appVersions, v)
	return v.ID
}

// AppVersions returns the stored app versions.
func (s *Server) AppVersions() []model.AppVersion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.appVersions)
}

func (s *Server) listAppVersions(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respond(c, s.appVersions)
}

func (s *Server) createAppVersion(c *gin.Context) {
	var v model.AppVersion
	if err := c.ShouldBindJSON(&v); err != nil || v.LatestVersion == "" {
		reject(c, http.StatusBadRequest, "Invalid app version data")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = s.nextIDLocked("av")
	v.UpdatedAt = s.now().UTC()
	s.appVersions = append(s.appVersions, v)
	respond(c, v)
}

func (s *Server) updateAppVersion(c *gin.Context) {
	var v model.AppVersion
	if err := c.ShouldBindJSON(&v); err != nil {
		reject(c, http.StatusBadRequest, "Invalid app version data")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.appVersions, func(a model.AppVersion) bool { return a.ID == c.Param("id") })
	if i < 0 {
		reject(c, http.StatusNotFound, "App version not found")
		return
	}
	v.ID = s.appVersions[i].ID
	v.UpdatedAt = s.now().UTC()
	s.appVersions[i] = v
	respond(c, v)
}

func (s *Server) deleteAppVersion(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.appVersions, func(a model.AppVersion) bool { return a.ID == c.Param("id") })
	if i < 0 {
		reject(c, http.StatusNotFound, "App version not found")
		return
	}
	s.appVersions = slices.Delete(s.appVersions, i, i+1)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "App version deleted"})
}

// PAN

func (s *Server) checkPanCard(c *gin.Context) {
	var req struct {
		PAN string `json:"pan"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.PAN == "" {
		reject(c, http.StatusBadRequest, "PAN is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.investors {
		if inv.PAN == req.PAN {
			respond(c, gin.H{"exists": true, "investorId": inv.ID, "name": inv.Name})
			return
		}
	}
	respond(c, gin.H{"exists": false})
}

func (s *Server) listPanCardTypes(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respond(c, s.panCardTypes)
}
