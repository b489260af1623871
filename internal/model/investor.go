package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestorStatus is the only mutable lifecycle flag on an investor.
type InvestorStatus string

const (
	InvestorActive   InvestorStatus = "active"
	InvestorInactive InvestorStatus = "inactive"
)

// Valid reports whether s is a known status.
func (s InvestorStatus) Valid() bool {
	return s == InvestorActive || s == InvestorInactive
}

// BankDetails holds the payout bank account of an investor.
type BankDetails struct {
	BankName      string `json:"bankName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	IFSC          string `json:"ifscCode,omitempty"`
	Branch        string `json:"branchName,omitempty"`
}

// Nominee is the investor's declared beneficiary.
type Nominee struct {
	Name     string `json:"nomineeName,omitempty"`
	Relation string `json:"nomineeRelation,omitempty"`
	Mobile   string `json:"nomineeMobile,omitempty"`
}

// Investor is a platform user who has deposited funds.
type Investor struct {
	ID               string          `json:"_id"`
	Name             string          `json:"name"`
	Email            string          `json:"email,omitempty"`
	Mobile           string          `json:"mobile,omitempty"`
	PAN              string          `json:"panCardNumber,omitempty"`
	Aadhar           string          `json:"aadharCardNumber,omitempty"`
	InvestmentAmount decimal.Decimal `json:"investmentAmount"`
	PaymentSystemID  string          `json:"paymentSystem,omitempty"`
	ReferenceID      string          `json:"reference,omitempty"`
	Status           InvestorStatus  `json:"status"`
	Documents        Documents       `json:"documents,omitempty"`
	CreatedAt        time.Time       `json:"createdAt,omitempty"`
	UpdatedAt        time.Time       `json:"updatedAt,omitempty"`
	BankDetails
	Nominee
}

// Active reports whether the investor is currently active.
func (i Investor) Active() bool {
	return i.Status == InvestorActive
}

// Documents maps an upload part name to the stored document URL.
type Documents map[string]string

// Upload part names accepted by the investor create/update endpoints.
const (
	DocAadharCard     = "aadharcard"
	DocPanCard        = "pancard"
	DocCheckbook      = "checkbookPassbook"
	DocBankStatement  = "bankStatement"
	DocSignature      = "signature"
	DocTDSCertificate = "tdsCertificateFile"
)

// DocumentParts lists every upload part name in form order.
var DocumentParts = []string{
	DocAadharCard,
	DocPanCard,
	DocCheckbook,
	DocBankStatement,
	DocSignature,
	DocTDSCertificate,
}
