package model

// Reference is an introducer an investor can be attributed to.
type Reference struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Mobile string `json:"mobile,omitempty"`
}

// PaymentSystem describes a payout cadence (Weekly, Monthly, None).
type PaymentSystem struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Account is a company bank account transactions are booked into.
type Account struct {
	ID            string `json:"_id"`
	Name          string `json:"accountName"`
	BankName      string `json:"bankName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
}

// PanCardType is a PAN holder category (individual, company, ...).
type PanCardType struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// User is the signed-in administrator.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}
