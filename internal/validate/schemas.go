package validate

// Login is the admin sign-in form.
var Login = Schema{
	{Name: "email", Label: "Email", Rule: Email(true)},
	{Name: "password", Label: "Password", Rule: Rule{Required: true, MinLength: 6}},
}

// AddTransaction is the add-transaction form.
var AddTransaction = Schema{
	{Name: "investorId", Label: "Investor", Rule: Rule{Required: true}},
	{Name: "tag", Label: "Tag", Rule: oneOf(true, tagPattern)},
	{Name: "amount", Label: "Amount", Rule: Amount(true)},
	{Name: "date", Label: "Date", Rule: Day(true)},
	{Name: "note", Label: "Note", Rule: Text(false, 500)},
}

// Investor is the create-investor form. Documents are not validated here:
// they are attached as upload parts, not form values.
var Investor = Schema{
	{Name: "name", Label: "Name", Rule: Name(true)},
	{Name: "email", Label: "Email", Rule: Email(false)},
	{Name: "mobile", Label: "Mobile", Rule: Mobile(true)},
	{Name: "pan", Label: "PAN", Rule: PAN(true)},
	{Name: "aadhar", Label: "Aadhar", Rule: Aadhar(true)},
	{Name: "investmentAmount", Label: "Investment amount", Rule: Amount(true)},
	{Name: "paymentSystem", Label: "Payment system", Rule: Rule{Required: true}},
	{Name: "reference", Label: "Reference", Rule: Rule{}},
	{Name: "bankName", Label: "Bank name", Rule: Text(true, 100)},
	{Name: "accountNumber", Label: "Account number", Rule: oneOf(true, accountPattern)},
	{Name: "ifsc", Label: "IFSC", Rule: IFSC(true)},
	{Name: "branchName", Label: "Branch", Rule: Text(false, 100)},
	{Name: "nomineeName", Label: "Nominee name", Rule: Name(false)},
	{Name: "nomineeRelation", Label: "Nominee relation", Rule: Text(false, 50)},
	{Name: "nomineeMobile", Label: "Nominee mobile", Rule: Mobile(false)},
}

// InvestorUpdate is the edit-investor form: same rules, nothing required,
// since the edit screen only sends fields that changed.
var InvestorUpdate = optional(Investor)

// Payout is the run-payout form.
var Payout = Schema{
	{Name: "paymentSystem", Label: "Payment system", Rule: Rule{Required: true}},
	{Name: "asOnDate", Label: "As-on date", Rule: Day(true)},
	{Name: "note", Label: "Note", Rule: Text(false, 500)},
}

// AppVersion is the create/edit app-version form.
var AppVersion = Schema{
	{Name: "latestVersion", Label: "Latest version", Rule: Version(true)},
	{Name: "minimumVersion", Label: "Minimum version", Rule: Version(true)},
	{Name: "playStoreUrl", Label: "Play Store URL", Rule: Text(false, 500)},
	{Name: "appStoreUrl", Label: "App Store URL", Rule: Text(false, 500)},
	{Name: "updateMessage", Label: "Update message", Rule: Text(false, 500)},
}

// ProfitLoss is the add P&L entry form.
var ProfitLoss = Schema{
	{Name: "investorId", Label: "Investor", Rule: Rule{Required: true}},
	{Name: "type", Label: "Type", Rule: oneOf(true, kindPattern)},
	{Name: "amount", Label: "Amount", Rule: Amount(true)},
	{Name: "date", Label: "Date", Rule: Day(true)},
	{Name: "note", Label: "Note", Rule: Text(false, 500)},
}

// PanCheck is the PAN lookup form.
var PanCheck = Schema{
	{Name: "pan", Label: "PAN", Rule: PAN(true)},
}

// InvestorStatus is the status toggle.
var InvestorStatus = Schema{
	{Name: "status", Label: "Status", Rule: oneOf(true, statusPattern)},
}

func optional(s Schema) Schema {
	out := make(Schema, len(s))
	for i, f := range s {
		f.Rule.Required = false
		out[i] = f
	}
	return out
}
