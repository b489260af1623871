package validate

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck_Required(t *testing.T) {
	rules := []Rule{
		{Required: true},
		{Required: true, MinLength: 3},
		{Required: true, Pattern: regexp.MustCompile(`^x+$`)},
		PAN(true),
		Aadhar(true),
		Amount(true),
	}
	for i, r := range rules {
		assert.Equal(t, "Field is required", Check("f", "Field", "", r), "rule %d", i)
		assert.Equal(t, "Field is required", Check("f", "Field", "   \t", r), "rule %d whitespace", i)
	}
}

func TestCheck_OptionalEmptySkipsEverything(t *testing.T) {
	called := false
	r := Rule{
		MinLength: 5,
		MaxLength: 6,
		Pattern:   regexp.MustCompile(`^never$`),
		Custom: func(string) string {
			called = true
			return "custom"
		},
	}
	assert.Empty(t, Check("f", "Field", "", r))
	assert.Empty(t, Check("f", "Field", "  ", r))
	assert.False(t, called)
}

func TestCheck_Order(t *testing.T) {
	r := Rule{
		Required:  true,
		MinLength: 3,
		MaxLength: 5,
		Pattern:   regexp.MustCompile(`^[a-z]+$`),
		Custom:    func(v string) string { return "custom failed" },
	}

	assert.Equal(t, "Code must be at least 3 characters", Check("code", "Code", "A", r))
	assert.Equal(t, "Code must be at most 5 characters", Check("code", "Code", "ABCDEFG", r))
	assert.Equal(t, DefaultPatternMessage, Check("code", "Code", "ABC", r))
	assert.Equal(t, "custom failed", Check("code", "Code", "abc", r))
}

func TestCheck_PatternMessageLookup(t *testing.T) {
	assert.Equal(t, PatternMessages["pan"], Check("pan", "PAN", "nope", PAN(true)))
	assert.Equal(t, DefaultPatternMessage, Check("somethingElse", "X", "nope", PAN(true)))
}

func TestCheck_LengthCountsRunes(t *testing.T) {
	r := Rule{MaxLength: 3}
	assert.Empty(t, Check("f", "F", "äöü", r))
	assert.NotEmpty(t, Check("f", "F", "äöüß", r))
}

func TestCheck_ValidValue(t *testing.T) {
	assert.Empty(t, Check("name", "Name", "Asha Rao", Name(true)))
	assert.Empty(t, Check("note", "Note", "anything", Text(true, 10)))
}

func TestPAN(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"ABCDE1234F", true},
		{"abcde1234f", false},
		{"ABCD1234F", false},
		{"ABCDE12345", false},
		{"ABCDE1234FG", false},
		{" ABCDE1234F", false},
	}
	for _, tt := range tests {
		msg := Check("pan", "PAN", tt.value, PAN(true))
		assert.Equal(t, tt.valid, msg == "", "PAN %q: %q", tt.value, msg)
	}
}

func TestAadhar(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"123456789012", true},
		{"12345678901", false},
		{"1234567890123", false},
		{"12345678901a", false},
		{"1234 5678 901", false},
		{"١٢٣٤٥٦٧٨٩٠١٢", false},
	}
	for _, tt := range tests {
		msg := Check("aadhar", "Aadhar", tt.value, Aadhar(true))
		assert.Equal(t, tt.valid, msg == "", "Aadhar %q: %q", tt.value, msg)
	}
}

func TestIFSC(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"HDFC0123456", true},
		{"SBIN0ABC123", true},
		{"HDFC1123456", false},
		{"hdfc0123456", false},
		{"HDFC012345", false},
	}
	for _, tt := range tests {
		msg := Check("ifsc", "IFSC", tt.value, IFSC(true))
		assert.Equal(t, tt.valid, msg == "", "IFSC %q: %q", tt.value, msg)
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"1000", ""},
		{"0.01", ""},
		{"0", InvalidAmountMessage},
		{"-5", InvalidAmountMessage},
		{"ten", InvalidAmountMessage},
		{"", "Amount is required"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Check("amount", "Amount", tt.value, Amount(true)), "amount %q", tt.value)
	}
}

func TestDay(t *testing.T) {
	assert.Empty(t, Check("date", "Date", "2025-03-31", Day(true)))
	assert.Equal(t, PatternMessages["date"], Check("date", "Date", "31/03/2025", Day(true)))
	assert.Equal(t, "Please enter a valid date", Check("date", "Date", "2025-02-30", Day(true)))
}

func TestMobileAndVersion(t *testing.T) {
	assert.Empty(t, Check("mobile", "Mobile", "9876543210", Mobile(true)))
	assert.NotEmpty(t, Check("mobile", "Mobile", "1234567890", Mobile(true)))
	assert.Empty(t, Check("latestVersion", "Latest", "2.10.0", Version(true)))
	assert.Equal(t, PatternMessages["latestVersion"], Check("latestVersion", "Latest", "2.10", Version(true)))
}
