package validate

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

var (
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]{1}$`)
	ifscPattern    = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	mobilePattern  = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	datePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	tagPattern     = regexp.MustCompile(`^(Old|New)$`)
	kindPattern    = regexp.MustCompile(`^(Profit|Loss)$`)
	statusPattern  = regexp.MustCompile(`^(active|inactive)$`)
	accountPattern = regexp.MustCompile(`^[0-9]{9,18}$`)
)

// InvalidAmountMessage is returned for zero, negative or non-numeric amounts.
const InvalidAmountMessage = "Please enter a valid amount"

// PAN matches an Indian PAN: five capitals, four digits, one capital.
func PAN(required bool) Rule {
	return Rule{Required: required, Pattern: panPattern}
}

// IFSC matches a bank branch code: four capitals, a zero, six alphanumerics.
func IFSC(required bool) Rule {
	return Rule{Required: required, Pattern: ifscPattern}
}

// Aadhar accepts exactly 12 ASCII digits.
func Aadhar(required bool) Rule {
	return Rule{Required: required, Custom: aadhar}
}

func aadhar(v string) string {
	if len(v) != 12 {
		return "Aadhar number must be exactly 12 digits"
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return "Aadhar number must contain digits only"
		}
	}
	return ""
}

// Mobile matches a 10-digit Indian mobile number.
func Mobile(required bool) Rule {
	return Rule{Required: required, Pattern: mobilePattern}
}

// Email is a loose address shape check; the backend owns deliverability.
func Email(required bool) Rule {
	return Rule{Required: required, MaxLength: 254, Pattern: emailPattern}
}

// Day requires a YYYY-MM-DD date.
func Day(required bool) Rule {
	return Rule{Required: required, Pattern: datePattern, Custom: realDay}
}

func realDay(v string) string {
	if _, err := time.Parse("2006-01-02", v); err != nil {
		return "Please enter a valid date"
	}
	return ""
}

// Amount requires a decimal strictly greater than zero.
func Amount(required bool) Rule {
	return Rule{Required: required, Custom: positiveAmount}
}

func positiveAmount(v string) string {
	d, err := decimal.NewFromString(v)
	if err != nil || !d.IsPositive() {
		return InvalidAmountMessage
	}
	return ""
}

// Version requires a MAJOR.MINOR.PATCH version string.
func Version(required bool) Rule {
	return Rule{Required: required, Pattern: versionPattern}
}

// Text is a free-form field with an upper length bound.
func Text(required bool, max int) Rule {
	return Rule{Required: required, MaxLength: max}
}

// Name is a person's name of reasonable length.
func Name(required bool) Rule {
	return Rule{Required: required, MinLength: 2, MaxLength: 100}
}

func oneOf(required bool, p *regexp.Regexp) Rule {
	return Rule{Required: required, Pattern: p}
}
