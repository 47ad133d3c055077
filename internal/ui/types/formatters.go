package types

import (
	"fmt"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// display fallbacks for optional record fields
const (
	NoParty    = "Independent"
	NoPosition = "Politician"
	Unknown    = "Unknown"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// OrDefault returns *s, or fallback when s is nil or empty
func OrDefault(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func OrUnknown(s *string) string {
	return OrDefault(s, Unknown)
}

func (p Politician) PartyLabel() string {
	return OrDefault(p.Party, NoParty)
}

func (p Politician) PositionLabel() string {
	return OrDefault(p.Position, NoPosition)
}

// Location renders "state, country", or just the country when the state is missing
func (p Politician) Location() string {
	if p.StateProvince == nil || *p.StateProvince == "" {
		return p.Country
	}
	return fmt.Sprintf("%s, %s", *p.StateProvince, p.Country)
}

// FormatDate renders a date as DD/MM/YYYY, or Unknown for the zero value
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return Unknown
	}
	return t.Format("02/01/2006")
}

// FormatDateTime converts an RFC3339 datetime string to YYYY-MM-DD HH:MM
func FormatDateTime(dateString string) string {
	t, err := parseWireTime(dateString)
	if err != nil {
		return dateString
	}

	return t.Format("2006-01-02 15:04")
}

// FormatCurrency renders an amount in Brazilian reais, e.g. R$ 1.234,50
func FormatCurrency(amount float64) string {
	return printer.Sprint(currency.Symbol(currency.BRL.Amount(amount)))
}

// FormatNumber groups digits the pt-BR way, e.g. 1.234.567
func FormatNumber(n int) string {
	return printer.Sprintf("%d", n)
}

func FormatRecordsReturned(count int) string {
	if count == 1 {
		return "1 registro"
	}
	return fmt.Sprintf("%s registros", FormatNumber(count))
}

// VotePositionClass maps a vote position to the css class used to colour it
func VotePositionClass(position string) string {
	switch position {
	case "sim":
		return "vote-yea"
	case "não":
		return "vote-nay"
	default:
		return "vote-neutral"
	}
}
