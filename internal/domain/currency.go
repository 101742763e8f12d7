package domain

import "strings"

// Currency is an ISO 4217 code accepted by the payment flow.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
)

var SupportedCurrencies = []Currency{USD, EUR}

var currencySymbols = map[Currency]string{
	USD: "$",
	EUR: "€",
}

// CurrencyFromCode looks the code up case-insensitively. Unknown codes
// report false; callers decide whether a fallback makes sense.
func CurrencyFromCode(code string) (Currency, bool) {
	for _, c := range SupportedCurrencies {
		if strings.EqualFold(string(c), strings.TrimSpace(code)) {
			return c, true
		}
	}
	return "", false
}

// NormalizeCurrency returns the canonical currency for a known code and the
// trimmed raw value otherwise, so validation can still report on it.
func NormalizeCurrency(code string) Currency {
	if c, ok := CurrencyFromCode(code); ok {
		return c
	}
	return Currency(strings.TrimSpace(code))
}

func (c Currency) Code() string {
	return string(c)
}

func (c Currency) Symbol() string {
	return currencySymbols[c]
}

func (c Currency) IsSupported() bool {
	_, ok := currencySymbols[c]
	return ok
}
