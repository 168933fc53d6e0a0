package models

// Position says on which side of the amount a currency symbol renders.
type Position int

const (
	PositionLeft Position = iota
	PositionRight
)

// CurrencyDisplay is the rendering rule for one currency: the symbol to
// print and on which side of the amount it goes.
type CurrencyDisplay struct {
	Symbol   string
	Position Position
}

var currencyDisplays = map[string]CurrencyDisplay{
	"USD": {Symbol: "$", Position: PositionLeft},
	"$":   {Symbol: "$", Position: PositionLeft},
	"":    {Symbol: "", Position: PositionLeft},
}

// NormalizeCurrency maps a currency code or symbol to its display rule.
// Unknown currencies keep their code as the symbol, rendered to the right
// of the amount.
func NormalizeCurrency(currency string) CurrencyDisplay {
	if display, ok := currencyDisplays[currency]; ok {
		return display
	}
	return CurrencyDisplay{Symbol: currency, Position: PositionRight}
}
