package calc

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
)

// Round2 rounds a currency amount half away from zero to cents. Non-finite
// amounts round to 0.
func Round2(amount float64) float64 {
	if !Finite(amount) {
		return 0
	}
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// FormatCurrency renders an amount as US dollars, e.g. -$1,234.50. Non-finite
// amounts render as "n/a".
func FormatCurrency(amount float64) string {
	if !Finite(amount) {
		return "n/a"
	}
	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	fixed := d.StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return fmt.Sprintf("%s$%s.%s", sign, b.String(), cents)
}

// DaysBetween returns the absolute number of days between two calendar dates,
// rounded up.
func DaysBetween(from, to string) (int, error) {
	a, err := time.Parse(models.DateLayout, from)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", from, err)
	}
	b, err := time.Parse(models.DateLayout, to)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", to, err)
	}

	diff := math.Abs(b.Sub(a).Hours() / 24)
	return int(math.Ceil(diff)), nil
}
