// Package plans holds the static subscription catalog and the quota rules
// derived from it.
package plans

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Code string

const (
	Basic        Code = "basic"
	Intermediate Code = "intermediate"
	Max          Code = "max"
)

// FreeListLimit is how many active lists a user without a paid plan may hold.
const FreeListLimit = 1

// SubscriptionDays is the length of a paid window.
const SubscriptionDays = 30

type Plan struct {
	Code       Code
	Name       string
	PriceCents int64
	MaxLists   int
}

var catalog = []Plan{
	{Code: Basic, Name: "Básico", PriceCents: 2000, MaxLists: 5},
	{Code: Intermediate, Name: "Intermediário", PriceCents: 3500, MaxLists: 10},
	{Code: Max, Name: "Max", PriceCents: 5000, MaxLists: 15},
}

// All returns the catalog ordered by price.
func All() []Plan {
	out := make([]Plan, len(catalog))
	copy(out, catalog)
	return out
}

func Get(code Code) (Plan, bool) {
	for _, p := range catalog {
		if p.Code == code {
			return p, true
		}
	}
	return Plan{}, false
}

func Valid(code string) bool {
	_, ok := Get(Code(code))
	return ok
}

// QuotaFor returns the list quota of a plan, or the free limit when the
// code is empty or unknown.
func QuotaFor(code string) int {
	if p, ok := Get(Code(code)); ok {
		return p.MaxLists
	}
	return FreeListLimit
}

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatPrice renders cents as Brazilian reais, e.g. "R$ 35,00".
func FormatPrice(cents int64) string {
	return brPrinter.Sprintf("R$ %.2f", float64(cents)/100)
}
