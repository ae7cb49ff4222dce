package scoring

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"creditdispute-backend/internal/accounts"
)

// adjustment is one rule's contribution to a score. MethodID 0 marks a
// probability change with no taxonomy tag, such as the soft age warning.
type adjustment struct {
	Delta    int
	Factor   string
	MethodID int
}

// rule inspects one account and yields zero or more adjustments. Rules are
// independent; each reads only the fields it needs and never mutates state,
// so any rule can be tested in isolation.
type rule func(a accounts.NegativeAccount, now time.Time) []adjustment

// ruleSet is evaluated in order. Ordering matters only for factor display
// and for the first-factor fallback in reason selection.
var ruleSet = []rule{
	balanceConflictRule,
	dateConflictRule,
	statusConflictRule,
	ageRule,
	medicalRule,
	missingInfoRule,
	singleBureauRule,
	soldDebtRule,
}

func balanceConflictRule(a accounts.NegativeAccount, _ time.Time) []adjustment {
	balances := a.BureauBalances()
	if len(balances) < 2 || !hasDistinctFloat(balances) {
		return nil
	}
	labels := make([]string, len(balances))
	for i, b := range balances {
		labels[i] = formatMoney(b)
	}
	return []adjustment{{
		Delta:    20,
		Factor:   "Balance varies: " + strings.Join(labels, " vs "),
		MethodID: MethodBalanceConflict,
	}}
}

func dateConflictRule(a accounts.NegativeAccount, _ time.Time) []adjustment {
	dates := a.BureauDatesOpened()
	if len(dates) < 2 || !hasDistinctString(dates, false) {
		return nil
	}
	return []adjustment{{
		Delta:    15,
		Factor:   "Conflicting open dates across bureaus",
		MethodID: MethodDateConflict,
	}}
}

func statusConflictRule(a accounts.NegativeAccount, _ time.Time) []adjustment {
	statuses := a.BureauStatuses()
	if len(statuses) < 2 || !hasDistinctString(statuses, true) {
		return nil
	}
	return []adjustment{{
		Delta:    15,
		Factor:   "Different statuses reported across bureaus",
		MethodID: MethodStatusConflict,
	}}
}

// ageRule prefers lastActivity over dateOpened, matching how bureaus age
// tradelines off a report. Past seven years is a reporting violation; past
// six is only a soft warning with no method tag.
func ageRule(a accounts.NegativeAccount, now time.Time) []adjustment {
	relevant := a.LastActivity
	if relevant == nil {
		relevant = a.DateOpened
	}
	if relevant == nil {
		return nil
	}
	years := now.Sub(*relevant).Hours() / (24 * 365)
	switch {
	case years > 7:
		return []adjustment{{
			Delta:    35,
			Factor:   fmt.Sprintf("Account is %.1f years old (exceeds 7-year limit)", years),
			MethodID: MethodAgeViolation,
		}}
	case years > 6:
		return []adjustment{{
			Delta:  15,
			Factor: fmt.Sprintf("Account is %.1f years old (approaching 7-year limit)", years),
		}}
	}
	return nil
}

func medicalRule(a accounts.NegativeAccount, _ time.Time) []adjustment {
	name := strings.ToLower(a.AccountName)
	kind := strings.ToLower(a.AccountType)
	if !strings.Contains(kind, "medical") &&
		!strings.Contains(name, "medical") &&
		!strings.Contains(name, "hospital") &&
		!strings.Contains(name, "healthcare") {
		return nil
	}
	return []adjustment{{
		Delta:    20,
		Factor:   "Medical debt typically has weak documentation",
		MethodID: MethodMedical,
	}}
}

func missingInfoRule(a accounts.NegativeAccount, _ time.Time) []adjustment {
	var out []adjustment
	if len(a.AccountNumberMasked) < 4 {
		out = append(out, adjustment{
			Delta:    10,
			Factor:   "Account number missing or incomplete",
			MethodID: MethodMissingInfo,
		})
	}
	if a.OriginalBalance == nil && strings.Contains(strings.ToLower(a.AccountType), "collection") {
		out = append(out, adjustment{
			Delta:    10,
			Factor:   "Original balance not reported",
			MethodID: MethodMissingInfo,
		})
	}
	return out
}

func singleBureauRule(a accounts.NegativeAccount, _ time.Time) []adjustment {
	bureau := a.ReportingBureau()
	if bureau == "" {
		return nil
	}
	return []adjustment{{
		Delta:    15,
		Factor:   fmt.Sprintf("Only appears on %s (not cross-reported)", bureauDisplayName(bureau)),
		MethodID: MethodSingleBureau,
	}}
}

func soldDebtRule(a accounts.NegativeAccount, _ time.Time) []adjustment {
	name := strings.ToLower(a.AccountName)
	kind := strings.ToLower(a.AccountType)
	sold := strings.Contains(kind, "collection")
	for _, collector := range []string{"portfolio", "midland", "cavalry", "lvnv"} {
		if strings.Contains(name, collector) {
			sold = true
			break
		}
	}
	if !sold {
		return nil
	}
	return []adjustment{{
		Delta:    15,
		Factor:   "Debt collector - chain of custody often incomplete",
		MethodID: MethodSoldDebt,
	}}
}

func hasDistinctFloat(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return true
		}
	}
	return false
}

func hasDistinctString(values []string, foldCase bool) bool {
	first := values[0]
	if foldCase {
		first = strings.ToLower(first)
	}
	for _, v := range values[1:] {
		if foldCase {
			v = strings.ToLower(v)
		}
		if v != first {
			return true
		}
	}
	return false
}

func bureauDisplayName(bureau string) string {
	switch bureau {
	case accounts.BureauTransUnion:
		return "TransUnion"
	case accounts.BureauEquifax:
		return "Equifax"
	case accounts.BureauExperian:
		return "Experian"
	}
	return bureau
}

// formatMoney renders 1234.5 as "$1,234.5", the way balances appear on
// printed reports.
func formatMoney(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}
	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	out := b.String()
	if hasFrac {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return "$" + out
}
