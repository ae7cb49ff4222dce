package scoring

import (
	"strings"
	"testing"
	"time"

	"creditdispute-backend/internal/accounts"
)

var scoreNow = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }
func tptr(v time.Time) *time.Time {
	return &v
}

func TestScoreEmptyAccountIsBaseProbability(t *testing.T) {
	got := Score(accounts.NegativeAccount{AccountNumberMasked: "****1234"}, scoreNow)
	if got.WinProbability != 30 {
		t.Fatalf("WinProbability = %d, want base 30", got.WinProbability)
	}
	if len(got.Factors) != 0 || len(got.MethodsTriggered) != 0 {
		t.Fatalf("empty account should trigger nothing: %+v", got)
	}
	if got.RecommendationReason != "Standard dispute - no specific violations detected" {
		t.Fatalf("reason = %q", got.RecommendationReason)
	}
}

func TestScoreThreeWayBalanceConflictListsAllValues(t *testing.T) {
	got := Score(accounts.NegativeAccount{
		AccountName:         "Cap One",
		AccountNumberMasked: "****1234",
		TransUnion:          accounts.BureauData{Balance: fptr(1000)},
		Equifax:             accounts.BureauData{Balance: fptr(1200)},
		Experian:            accounts.BureauData{Balance: fptr(900)},
	}, scoreNow)

	if !hasMethod(got.MethodsTriggered, MethodBalanceConflict) {
		t.Fatalf("balance conflict not triggered: %+v", got.MethodsTriggered)
	}
	factor := got.Factors[0].Description
	for _, want := range []string{"$1,000", "$1,200", "$900"} {
		if !strings.Contains(factor, want) {
			t.Fatalf("factor %q missing %q", factor, want)
		}
	}
}

func TestScoreIdenticalBalancesDoNotConflict(t *testing.T) {
	got := Score(accounts.NegativeAccount{
		AccountNumberMasked: "****1234",
		TransUnion:          accounts.BureauData{Balance: fptr(500)},
		Equifax:             accounts.BureauData{Balance: fptr(500)},
	}, scoreNow)
	if hasMethod(got.MethodsTriggered, MethodBalanceConflict) {
		t.Fatalf("identical balances should not trigger: %+v", got)
	}
}

func TestScoreStatusConflictIsCaseInsensitive(t *testing.T) {
	base := accounts.NegativeAccount{
		AccountNumberMasked: "****1234",
		TransUnion:          accounts.BureauData{Balance: fptr(500), Status: sptr("Collection")},
		Equifax:             accounts.BureauData{Balance: fptr(500), Status: sptr("COLLECTION")},
	}
	if got := Score(base, scoreNow); hasMethod(got.MethodsTriggered, MethodStatusConflict) {
		t.Fatalf("case-only status difference should not trigger: %+v", got)
	}

	base.Equifax.Status = sptr("Charge-off")
	if got := Score(base, scoreNow); !hasMethod(got.MethodsTriggered, MethodStatusConflict) {
		t.Fatalf("real status difference should trigger")
	}
}

func TestScoreAgeBoundaries(t *testing.T) {
	mk := func(yearsAgo float64) accounts.NegativeAccount {
		opened := scoreNow.Add(-time.Duration(yearsAgo * 365 * 24 * float64(time.Hour)))
		return accounts.NegativeAccount{AccountNumberMasked: "****1234", DateOpened: tptr(opened)}
	}

	old := Score(mk(8), scoreNow)
	if old.WinProbability != 65 {
		t.Fatalf("8-year account = %d, want 30+35", old.WinProbability)
	}
	if !hasMethod(old.MethodsTriggered, MethodAgeViolation) {
		t.Fatalf("age violation should tag method 4")
	}
	if old.RecommendationReason != "FCRA violation - account exceeds 7-year reporting limit" {
		t.Fatalf("reason = %q", old.RecommendationReason)
	}

	approaching := Score(mk(6.5), scoreNow)
	if approaching.WinProbability != 45 {
		t.Fatalf("6.5-year account = %d, want 30+15", approaching.WinProbability)
	}
	if len(approaching.MethodsTriggered) != 0 {
		t.Fatalf("soft age warning must not tag a method: %+v", approaching.MethodsTriggered)
	}
	if len(approaching.Factors) != 1 || !strings.Contains(approaching.Factors[0].Description, "approaching") {
		t.Fatalf("soft warning factor missing: %+v", approaching.Factors)
	}

	young := Score(mk(3), scoreNow)
	if young.WinProbability != 30 {
		t.Fatalf("3-year account = %d, want base", young.WinProbability)
	}
}

func TestScoreAgePrefersLastActivity(t *testing.T) {
	opened := scoreNow.AddDate(-10, 0, 0)
	active := scoreNow.AddDate(-1, 0, 0)
	got := Score(accounts.NegativeAccount{
		AccountNumberMasked: "****1234",
		DateOpened:          tptr(opened),
		LastActivity:        tptr(active),
	}, scoreNow)
	if hasMethod(got.MethodsTriggered, MethodAgeViolation) {
		t.Fatalf("recent activity should override old open date: %+v", got)
	}
}

func TestScoreMissingInfoBothConditionsStack(t *testing.T) {
	got := Score(accounts.NegativeAccount{
		AccountName: "Some Agency",
		AccountType: "Collection",
	}, scoreNow)
	// missing number +10, missing original balance +10, sold debt +15
	if got.WinProbability != 30+10+10+15 {
		t.Fatalf("WinProbability = %d", got.WinProbability)
	}
	count := 0
	for _, m := range got.MethodsTriggered {
		if m == MethodMissingInfo {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("method 6 should appear twice, got %d", count)
	}
}

func TestScoreSingleBureauNamesTheBureau(t *testing.T) {
	got := Score(accounts.NegativeAccount{
		AccountNumberMasked: "****1234",
		Equifax:             accounts.BureauData{Balance: fptr(250)},
	}, scoreNow)
	if !hasMethod(got.MethodsTriggered, MethodSingleBureau) {
		t.Fatalf("single bureau not triggered")
	}
	var found bool
	for _, f := range got.Factors {
		if f.MethodID == MethodSingleBureau {
			found = true
			if !strings.Contains(f.Description, "Equifax") {
				t.Fatalf("factor should name the bureau: %q", f.Description)
			}
		}
	}
	if !found {
		t.Fatalf("single-bureau factor missing: %+v", got.Factors)
	}
}

func TestScoreClampsAtNinetyFive(t *testing.T) {
	opened := scoreNow.AddDate(-8, 0, 0)
	got := Score(accounts.NegativeAccount{
		AccountName: "Midland Hospital Medical",
		AccountType: "Medical Collection",
		TransUnion:  accounts.BureauData{Balance: fptr(100), Status: sptr("open"), DateOpened: sptr("2018-01-01")},
		Equifax:     accounts.BureauData{Balance: fptr(200), Status: sptr("closed"), DateOpened: sptr("2018-06-01")},
		DateOpened:  tptr(opened),
	}, scoreNow)
	if got.WinProbability != 95 {
		t.Fatalf("WinProbability = %d, want clamp at 95", got.WinProbability)
	}
}

// Scenario: TransUnion reports $500, Equifax $750, Experian silent, for a
// medical collection opened eight years ago.
func TestScoreMedicalCollectionScenario(t *testing.T) {
	opened := scoreNow.AddDate(-8, 0, 0)
	got := Score(accounts.NegativeAccount{
		AccountName:         "ABC Collections",
		AccountType:         "Medical Collection",
		AccountNumberMasked: "****1234",
		OriginalBalance:     fptr(500),
		TransUnion:          accounts.BureauData{Balance: fptr(500)},
		Equifax:             accounts.BureauData{Balance: fptr(750)},
		DateOpened:          tptr(opened),
	}, scoreNow)

	if got.WinProbability != 95 {
		t.Fatalf("WinProbability = %d, want 95 (clamped)", got.WinProbability)
	}
	for _, method := range []int{MethodBalanceConflict, MethodAgeViolation, MethodMedical} {
		if !hasMethod(got.MethodsTriggered, method) {
			t.Fatalf("method %d not triggered: %+v", method, got.MethodsTriggered)
		}
	}
	if hasMethod(got.MethodsTriggered, MethodSingleBureau) {
		t.Fatalf("two bureaus report, single-bureau must not trigger")
	}
	if got.RecommendationReason != "FCRA violation - account exceeds 7-year reporting limit" {
		t.Fatalf("age violation should win reason priority, got %q", got.RecommendationReason)
	}
}

func TestReasonPriorityFallsThrough(t *testing.T) {
	// Only single-bureau triggers: reason falls back to the factor's text.
	got := Score(accounts.NegativeAccount{
		AccountNumberMasked: "****1234",
		TransUnion:          accounts.BureauData{Balance: fptr(300)},
	}, scoreNow)
	if got.RecommendationReason != got.Factors[0].Description {
		t.Fatalf("reason = %q, want first factor %q", got.RecommendationReason, got.Factors[0].Description)
	}
}

func TestRecommendationCarriesScoreFields(t *testing.T) {
	scored := Score(accounts.NegativeAccount{
		ID:                  "acct-1",
		AccountNumberMasked: "****1234",
		Equifax:             accounts.BureauData{Balance: fptr(250)},
	}, scoreNow)
	rec := scored.Recommendation()
	if rec.AccountID != "acct-1" || rec.WinProbability != scored.WinProbability {
		t.Fatalf("recommendation mismatch: %+v", rec)
	}
	if len(rec.Factors) != len(scored.Factors) {
		t.Fatalf("factors lost: %+v", rec)
	}
}
