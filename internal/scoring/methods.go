package scoring

// MethodInfo describes one entry in the fixed detection-method taxonomy.
// The IDs are stable and appear in persisted recommendations, so new
// methods get new numbers rather than reusing retired ones.
type MethodInfo struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

const (
	MethodBalanceConflict = 1
	MethodDateConflict    = 2
	MethodStatusConflict  = 3
	MethodAgeViolation    = 4
	MethodMedical         = 5
	MethodMissingInfo     = 6
	MethodSingleBureau    = 7
	MethodSoldDebt        = 8
	MethodReAged          = 9
	MethodDuplicate       = 10
)

// detectionMethods is the taxonomy used for analytics and audit. Methods 9
// and 10 are defined for manual tagging but have no automatic rule yet.
var detectionMethods = map[int]MethodInfo{
	MethodBalanceConflict: {MethodBalanceConflict, "Balance Conflict", "Different balances reported across bureaus"},
	MethodDateConflict:    {MethodDateConflict, "Date Conflict", "Conflicting dates across bureaus"},
	MethodStatusConflict:  {MethodStatusConflict, "Status Conflict", "Different account statuses across bureaus"},
	MethodAgeViolation:    {MethodAgeViolation, "Age Violation", "Account older than 7 years (FCRA violation)"},
	MethodMedical:         {MethodMedical, "Medical Collection", "Medical debt with typically weak documentation"},
	MethodMissingInfo:     {MethodMissingInfo, "Missing Info", "Required information missing from report"},
	MethodSingleBureau:    {MethodSingleBureau, "Single Bureau", "Only appears on one bureau (easier to dispute)"},
	MethodSoldDebt:        {MethodSoldDebt, "Sold Debt", "Debt sold to collector (chain of custody issues)"},
	MethodReAged:          {MethodReAged, "Re-aged Account", "Account appears to have been re-aged"},
	MethodDuplicate:       {MethodDuplicate, "Duplicate Entry", "Same debt reported multiple times"},
}

// MethodInfoByID returns the taxonomy entry for a method ID.
func MethodInfoByID(id int) (MethodInfo, bool) {
	info, ok := detectionMethods[id]
	return info, ok
}

// AllMethods returns the taxonomy in ID order.
func AllMethods() []MethodInfo {
	out := make([]MethodInfo, 0, len(detectionMethods))
	for id := 1; id <= len(detectionMethods); id++ {
		if info, ok := detectionMethods[id]; ok {
			out = append(out, info)
		}
	}
	return out
}
