package accounts

import "time"

// Bureau names as stored on reports and account rows.
const (
	BureauTransUnion = "transunion"
	BureauEquifax    = "equifax"
	BureauExperian   = "experian"
)

// BureauData holds what one bureau reports about a tradeline. All fields are
// optional; a bureau that does not carry the account leaves every field nil.
type BureauData struct {
	Balance    *float64 `json:"balance,omitempty"`
	Status     *string  `json:"status,omitempty"`
	DateOpened *string  `json:"dateOpened,omitempty"`
}

// Populated reports whether the bureau carries any data for the account.
func (b BureauData) Populated() bool {
	return b.Balance != nil || b.Status != nil || b.DateOpened != nil
}

// NegativeAccount is one negative tradeline as reported by one or more
// bureaus. At least one bureau's fields are populated. Rows are created
// during report parsing and are read-only to the scoring engine.
type NegativeAccount struct {
	ID                  string     `json:"id"`
	UserID              string     `json:"userId"`
	ReportID            string     `json:"reportId,omitempty"`
	AccountName         string     `json:"accountName"`
	AccountType         string     `json:"accountType"`
	AccountNumberMasked string     `json:"accountNumberMasked"`
	Bureau              string     `json:"bureau,omitempty"` // bureau of the report this row was parsed from
	OriginalBalance     *float64   `json:"originalBalance,omitempty"`
	TransUnion          BureauData `json:"transunion"`
	Equifax             BureauData `json:"equifax"`
	Experian            BureauData `json:"experian"`
	DateOpened          *time.Time `json:"dateOpened,omitempty"`
	LastActivity        *time.Time `json:"lastActivity,omitempty"`
	Disputed            bool       `json:"disputed"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// BureauBalances returns the non-nil balances in fixed bureau order.
func (a NegativeAccount) BureauBalances() []float64 {
	var out []float64
	for _, b := range []*float64{a.TransUnion.Balance, a.Equifax.Balance, a.Experian.Balance} {
		if b != nil {
			out = append(out, *b)
		}
	}
	return out
}

// BureauStatuses returns the non-nil statuses in fixed bureau order.
func (a NegativeAccount) BureauStatuses() []string {
	var out []string
	for _, s := range []*string{a.TransUnion.Status, a.Equifax.Status, a.Experian.Status} {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// BureauDatesOpened returns the non-nil open dates in fixed bureau order.
func (a NegativeAccount) BureauDatesOpened() []string {
	var out []string
	for _, d := range []*string{a.TransUnion.DateOpened, a.Equifax.DateOpened, a.Experian.DateOpened} {
		if d != nil {
			out = append(out, *d)
		}
	}
	return out
}

// ReportingBureau returns the name of the single bureau reporting a balance,
// or "" when zero or more than one bureau reports one.
func (a NegativeAccount) ReportingBureau() string {
	name := ""
	count := 0
	if a.TransUnion.Balance != nil {
		name = BureauTransUnion
		count++
	}
	if a.Equifax.Balance != nil {
		name = BureauEquifax
		count++
	}
	if a.Experian.Balance != nil {
		name = BureauExperian
		count++
	}
	if count == 1 {
		return name
	}
	return ""
}

// Recommendation is the persisted outcome of scoring an account for a round.
type Recommendation struct {
	AccountID            string   `json:"accountId"`
	WinProbability       int      `json:"winProbability"`
	RecommendationReason string   `json:"recommendationReason"`
	Factors              []string `json:"factors"`
	MethodsTriggered     []int    `json:"methodsTriggered"`
}
