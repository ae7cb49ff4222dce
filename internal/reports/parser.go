package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"creditdispute-backend/internal/accounts"
	"creditdispute-backend/internal/llm"
)

// Parser turns extracted report text into structured negative accounts.
type Parser interface {
	Parse(ctx context.Context, reportText, bureau string) ([]accounts.NegativeAccount, error)
}

// LLMParser parses report text with an LLM provider. Each returned row is
// single-bureau; cross-bureau merging happens later, at scoring time.
type LLMParser struct {
	Client llm.Client
}

// parsedAccount mirrors the JSON schema the parse prompt asks for.
type parsedAccount struct {
	AccountName         string   `json:"accountName"`
	AccountType         string   `json:"accountType"`
	AccountNumberMasked string   `json:"accountNumberMasked"`
	Balance             *float64 `json:"balance"`
	OriginalBalance     *float64 `json:"originalBalance"`
	Status              *string  `json:"status"`
	DateOpened          *string  `json:"dateOpened"`
	LastActivity        *string  `json:"lastActivity"`
}

type parseResult struct {
	Accounts []parsedAccount `json:"accounts"`
}

func (p *LLMParser) Parse(ctx context.Context, reportText, bureau string) ([]accounts.NegativeAccount, error) {
	raw, err := p.Client.ParseReport(ctx, llm.ParseInput{ReportText: reportText, Bureau: bureau})
	if err != nil {
		return nil, err
	}

	var result parseResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode parse result: %w", err)
	}

	now := time.Now().UTC()
	out := make([]accounts.NegativeAccount, 0, len(result.Accounts))
	for _, pa := range result.Accounts {
		if pa.AccountName == "" {
			continue
		}
		account := accounts.NegativeAccount{
			ID:                  uuid.NewString(),
			AccountName:         pa.AccountName,
			AccountType:         pa.AccountType,
			AccountNumberMasked: pa.AccountNumberMasked,
			Bureau:              bureau,
			OriginalBalance:     pa.OriginalBalance,
			DateOpened:          parseDate(pa.DateOpened),
			LastActivity:        parseDate(pa.LastActivity),
			CreatedAt:           now,
		}
		setBureauData(&account, bureau, accounts.BureauData{
			Balance:    pa.Balance,
			Status:     pa.Status,
			DateOpened: pa.DateOpened,
		})
		out = append(out, account)
	}
	return out, nil
}

// setBureauData places the flat parsed values into the slot of the bureau
// the report came from.
func setBureauData(a *accounts.NegativeAccount, bureau string, data accounts.BureauData) {
	switch bureau {
	case accounts.BureauTransUnion:
		a.TransUnion = data
	case accounts.BureauEquifax:
		a.Equifax = data
	case accounts.BureauExperian:
		a.Experian = data
	}
}

func parseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}
