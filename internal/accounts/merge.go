package accounts

import "strings"

// MergeByIdentity folds single-bureau account rows into one row per tradeline
// so cross-bureau comparisons see every bureau's figures on one record.
// Identity is the normalized account name plus masked number; rows that don't
// match any prior identity start a new merged record. Output preserves the
// first-appearance order of each identity, which downstream selection uses as
// the stable tie-breaker.
func MergeByIdentity(rows []NegativeAccount) []NegativeAccount {
	merged := make([]NegativeAccount, 0, len(rows))
	index := make(map[string]int, len(rows))

	for _, row := range rows {
		key := identityKey(row)
		at, seen := index[key]
		if !seen {
			index[key] = len(merged)
			merged = append(merged, row)
			continue
		}
		merged[at] = mergeInto(merged[at], row)
	}
	return merged
}

func identityKey(a NegativeAccount) string {
	name := strings.ToLower(strings.TrimSpace(a.AccountName))
	number := strings.ToLower(strings.TrimSpace(a.AccountNumberMasked))
	return name + "|" + number
}

func mergeInto(dst, src NegativeAccount) NegativeAccount {
	dst.TransUnion = mergeBureau(dst.TransUnion, src.TransUnion)
	dst.Equifax = mergeBureau(dst.Equifax, src.Equifax)
	dst.Experian = mergeBureau(dst.Experian, src.Experian)

	if dst.AccountType == "" {
		dst.AccountType = src.AccountType
	}
	if dst.AccountNumberMasked == "" {
		dst.AccountNumberMasked = src.AccountNumberMasked
	}
	if dst.OriginalBalance == nil {
		dst.OriginalBalance = src.OriginalBalance
	}
	if src.DateOpened != nil && (dst.DateOpened == nil || src.DateOpened.Before(*dst.DateOpened)) {
		dst.DateOpened = src.DateOpened
	}
	if src.LastActivity != nil && (dst.LastActivity == nil || src.LastActivity.After(*dst.LastActivity)) {
		dst.LastActivity = src.LastActivity
	}
	dst.Disputed = dst.Disputed || src.Disputed
	return dst
}

func mergeBureau(dst, src BureauData) BureauData {
	if dst.Balance == nil {
		dst.Balance = src.Balance
	}
	if dst.Status == nil {
		dst.Status = src.Status
	}
	if dst.DateOpened == nil {
		dst.DateOpened = src.DateOpened
	}
	return dst
}
