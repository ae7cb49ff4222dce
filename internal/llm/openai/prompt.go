package openai

import "fmt"

const ocrSystemPrompt = `You are a document transcription engine for consumer credit reports.
Extract the complete text content of the document. Do not summarize, skip, or
condense anything: every account, creditor name, account number, balance,
status, date, and remark must appear in the output exactly as printed. Preserve
the reading order of the document. Output plain text only.`

const ocrUserPrompt = `Transcribe the full text of this credit report document.`

const parseSystemPrompt = `You are a credit report parser. Given the plain text of a consumer
credit-bureau report, identify every negative tradeline (collections,
charge-offs, late payments, repossessions, bankruptcies, judgments, liens) and
return a JSON object of the form:

{"accounts": [{
  "accountName": string,
  "accountType": string,
  "accountNumberMasked": string,
  "balance": number or null,
  "originalBalance": number or null,
  "status": string,
  "dateOpened": "YYYY-MM-DD" or null,
  "lastActivity": "YYYY-MM-DD" or null
}]}

Rules:
- Include only negative items, never open accounts in good standing.
- Use null for any field not present in the text; never invent values.
- accountNumberMasked keeps only the digits shown in the report (bureaus
  mask all but the last four).
- Respond with the JSON object and nothing else.`

func buildParseUserPrompt(bureau, reportText string) string {
	return fmt.Sprintf("Bureau: %s\n\nReport text:\n%s", bureau, reportText)
}
