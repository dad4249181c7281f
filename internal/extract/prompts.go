package extract

import (
	"fmt"
	"sort"
	"strings"
)

// Prompt builders are pure functions: same input, same instruction string,
// no I/O. The downstream parser and normalizer assume the model was
// instructed this way but never trust it blindly.

// ReceiptPrompt builds the instruction for extracting a single transaction
// from receipt text.
func ReceiptPrompt(text string) string {
	return "You are a receipt parser for a personal finance tracker.\n\n" +
		"Task:\n" +
		"- Extract ONE transaction from the receipt text below.\n" +
		"- Output STRICT JSON only (no comments, no extra text, no Markdown).\n" +
		"- Output a single JSON object.\n\n" +
		"The object must have these fields:\n" +
		"- \"date\": string, ISO format \"YYYY-MM-DD\", or null if not visible\n" +
		"- \"description\": string (store or purchase summary)\n" +
		"- \"amount\": number (the receipt total, positive)\n" +
		"- \"type\": \"income\" or \"expense\"\n" +
		"- \"category\": one of: " + strings.Join(Categories(), ", ") + "\n" +
		"- \"merchant\": string or null\n" +
		"- \"items\": array of {\"description\": string, \"amount\": number or null}, or []\n\n" +
		"Receipt text:\n" +
		text + "\n"
}

// StatementPrompt builds the instruction for bulk transaction extraction
// from free-form statement text. The explicit rules exist because the
// model is otherwise prone to hallucinating duplicate or zero-amount
// entries.
func StatementPrompt(text string) string {
	return "You are a bank statement parser for a personal finance tracker.\n\n" +
		"Task:\n" +
		"- The text below is arbitrary and unstructured; it may be OCR output or raw PDF text.\n" +
		"- Extract ALL transactions you can find.\n" +
		"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
		"- Output a JSON array of objects. Output must begin with \"[\" and end with \"]\".\n" +
		"- Do NOT wrap the response in code fences. Do NOT use ```json or any Markdown.\n\n" +
		"Each object must have these fields:\n" +
		"- \"date\": string, ISO format \"YYYY-MM-DD\"\n" +
		"- \"description\": string\n" +
		"- \"amount\": number (positive)\n" +
		"- \"type\": \"income\" or \"expense\"\n" +
		"- \"category\": one of: " + strings.Join(Categories(), ", ") + "\n" +
		"- \"merchant\": string or null\n\n" +
		"Rules:\n" +
		"- Emit each transaction ONCE. Never emit duplicates.\n" +
		"- If a transaction has no recoverable amount, OMIT it. Never invent or default an amount to 0.\n" +
		"- If the date is missing, use today's date.\n" +
		"- If the description is missing, use a short generic placeholder.\n\n" +
		"Statement text:\n" +
		text + "\n"
}

// AdvicePrompt builds the instruction for the chat/advice feature,
// embedding the user's aggregate financial picture.
func AdvicePrompt(summary FinancialSummary, message string) string {
	var b strings.Builder
	b.WriteString("You are a friendly personal finance assistant.\n\n")
	b.WriteString("The user's recent financial summary:\n")
	fmt.Fprintf(&b, "- Total income: %.2f\n", summary.TotalIncome)
	fmt.Fprintf(&b, "- Total expenses: %.2f\n", summary.TotalExpenses)
	fmt.Fprintf(&b, "- Balance: %.2f\n", summary.Balance)

	if len(summary.ExpensesByCategory) > 0 {
		b.WriteString("- Expenses by category:\n")
		cats := make([]string, 0, len(summary.ExpensesByCategory))
		for c := range summary.ExpensesByCategory {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		for _, c := range cats {
			fmt.Fprintf(&b, "  - %s: %.2f\n", c, summary.ExpensesByCategory[c])
		}
	}

	b.WriteString("\nAnswer the user's question using the summary above. ")
	b.WriteString("Be concise and practical. Do not invent transactions that are not in the summary.\n\n")
	b.WriteString("User question:\n")
	b.WriteString(message)
	b.WriteString("\n")
	return b.String()
}
