// Package analyzer extracts and classifies contract clauses. The dashboard
// core only depends on the Analyzer port; the LLM-backed implementation here
// is the production collaborator behind it.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/config"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/domain"
)

// Analyzer turns an uploaded contract file into classified clause records.
// A nil-record, nil-error result is treated as a failed run by the caller.
type Analyzer interface {
	Analyze(ctx context.Context, filePath string) ([]domain.ClauseRecord, error)
}

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"
const defaultOpenAIModel = "gpt-4o-mini"

// maxContractChars caps how much contract text goes into a single prompt.
const maxContractChars = 48000

// LLMAnalyzer implements Analyzer against Anthropic or OpenAI, selected by
// config. Calls are synchronous and block the submitting action; the only
// bound on a slow provider is the shared HTTP client timeout.
type LLMAnalyzer struct {
	provider     string
	model        string
	anthropicKey string
	openaiKey    string
}

func New(cfg config.Config) *LLMAnalyzer {
	return &LLMAnalyzer{
		provider:     cfg.LLMProvider,
		model:        cfg.LLMModel,
		anthropicKey: cfg.AnthropicAPIKey,
		openaiKey:    cfg.OpenAIAPIKey,
	}
}

func (a *LLMAnalyzer) Analyze(ctx context.Context, filePath string) ([]domain.ClauseRecord, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading contract: %w", err)
	}
	text := string(data)
	if len(text) > maxContractChars {
		log.Printf("analyzer truncating contract from %d to %d chars", len(text), maxContractChars)
		text = truncateOnRuneBoundary(text, maxContractChars)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("contract file is empty")
	}

	systemPrompt, userPrompt := buildClausePrompts(text)

	var responseText string
	var usage Usage
	switch a.provider {
	case "openai":
		model := a.model
		if model == "" {
			model = defaultOpenAIModel
		}
		responseText, usage, err = callOpenAI(ctx, a.openaiKey, model, systemPrompt, userPrompt)
	default:
		model := a.model
		if model == "" {
			model = defaultAnthropicModel
		}
		responseText, usage, err = callAnthropic(ctx, a.anthropicKey, model, systemPrompt, userPrompt)
	}
	if err != nil {
		return nil, err
	}
	log.Printf("analyzer response tokens_in=%d tokens_out=%d", usage.InputTokens, usage.OutputTokens)

	records, err := parseClauseResponse(responseText)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("analyzer returned no clauses")
	}
	return records, nil
}

// truncateOnRuneBoundary cuts s to at most max bytes without splitting a
// multi-byte rune.
func truncateOnRuneBoundary(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func buildClausePrompts(contractText string) (string, string) {
	var system strings.Builder
	system.WriteString("You are a contract compliance analyst. Split the contract into its clauses and classify each one.\n\n")
	system.WriteString("Respond with ONLY a JSON array. Each element must have exactly these fields:\n")
	system.WriteString(`- "clause_id": short identifier, e.g. "1" or "4.2"` + "\n")
	system.WriteString(`- "clause_text": the clause text, trimmed` + "\n")
	system.WriteString(`- "risk_level": one of "Low", "Medium", "High"` + "\n")
	system.WriteString(`- "risk_percent": risk score as a percentage string, e.g. "35%"` + "\n")
	system.WriteString(`- "regulation": affected regulations, e.g. "GDPR", "HIPAA", or "" when none` + "\n")
	system.WriteString(`- "summary": one-sentence plain-language summary` + "\n")
	system.WriteString(`- "key_clauses": key legal concepts touched, e.g. "liability, indemnification"` + "\n")
	system.WriteString(`- "ai_modified_clause": a rewritten, lower-risk version of the clause ("" when risk_level is "Low")` + "\n")
	system.WriteString(`- "ai_modified_risk_level": risk level of the rewritten clause` + "\n\n")
	system.WriteString("Keep the clauses in document order. No markdown, no commentary, no code fences.")

	user := "Contract text:\n\n" + contractText
	return system.String(), user
}

// parseClauseResponse tolerates a fenced code block around the JSON array;
// some models add one no matter what the prompt says.
func parseClauseResponse(responseText string) ([]domain.ClauseRecord, error) {
	text := strings.TrimSpace(responseText)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	}

	var records []domain.ClauseRecord
	if err := json.Unmarshal([]byte(text), &records); err != nil {
		return nil, fmt.Errorf("parsing analyzer response: %w", err)
	}
	return records, nil
}
