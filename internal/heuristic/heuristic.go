// Package heuristic derives a best-effort business summary from website text without any model call.
package heuristic

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jonathan/company-enricher/internal/types"
)

const (
	maxKeywords = 10
	maxSignals  = 4
)

// vocabulary lists the business terms promoted to keywords when they appear in the text.
var vocabulary = []string{
	"products", "services", "solutions", "platform", "technology",
	"innovation", "customer", "business", "data", "cloud",
}

// signalRule emits Signal when any of Terms appears in the text.
type signalRule struct {
	Terms  []string
	Signal string
}

// signalRules are evaluated in order; the order is part of the output contract.
var signalRules = []signalRule{
	{Terms: []string{"funding", "raised", "investment"}, Signal: "Recently announced funding round"},
	{Terms: []string{"growth", "growing", "expansion"}, Signal: "Strong growth trajectory indicated"},
	{Terms: []string{"customer", "clients"}, Signal: "Active customer engagement"},
	{Terms: []string{"hire", "hiring", "team"}, Signal: "Expanding team"},
}

// defaultSignals apply when no rule matches.
var defaultSignals = []string{"Established online presence", "Active business operations"}

// Extract builds a Structured result from text. It never fails.
func Extract(text, domain, websiteURL string) types.Structured {
	return types.Structured{
		Summary:    Summary(domain),
		WhatTheyDo: WhatTheyDo(websiteURL),
		Keywords:   Keywords(text, domain),
		Signals:    Signals(text),
	}
}

// Summary returns the templated one-paragraph summary for domain.
func Summary(domain string) string {
	return fmt.Sprintf("%s is a company focused on providing innovative solutions in their industry. "+
		"Based on their website content, they emphasize customer value and technological innovation.", domain)
}

// WhatTheyDo returns the four fixed bullets.
func WhatTheyDo(websiteURL string) []string {
	return []string{
		fmt.Sprintf("Delivers products/services through their platform at %s", websiteURL),
		"Focuses on user experience and customer satisfaction",
		"Leverages modern technology and best practices",
		"Serves a growing market with scalable solutions",
	}
}

// Keywords returns domain followed by every vocabulary term contained in text, capped at ten.
func Keywords(text, domain string) []string {
	lower := strings.ToLower(text)
	keywords := []string{domain}
	for _, word := range vocabulary {
		if strings.Contains(lower, word) {
			keywords = append(keywords, word)
		}
	}
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}

// Signals returns one signal per matching rule, or the defaults when none match.
func Signals(text string) []string {
	lower := strings.ToLower(text)
	var signals []string
	for _, rule := range signalRules {
		if containsAny(lower, rule.Terms) {
			signals = append(signals, rule.Signal)
		}
	}
	if len(signals) == 0 {
		signals = append(signals, defaultSignals...)
	}
	if len(signals) > maxSignals {
		signals = signals[:maxSignals]
	}
	return signals
}

// Domain returns the lower-cased host of websiteURL with the first "www." removed.
// Input that does not parse to a host is returned unchanged.
func Domain(websiteURL string) string {
	u, err := url.Parse(websiteURL)
	if err != nil || u.Hostname() == "" {
		return websiteURL
	}
	return strings.Replace(strings.ToLower(u.Hostname()), "www.", "", 1)
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
