// Package filter implements the article matching and aggregation engine.
package filter

import (
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"mediawatch/internal/model"
)

// UnknownCompany is the bucket for articles with a missing company name.
const UnknownCompany = "unknown company"

// allSentinel marks a select dimension as unconstrained.
const allSentinel = "all"

// Engine derives filtered, paginated and aggregated views from an
// article collection. The collection itself is never mutated.
type Engine struct {
	log *slog.Logger
}

// New creates an Engine. Malformed article dates are logged through log.
func New(log *slog.Logger) *Engine {
	return &Engine{log: log}
}

// Apply returns the articles matching c, preserving collection order.
func (e *Engine) Apply(articles []model.Article, c model.Criteria) []model.Article {
	var out []model.Article
	for _, a := range articles {
		if e.Match(&a, c) {
			out = append(out, a)
		}
	}
	return out
}

// Match reports whether a single article satisfies every criteria
// dimension. Any one failing dimension excludes the article.
func (e *Engine) Match(a *model.Article, c model.Criteria) bool {
	if !matchSearch(a, c.Search) {
		return false
	}
	if !matchChoice(a.Country, c.Country) {
		return false
	}
	if !matchChoice(a.Sentiment, c.Sentiment) {
		return false
	}
	if !e.matchDate(a, c.Start, c.End) {
		return false
	}
	if !matchLeader(a, c.Leader) {
		return false
	}
	for key, required := range c.Attributes {
		if required && !a.Attribute(key) {
			return false
		}
	}
	return true
}

func matchSearch(a *model.Article, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	fields := []string{a.Headline, a.Summary, a.Text, a.Keyword,
		leaderName(a.AMEALeader), leaderName(a.AMEAExecutive), leaderName(a.LocalLeaders)}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// matchChoice handles the country and sentiment dimensions: empty or the
// "all" sentinel imposes no constraint, otherwise case-insensitive equality.
func matchChoice(value, selected string) bool {
	if selected == "" || strings.EqualFold(selected, allSentinel) {
		return true
	}
	return strings.EqualFold(value, selected)
}

func matchLeader(a *model.Article, leader string) bool {
	if leader == "" || strings.EqualFold(leader, allSentinel) {
		return true
	}
	return strings.EqualFold(leaderName(a.AMEALeader), leader) ||
		strings.EqualFold(leaderName(a.AMEAExecutive), leader)
}

// matchDate compares at day granularity. With only a start date the
// article must fall on exactly that day; with both bounds the article
// must fall within [start, end] inclusive. Articles whose date string
// does not parse are excluded, never raised to the caller.
func (e *Engine) matchDate(a *model.Article, start, end string) bool {
	from := e.parseCriteriaDate(start)
	to := e.parseCriteriaDate(end)
	if from.IsZero() && to.IsZero() {
		return true
	}

	day, err := time.Parse(model.DateLayout, strings.TrimSpace(a.Date))
	if err != nil {
		e.log.Warn("unparseable article date", "hyperlink", a.Hyperlink, "date", a.Date, "error", err)
		return false
	}

	switch {
	case !from.IsZero() && to.IsZero():
		return day.Equal(from)
	case from.IsZero():
		return !day.After(to)
	default:
		return !day.Before(from) && !day.After(to)
	}
}

// parseCriteriaDate treats a blank or malformed bound as unset.
func (e *Engine) parseCriteriaDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		e.log.Warn("unparseable criteria date, ignoring bound", "date", s, "error", err)
		return time.Time{}
	}
	return t
}

// leaderName normalizes a leadership-mention field: the literal "None"
// (case-insensitive) and blanks both mean no mention.
func leaderName(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "none") {
		return ""
	}
	return s
}

// Page returns the 1-based page p of size n from items. Out-of-range
// pages yield an empty slice rather than panicking.
func Page(items []model.Article, p, n int) []model.Article {
	if n <= 0 || p < 1 {
		return nil
	}
	start := (p - 1) * n
	if start >= len(items) {
		return nil
	}
	end := start + n
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// TotalPages returns how many pages of size n cover total items.
func TotalPages(total, n int) int {
	if n <= 0 || total <= 0 {
		return 0
	}
	return (total + n - 1) / n
}

// ShareOfVoice aggregates the filtered (not paginated) set by company.
// Groups are keyed on the trimmed, lower-cased company name; an empty
// company falls into the "Unknown Company" bucket. An empty input yields
// an empty breakdown. Results are ordered by percentage descending, then
// count descending, then display name ascending.
func ShareOfVoice(filtered []model.Article) []model.ShareOfVoiceEntry {
	if len(filtered) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, a := range filtered {
		key := strings.ToLower(strings.TrimSpace(a.Company))
		if key == "" {
			key = UnknownCompany
		}
		counts[key]++
	}

	total := len(filtered)
	entries := make([]model.ShareOfVoiceEntry, 0, len(counts))
	for key, count := range counts {
		entries = append(entries, model.ShareOfVoiceEntry{
			CompanyName: titleCase(key),
			Count:       count,
			Percentage:  100 * float64(count) / float64(total),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Percentage != entries[j].Percentage {
			return entries[i].Percentage > entries[j].Percentage
		}
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].CompanyName < entries[j].CompanyName
	})
	return entries
}

// titleCase capitalizes the first letter of each whitespace-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
