// Package model defines the domain types used across the application.
package model

import (
	"fmt"
	"time"
)

// DateLayout is the display format article dates are stored in, e.g. "15-Jun-24".
const DateLayout = "02-Jan-06"

// Flag is a boolean article attribute that accepts both JSON booleans
// and the 0/1 integers some sources emit.
type Flag bool

// UnmarshalJSON decodes true/false, 0/1 and "0"/"1" into a Flag.
func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true", "1", `"1"`:
		*f = true
	case "false", "0", `"0"`, "null":
		*f = false
	default:
		return fmt.Errorf("invalid flag value %q", string(data))
	}
	return nil
}

// MarshalJSON encodes a Flag as a plain boolean.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

// Attribute flag names usable as filter dimensions.
const (
	AttrFinancialPerformance      = "financial_performance"
	AttrInnovation                = "innovation"
	AttrRegulatory                = "regulatory"
	AttrEnvironmentResponsibility = "environment_responsibility"
	AttrSocialResponsibility      = "social_responsibility"
	AttrCommunityResponsibility   = "community_responsibility"
	AttrECommerce                 = "e_commerce"
)

// AttributeKeys lists every attribute flag in a stable order.
var AttributeKeys = []string{
	AttrFinancialPerformance,
	AttrInnovation,
	AttrRegulatory,
	AttrEnvironmentResponsibility,
	AttrSocialResponsibility,
	AttrCommunityResponsibility,
	AttrECommerce,
}

// Article is a single monitored news item. Articles are immutable once
// loaded; filtering produces derived slices, never in-place mutation.
type Article struct {
	Hyperlink                 string `json:"hyperlink"`
	Headline                  string `json:"headline"`
	Summary                   string `json:"summary"`
	Text                      string `json:"text"`
	Outlet                    string `json:"outlet"`
	Source                    string `json:"source"`
	Country                   string `json:"country"`
	Company                   string `json:"company"`
	MediaType                 string `json:"media_type"`
	Date                      string `json:"date"`
	Sentiment                 string `json:"sentiment"`
	Keyword                   string `json:"keyword"`
	FinancialPerformance      Flag   `json:"financial_performance"`
	Innovation                Flag   `json:"innovation"`
	Regulatory                Flag   `json:"regulatory"`
	EnvironmentResponsibility Flag   `json:"environment_responsibility"`
	SocialResponsibility      Flag   `json:"social_responsibility"`
	CommunityResponsibility   Flag   `json:"community_responsibility"`
	ECommerce                 Flag   `json:"e_commerce"`
	AMEALeader                string `json:"AMEA_Leader,omitempty"`
	AMEAExecutive             string `json:"AMEA_Executive,omitempty"`
	LocalLeaders              string `json:"Local_Leaders,omitempty"`
}

// Attribute returns the named boolean attribute flag.
// Unknown names report false.
func (a *Article) Attribute(key string) bool {
	switch key {
	case AttrFinancialPerformance:
		return bool(a.FinancialPerformance)
	case AttrInnovation:
		return bool(a.Innovation)
	case AttrRegulatory:
		return bool(a.Regulatory)
	case AttrEnvironmentResponsibility:
		return bool(a.EnvironmentResponsibility)
	case AttrSocialResponsibility:
		return bool(a.SocialResponsibility)
	case AttrCommunityResponsibility:
		return bool(a.CommunityResponsibility)
	case AttrECommerce:
		return bool(a.ECommerce)
	}
	return false
}

// Criteria is the filter form applied to the article collection.
// The zero value matches every article: empty strings and the "all"
// sentinel mean "no constraint" for their dimension.
type Criteria struct {
	Search     string          `json:"search"`
	Country    string          `json:"country"`
	Sentiment  string          `json:"sentiment"`
	Start      string          `json:"start"`
	End        string          `json:"end"`
	Leader     string          `json:"leader"`
	Attributes map[string]bool `json:"attributes"`
}

// ShareOfVoiceEntry is one company's slice of the filtered set.
// Derived from the filtered articles, never persisted.
type ShareOfVoiceEntry struct {
	CompanyName string  `json:"company_name"`
	Count       int     `json:"count"`
	Percentage  float64 `json:"sov_percentage"`
}

// Sender identifies who authored a chat message.
type Sender string

// Chat message senders.
const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// SourceRef is a citation attached to an AI answer.
type SourceRef struct {
	URL    string `json:"url"`
	Outlet string `json:"outlet"`
}

// ChatMessage is one entry in a conversation transcript.
type ChatMessage struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	Sender    Sender      `json:"sender"`
	Timestamp time.Time   `json:"timestamp"`
	Sources   []SourceRef `json:"sources,omitempty"`
}
