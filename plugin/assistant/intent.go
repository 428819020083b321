// Package assistant maintains per-conversation transcripts and produces
// a reply to every user turn, either from a remote text-generation
// provider or from rule-based canned templates.
package assistant

import (
	"strings"

	"github.com/akuaasantewaa/fitta/store"
)

// Intent is the rule-matched category of a user turn.
type Intent string

const (
	IntentEmergency Intent = "EMERGENCY"
	IntentSchedule  Intent = "SCHEDULE"
	IntentPricing   Intent = "PRICING"
	IntentStatus    Intent = "STATUS"
	IntentJobs      Intent = "JOBS"
	IntentPayout    Intent = "PAYOUT"
	IntentCoverage  Intent = "COVERAGE"
	IntentClaims    Intent = "CLAIMS"
	IntentReports   Intent = "REPORTS"
	IntentAccounts  Intent = "ACCOUNTS"
	IntentGreeting  Intent = "GREETING"
	IntentUnknown   Intent = "UNKNOWN"
)

// Classification is the outcome of intent matching for one turn.
type Classification struct {
	Intent Intent
	Urgent bool
}

// emergencyKeywords short-circuit every other bucket regardless of role.
var emergencyKeywords = []string{
	"accident", "breakdown", "broke down", "broken down", "stranded",
	"crash", "crashed", "emergency", "tow", "towing", "smoke", "fire",
	"won't start", "wont start", "stuck on",
}

// greetingKeywords match standalone salutations.
var greetingKeywords = []string{
	"hello", "hi", "hey", "good morning", "good afternoon", "good evening",
}

// roleBuckets holds weighted keyword sets per role. Core keywords weigh
// 2, supporting keywords 1; a bucket matches at score >= 2.
var roleBuckets = map[store.Role][]bucket{
	store.RoleVehicleOwner: {
		{IntentSchedule, map[string]int{
			"schedule": 2, "book": 2, "booking": 2, "appointment": 2,
			"service": 1, "maintenance": 1, "garage": 1, "when": 1,
		}},
		{IntentPricing, map[string]int{
			"price": 2, "pricing": 2, "cost": 2, "how much": 2, "quote": 2,
			"fee": 1, "pay": 1, "charge": 1,
		}},
		{IntentStatus, map[string]int{
			"status": 2, "progress": 2, "track": 2, "ready": 2,
			"my car": 1, "repair": 1, "done": 1, "update": 1,
		}},
	},
	store.RoleGaragePartner: {
		{IntentJobs, map[string]int{
			"job": 2, "jobs": 2, "request": 2, "assignment": 2,
			"new": 1, "accept": 1, "pending": 1, "queue": 1,
		}},
		{IntentPayout, map[string]int{
			"payout": 2, "payment": 2, "earnings": 2, "settlement": 2,
			"balance": 1, "withdraw": 1, "transfer": 1,
		}},
		{IntentSchedule, map[string]int{
			"schedule": 2, "calendar": 2, "availability": 2,
			"slot": 1, "hours": 1, "open": 1,
		}},
	},
	store.RoleInsurance: {
		{IntentCoverage, map[string]int{
			"coverage": 2, "policy": 2, "premium": 2, "covered": 2,
			"plan": 1, "renew": 1, "renewal": 1,
		}},
		{IntentClaims, map[string]int{
			"claim": 2, "claims": 2, "assessment": 2, "estimate": 2,
			"damage": 1, "approve": 1, "settle": 1, "file": 1,
		}},
	},
	store.RoleAdmin: {
		{IntentReports, map[string]int{
			"report": 2, "reports": 2, "analytics": 2, "metrics": 2,
			"summary": 1, "weekly": 1, "monthly": 1, "numbers": 1,
		}},
		{IntentAccounts, map[string]int{
			"account": 2, "accounts": 2, "user": 2, "partner": 2,
			"suspend": 1, "approve": 1, "verify": 1, "onboard": 1,
		}},
	},
}

type bucket struct {
	intent   Intent
	keywords map[string]int
}

// Classify maps a user turn onto an intent for the given role. It is a
// pure function with no I/O so the canned path stays unit-testable
// without any remote provider.
func Classify(role store.Role, text string) Classification {
	lower := strings.ToLower(text)

	for _, kw := range emergencyKeywords {
		if strings.Contains(lower, kw) {
			return Classification{Intent: IntentEmergency, Urgent: true}
		}
	}

	var (
		best      Intent
		bestScore int
	)
	for _, b := range roleBuckets[role] {
		score := 0
		for keyword, weight := range b.keywords {
			if strings.Contains(lower, keyword) {
				score += weight
			}
		}
		if score > bestScore {
			best, bestScore = b.intent, score
		}
	}
	if bestScore >= 2 {
		return Classification{Intent: best}
	}

	trimmed := strings.TrimSpace(lower)
	for _, kw := range greetingKeywords {
		if trimmed == kw || strings.HasPrefix(trimmed, kw+" ") ||
			strings.HasPrefix(trimmed, kw+",") || strings.HasPrefix(trimmed, kw+"!") {
			return Classification{Intent: IntentGreeting}
		}
	}

	return Classification{Intent: IntentUnknown}
}
