package assistant

import "github.com/akuaasantewaa/fitta/store"

// emergencyTemplate is returned for every urgent turn regardless of role.
const emergencyTemplate = "I'm sorry to hear that. Your safety comes first: " +
	"if anyone is hurt, call emergency services right away. " +
	"I've flagged your message as urgent and our response team has been notified. " +
	"Please share your location and we will dispatch the nearest partner garage " +
	"or tow service to you as quickly as possible."

// apologyTemplate is appended when reply generation itself fails.
const apologyTemplate = "Sorry, something went wrong on my end while " +
	"preparing a reply. Please try sending your message again."

// replyTemplates maps (role, intent) to a canned paragraph.
var replyTemplates = map[store.Role]map[Intent]string{
	store.RoleVehicleOwner: {
		IntentSchedule: "You can book a service from your dashboard under " +
			"Schedule Service. Pick the service type, a garage near you, and a " +
			"time slot that works, and you'll get a confirmation with the " +
			"garage's details right away.",
		IntentPricing: "Pricing depends on the service and your vehicle. " +
			"Diagnostics start at a fixed call-out fee, and you always see the " +
			"full quote before any work begins. Open Pricing on your dashboard " +
			"for the current rate card.",
		IntentStatus: "You can follow your repair in real time under My " +
			"Requests. Each job shows its current stage, and the garage posts " +
			"an update whenever the status changes. You'll also get a " +
			"notification the moment your vehicle is ready.",
	},
	store.RoleGaragePartner: {
		IntentJobs: "New job requests appear in your Jobs queue the moment a " +
			"vehicle owner books near you. Accept a job to lock it in, or let " +
			"it pass to the next available partner. Accepted jobs show the " +
			"owner's contact and the vehicle details.",
		IntentPayout: "Completed jobs are settled to your registered account " +
			"on the next payout cycle. Your running balance and settlement " +
			"history are under Earnings, and you can request an early " +
			"withdrawal once a job is confirmed complete.",
		IntentSchedule: "Keep your availability up to date under Calendar so " +
			"we only route jobs you can take. You can block out hours or whole " +
			"days, and changes take effect immediately.",
	},
	store.RoleInsurance: {
		IntentCoverage: "Policy and coverage details for any insured vehicle " +
			"are under Policies. You can check what a plan covers, its premium " +
			"schedule, and renewal dates, and push renewal reminders to the " +
			"vehicle owner from there.",
		IntentClaims: "Open claims are listed under Claims with their repair " +
			"estimates and supporting photos from the garage. You can request " +
			"a re-assessment, approve the estimate, or settle directly to the " +
			"partner garage.",
	},
	store.RoleAdmin: {
		IntentReports: "Platform reports are under Analytics: bookings, " +
			"completion rates, partner performance, and revenue, with weekly " +
			"and monthly rollups. Any view can be exported for the period you " +
			"select.",
		IntentAccounts: "User and partner accounts are managed under " +
			"Accounts. You can verify new garage partners, suspend or restore " +
			"any account, and review the onboarding queue from there.",
	},
}

// defaultMenus is the per-role capability menu used when no bucket
// matches.
var defaultMenus = map[store.Role]string{
	store.RoleVehicleOwner: "I can help you book a service, check pricing, " +
		"or track the status of a repair. What would you like to do?",
	store.RoleGaragePartner: "I can help you with incoming job requests, " +
		"your payouts and earnings, or your availability calendar. What " +
		"would you like to do?",
	store.RoleInsurance: "I can help you look up policy coverage or work " +
		"through open claims and assessments. What would you like to do?",
	store.RoleAdmin: "I can help you with platform reports and analytics " +
		"or with managing user and partner accounts. What would you like " +
		"to do?",
}

// greetingReplies greet by role before offering the menu.
var greetingReplies = map[store.Role]string{
	store.RoleVehicleOwner:  "Hello! I'm your vehicle service assistant. ",
	store.RoleGaragePartner: "Hello! I'm your partner assistant. ",
	store.RoleInsurance:     "Hello! I'm your claims and coverage assistant. ",
	store.RoleAdmin:         "Hello! I'm your platform assistant. ",
}

// templateFor resolves the canned reply for a classified turn.
func templateFor(role store.Role, c Classification) string {
	if c.Intent == IntentEmergency {
		return emergencyTemplate
	}
	if c.Intent == IntentGreeting {
		return greetingReplies[role] + defaultMenus[role]
	}
	if reply, ok := replyTemplates[role][c.Intent]; ok {
		return reply
	}
	return defaultMenus[role]
}
