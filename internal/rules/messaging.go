package rules

import "github.com/issuehound/issuehound/internal/types"

func messagingRules() []Rule {
	return []Rule{
		mustRule("slack_token", `xox[abprs]-[A-Za-z0-9-]{10,48}`, types.CatToken, types.SevHigh),
		mustRule("slack_webhook", `https://hooks\.slack\.com/services/T[A-Za-z0-9_]{8,}/B[A-Za-z0-9_]{8,}/[A-Za-z0-9_]{24}`, types.CatCredential, types.SevHigh),
		mustRule("discord_webhook", `https://discord(app)?\.com/api/webhooks/[0-9]{17,20}/[A-Za-z0-9_\-]{60,}`, types.CatCredential, types.SevHigh),
		mustRule("telegram_bot_token", `[0-9]{8,10}:AA[A-Za-z0-9_\-]{33}`, types.CatToken, types.SevHigh),
		mustRule("twilio_api_key", `SK[0-9a-fA-F]{32}`, types.CatKey, types.SevMed),
		mustRule("sendgrid_api_key", `SG\.[A-Za-z0-9_\-]{22}\.[A-Za-z0-9_\-]{43}`, types.CatKey, types.SevHigh),
		mustRule("mailgun_api_key", `key-[0-9a-zA-Z]{32}`, types.CatKey, types.SevMed),
		mustRule("mailchimp_api_key", `[0-9a-f]{32}-us[0-9]{1,2}`, types.CatKey, types.SevMed),
	}
}
