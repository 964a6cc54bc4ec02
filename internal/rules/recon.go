package rules

import "github.com/issuehound/issuehound/internal/types"

// reconRules feed the URL/IP extraction mode rather than flagging secrets
// directly, so they stay at low severity.
func reconRules() []Rule {
	return []Rule{
		mustRule("url", `https?://(?:[-\w.]|(?:%[\da-fA-F]{2}))+(?:/[-\w._~:/?#\[\]@!$&'()*+,;=]*)?`, types.CatURL, types.SevLow),
		mustRule("ipv4", `\b(?:\d{1,3}\.){3}\d{1,3}\b`, types.CatIP, types.SevLow),
	}
}
