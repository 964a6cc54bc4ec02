package rules

import "github.com/issuehound/issuehound/internal/types"

func paymentRules() []Rule {
	return []Rule{
		mustRule("stripe_secret_key", `sk_live_[0-9a-zA-Z]{24,99}`, types.CatKey, types.SevHigh),
		mustRule("stripe_restricted_key", `rk_live_[0-9a-zA-Z]{24,99}`, types.CatKey, types.SevHigh),
		mustRule("square_access_token", `sq0atp-[0-9A-Za-z\-_]{22}`, types.CatToken, types.SevHigh),
		mustRule("square_oauth_secret", `sq0csp-[0-9A-Za-z\-_]{43}`, types.CatCredential, types.SevHigh),
		mustRule("paypal_braintree_token", `access_token\$production\$[0-9a-z]{16}\$[0-9a-f]{32}`, types.CatToken, types.SevHigh),
	}
}
