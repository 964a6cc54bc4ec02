package rules

import "github.com/issuehound/issuehound/internal/types"

func cloudRules() []Rule {
	return []Rule{
		mustRule("aws_access_key", `(A3T[A-Z0-9]|AKIA|AGPA|AIDA|AROA|AIPA|ANPA|ANVA|ASIA)[0-9A-Z]{16}`, types.CatCredential, types.SevHigh),
		// Broad on its own; anchored on the key name to cut noise.
		mustRule("aws_secret_key", `(?i)aws[_\-\. ]?(secret)?[_\-\. ]?(access)?[_\-\. ]?key["'\s:=]+[A-Za-z0-9/+=]{40}`, types.CatCredential, types.SevHigh),
		mustRule("amazon_mws_token", `amzn\.mws\.[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`, types.CatToken, types.SevHigh),
		mustRule("google_api_key", `AIza[0-9A-Za-z\-_]{35}`, types.CatKey, types.SevHigh),
		mustRule("google_oauth_token", `ya29\.[0-9A-Za-z\-_]+`, types.CatToken, types.SevHigh),
		mustRule("gcp_service_account", `"type": ?"service_account"`, types.CatCredential, types.SevHigh),
		mustRule("heroku_api_key", `(?i)heroku[a-z0-9_\- ]*["'\s:=]+[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`, types.CatKey, types.SevMed),
		mustRule("azure_storage_key", `(?i)(AccountKey|azure[_\-\. ]?storage[_\-\. ]?key)["'\s:=]+[A-Za-z0-9/+]{86}==`, types.CatKey, types.SevHigh),
	}
}
