package rules

import "github.com/issuehound/issuehound/internal/types"

func genericRules() []Rule {
	return []Rule{
		mustRule("generic_api_key", `(?i)api[_\-]?key["'\s:=]+[A-Za-z0-9\-_]{16,64}`, types.CatGeneric, types.SevMed),
		mustRule("generic_secret", `(?i)secret["'\s:=]+[A-Za-z0-9\-_/+=]{16,64}`, types.CatGeneric, types.SevLow),
		mustRule("password_assignment", `(?i)password["'\s:=]+[^\s"']{8,64}`, types.CatCredential, types.SevLow),
		mustRule("bearer_token", `(?i)bearer +[A-Za-z0-9\-_\.=]{20,}`, types.CatToken, types.SevMed),
	}
}
