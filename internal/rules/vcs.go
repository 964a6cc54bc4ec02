package rules

import "github.com/issuehound/issuehound/internal/types"

func vcsRules() []Rule {
	return []Rule{
		// PAT formats evolve; cover ghp_, gho_, ghu_, ghs_, ghr_
		mustRule("github_token", `g(hp|ho|hu|hs|hr)_[A-Za-z0-9]{32,40}`, types.CatToken, types.SevHigh),
		mustRule("github_fine_grained_pat", `github_pat_[A-Za-z0-9_]{82}`, types.CatToken, types.SevHigh),
		mustRule("gitlab_token", `glpat-[A-Za-z0-9\-_]{20,}`, types.CatToken, types.SevHigh),
		mustRule("bitbucket_app_password", `(?i)bitbucket[a-z0-9_\- ]*["'\s:=]+[A-Za-z0-9]{20,34}`, types.CatCredential, types.SevMed),
		mustRule("npm_token", `npm_[A-Za-z0-9]{36}`, types.CatToken, types.SevHigh),
	}
}
