package rules

import "github.com/issuehound/issuehound/internal/types"

func uriRules() []Rule {
	return []Rule{
		mustRule("postgres_uri_creds", `postgres(ql)?://[^\s:/@]+:[^\s:/@]+@[^\s/@]+`, types.CatCredential, types.SevHigh),
		mustRule("mysql_uri_creds", `mysql://[^\s:/@]+:[^\s:/@]+@[^\s/@]+`, types.CatCredential, types.SevHigh),
		mustRule("mongodb_uri_creds", `mongodb(\+srv)?://[^\s:/@]+:[^\s:/@]+@[^\s/@]+`, types.CatCredential, types.SevHigh),
		mustRule("redis_uri_creds", `redis://[^\s:/@]*:[^\s:/@]+@[^\s/@]+`, types.CatCredential, types.SevHigh),
		mustRule("amqp_uri_creds", `amqps?://[^\s:/@]+:[^\s:/@]+@[^\s/@]+`, types.CatCredential, types.SevHigh),
		mustRule("basic_auth_url", `https?://[^\s:/@]+:[^\s:/@]+@[^\s/@]+`, types.CatCredential, types.SevMed),
	}
}
