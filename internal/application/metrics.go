package application

import "expvar"

// Counters published on /debug/vars.
var (
	metricRegistrations  = expvar.NewInt("auth_registrations")
	metricLogins         = expvar.NewInt("auth_logins")
	metricLoginsFailed   = expvar.NewInt("auth_logins_failed")
	metricTokensResolved = expvar.NewInt("auth_tokens_resolved")
	metricTokensRejected = expvar.NewInt("auth_tokens_rejected")
	metricPostsCreated   = expvar.NewInt("posts_created")
)
