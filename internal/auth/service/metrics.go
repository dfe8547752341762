package service

import (
	"github.com/authgate/authgate/internal/observability/metrics"
)

func incrementUsersRegistered() {
	metrics.UsersRegistered.Inc()
}

func incrementLoginFailures() {
	metrics.LoginFailures.Inc()
}

func incrementSessionsCreated() {
	metrics.SessionsCreated.Inc()
}

func incrementSessionsResolved() {
	metrics.SessionsResolved.Inc()
}

func incrementSessionsDestroyed() {
	metrics.SessionsDestroyed.Inc()
}

func incrementSessionsExpired() {
	metrics.SessionsExpired.Inc()
}
