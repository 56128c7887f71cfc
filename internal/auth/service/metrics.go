package service

import "github.com/taskcrate/backend/internal/observability/metrics"

func incrementAccessTokensIssued() {
	metrics.AccessTokensIssued.Inc()
}

func incrementUsersRegistered() {
	metrics.UsersRegistered.Inc()
}

func incrementLoginAttempt(outcome string) {
	metrics.LoginAttemptsTotal.WithLabelValues(outcome).Inc()
}
