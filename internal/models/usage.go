package models

import (
	"strings"
	"time"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/constants"
)

// UsageScope names a daily AI-call counter: one per user plus one global.
type UsageScope string

const GlobalScope UsageScope = constants.GlobalUsageScope

func UserScope(userID string) UsageScope {
	return UsageScope(constants.UserUsageScopePref + userID)
}

// UserID returns the owner of a per-user scope, or "" for the global scope.
func (s UsageScope) UserID() string {
	if !strings.HasPrefix(string(s), constants.UserUsageScopePref) {
		return ""
	}
	return strings.TrimPrefix(string(s), constants.UserUsageScopePref)
}

// UsageCounter is a monotonic count of AI calls under a UTC date key.
type UsageCounter struct {
	Scope   UsageScope `json:"scope"`
	DateKey string     `json:"date_key"`
	Count   int        `json:"count"`
}

// DateKey is the UTC calendar date used to bucket usage counters.
func DateKey(t time.Time) string {
	return t.UTC().Format(constants.DateFormat)
}
