package storage

import (
	"time"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
)

// Provider is the document store behind the engine. Every per-user entity is
// addressed by its owner; implementations never infer ownership from payloads.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Intents
	AddIntent(models.Intent) error
	GetIntent(ref models.IntentRef) (models.Intent, error)
	ListIntents(userID string) ([]models.Intent, error)
	// AllIntents lists every owner's intents. Used by diagnostics only.
	AllIntents() ([]models.Intent, error)
	// QueryDueIntents returns enabled intents with NextRunAtUTC <= now, oldest
	// first, at most limit of them.
	QueryDueIntents(now time.Time, limit int) ([]models.Intent, error)
	// SetIntentEnabled toggles enablement only. It is the user-facing switch.
	SetIntentEnabled(ref models.IntentRef, enabled bool, updatedAt time.Time) error
	// UpdateNextRun and DisableIntent are system writes issued by the schedule
	// advancer.
	UpdateNextRun(ref models.IntentRef, next time.Time, updatedAt time.Time) error
	DisableIntent(ref models.IntentRef, updatedAt time.Time) error

	// Executions
	GetExecution(userID, key string) (models.ExecutionRecord, error)
	// SaveExecution writes a record under its deterministic key. A
	// skipped_disabled record may be superseded; every other record is
	// write-once and a second write is a no-op.
	SaveExecution(models.ExecutionRecord) error
	ListExecutions(userID string, limit int) ([]models.ExecutionRecord, error)

	// Drafts
	AddDraft(models.Draft) error
	ListDrafts(userID string, limit int) ([]models.Draft, error)

	// Usage counters
	GetUsage(scope models.UsageScope, dateKey string) (int, error)
	// IncrementUsage adds delta atomically without a read-modify-write.
	IncrementUsage(scope models.UsageScope, dateKey string, delta int) error

	// Utils
	GetConfigPath() string
}
