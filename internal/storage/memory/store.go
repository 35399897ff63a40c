// Package memory is an in-process storage.Provider used by tests. Individual
// operations can be told to fail.
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	apperrors "github.com/Kuldeep-Sharmaa/remindrai/internal/errors"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
)

// Op names a Provider method for fault injection.
type Op string

const (
	OpGetIntent       Op = "GetIntent"
	OpQueryDue        Op = "QueryDueIntents"
	OpUpdateNextRun   Op = "UpdateNextRun"
	OpDisableIntent   Op = "DisableIntent"
	OpGetExecution    Op = "GetExecution"
	OpSaveExecution   Op = "SaveExecution"
	OpAddDraft        Op = "AddDraft"
	OpGetUsage        Op = "GetUsage"
	OpIncrementUsage  Op = "IncrementUsage"
	OpListIntents     Op = "ListIntents"
	OpAllIntents      Op = "AllIntents"
	OpListExecutions  Op = "ListExecutions"
	OpListDrafts      Op = "ListDrafts"
	OpSetIntentEnable Op = "SetIntentEnabled"
)

type Store struct {
	mu         sync.Mutex
	intents    map[models.IntentRef]models.Intent
	executions map[string]models.ExecutionRecord
	drafts     []models.Draft
	usage      map[string]int
	faults     map[Op]error
	calls      map[Op]int
}

func NewStore() *Store {
	return &Store{
		intents:    make(map[models.IntentRef]models.Intent),
		executions: make(map[string]models.ExecutionRecord),
		usage:      make(map[string]int),
		faults:     make(map[Op]error),
		calls:      make(map[Op]int),
	}
}

// Fail makes every later call of op return err. A nil err clears the fault.
func (s *Store) Fail(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

// Calls reports how many times op has been invoked, including failed calls.
func (s *Store) Calls(op Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Seed stores an intent without validation so tests can plant malformed data.
func (s *Store) Seed(intent models.Intent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intents[intent.Ref()] = intent
}

// enter records the call and returns the injected fault, if any. Callers hold mu.
func (s *Store) enter(op Op) error {
	s.calls[op]++
	return s.faults[op]
}

func (s *Store) Init() error           { return nil }
func (s *Store) Load() error           { return nil }
func (s *Store) Close() error          { return nil }
func (s *Store) GetConfigPath() string { return "memory" }

func (s *Store) AddIntent(intent models.Intent) error {
	if err := intent.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.intents[intent.Ref()]; ok {
		return fmt.Errorf("intent %s already exists", intent.Ref())
	}
	s.intents[intent.Ref()] = intent
	return nil
}

func (s *Store) GetIntent(ref models.IntentRef) (models.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpGetIntent); err != nil {
		return models.Intent{}, err
	}
	intent, ok := s.intents[ref]
	if !ok {
		return models.Intent{}, fmt.Errorf("intent %s: %w", ref, apperrors.ErrNotFound)
	}
	return intent, nil
}

func (s *Store) ListIntents(userID string) ([]models.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpListIntents); err != nil {
		return nil, err
	}
	var out []models.Intent
	for _, intent := range s.intents {
		if intent.UserID == userID {
			out = append(out, intent)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) AllIntents() ([]models.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpAllIntents); err != nil {
		return nil, err
	}
	out := make([]models.Intent, 0, len(s.intents))
	for _, intent := range s.intents {
		out = append(out, intent)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) QueryDueIntents(now time.Time, limit int) ([]models.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpQueryDue); err != nil {
		return nil, err
	}
	var due []models.Intent
	for _, intent := range s.intents {
		if intent.Enabled && !intent.NextRunAtUTC.After(now) {
			due = append(due, intent)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].NextRunAtUTC.Equal(due[j].NextRunAtUTC) {
			return due[i].Ref().Path() < due[j].Ref().Path()
		}
		return due[i].NextRunAtUTC.Before(due[j].NextRunAtUTC)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *Store) SetIntentEnabled(ref models.IntentRef, enabled bool, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpSetIntentEnable); err != nil {
		return err
	}
	return s.mutate(ref, func(i *models.Intent) {
		i.Enabled = enabled
		i.UpdatedAt = updatedAt
	})
}

func (s *Store) UpdateNextRun(ref models.IntentRef, next time.Time, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpUpdateNextRun); err != nil {
		return err
	}
	return s.mutate(ref, func(i *models.Intent) {
		i.NextRunAtUTC = next.UTC()
		i.UpdatedAt = updatedAt
	})
}

func (s *Store) DisableIntent(ref models.IntentRef, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpDisableIntent); err != nil {
		return err
	}
	return s.mutate(ref, func(i *models.Intent) {
		i.Enabled = false
		i.UpdatedAt = updatedAt
	})
}

func (s *Store) mutate(ref models.IntentRef, fn func(*models.Intent)) error {
	intent, ok := s.intents[ref]
	if !ok {
		return fmt.Errorf("intent %s: %w", ref, apperrors.ErrNotFound)
	}
	fn(&intent)
	s.intents[ref] = intent
	return nil
}

func executionKey(userID, key string) string {
	return userID + "/" + key
}

func (s *Store) GetExecution(userID, key string) (models.ExecutionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpGetExecution); err != nil {
		return models.ExecutionRecord{}, err
	}
	rec, ok := s.executions[executionKey(userID, key)]
	if !ok {
		return models.ExecutionRecord{}, fmt.Errorf("execution %s: %w", key, apperrors.ErrNotFound)
	}
	return rec, nil
}

func (s *Store) SaveExecution(rec models.ExecutionRecord) error {
	if !rec.Status.Persisted() {
		return fmt.Errorf("execution status %q is not persisted", rec.Status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpSaveExecution); err != nil {
		return err
	}
	k := executionKey(rec.UserID, rec.Key)
	if existing, ok := s.executions[k]; ok && existing.Status != models.StatusSkippedDisabled {
		return nil
	}
	s.executions[k] = rec
	return nil
}

func (s *Store) ListExecutions(userID string, limit int) ([]models.ExecutionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpListExecutions); err != nil {
		return nil, err
	}
	var out []models.ExecutionRecord
	for _, rec := range s.executions {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ExecutedAt.Equal(out[j].ExecutedAt) {
			return out[i].Key > out[j].Key
		}
		return out[i].ExecutedAt.After(out[j].ExecutedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) AddDraft(draft models.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpAddDraft); err != nil {
		return err
	}
	for _, d := range s.drafts {
		if d.ID == draft.ID {
			return fmt.Errorf("draft %s already exists", draft.ID)
		}
	}
	s.drafts = append(s.drafts, draft)
	return nil
}

func (s *Store) ListDrafts(userID string, limit int) ([]models.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpListDrafts); err != nil {
		return nil, err
	}
	var out []models.Draft
	for _, d := range s.drafts {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func usageKey(scope models.UsageScope, dateKey string) string {
	return string(scope) + "@" + dateKey
}

func (s *Store) GetUsage(scope models.UsageScope, dateKey string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpGetUsage); err != nil {
		return 0, err
	}
	return s.usage[usageKey(scope, dateKey)], nil
}

func (s *Store) IncrementUsage(scope models.UsageScope, dateKey string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpIncrementUsage); err != nil {
		return err
	}
	s.usage[usageKey(scope, dateKey)] += delta
	return nil
}
