package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/clock"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/config"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/engine"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/generator"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/logger"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/storage"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/sweep"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/usage"
)

type Context struct {
	Store      storage.Provider
	Config     config.Config
	ConfigPath string
	Clock      clock.Clock

	// NewGenerator overrides provider construction. Tests set it.
	NewGenerator func(generator.Config) (generator.Generator, error)
}

// Migrator is implemented by the SQL-backed stores.
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current, latest int, err error)
}

// Generator builds the configured AI provider. Without an API key it
// returns generator.Unavailable, so simple intents still run and AI intents
// are recorded as errors.
func (c *Context) Generator() generator.Generator {
	key, err := c.Config.ResolveAPIKey()
	if err != nil {
		logger.Warn("Failed to read AI API key from keyring", "error", err)
	}

	build := c.NewGenerator
	if build == nil {
		build = generator.New
	}
	gen, err := build(generator.Config{
		Provider:  c.Config.AI.Provider,
		APIKey:    key,
		Model:     c.Config.AI.Model,
		BaseURL:   c.Config.AI.BaseURL,
		MaxTokens: c.Config.AI.MaxTokens,
	})
	if err != nil {
		logger.Warn("AI provider unavailable", "provider", c.Config.AI.Provider, "error", err)
		return generator.Unavailable{Reason: err}
	}
	return gen
}

// Engine wires an execution engine over the context's store.
func (c *Context) Engine() *engine.Engine {
	return engine.New(c.Store, c.Generator(), c.clock(), engine.Config{
		Caps: usage.Caps{
			User:   c.Config.Engine.UserDailyCap,
			Global: c.Config.Engine.GlobalDailyCap,
		},
		AITimeout: c.Config.AI.Timeout,
	})
}

// Sweeper wires a sweeper around eng.
func (c *Context) Sweeper(eng *engine.Engine) *sweep.Sweeper {
	return sweep.New(c.Store, eng, c.clock(), c.Config.Engine.BatchSize)
}

// Now returns the current time from the context's clock.
func (c *Context) Now() time.Time { return c.clock().Now() }

func (c *Context) clock() clock.Clock {
	if c.Clock == nil {
		return clock.Real{}
	}
	return c.Clock
}

// ParseWeekdays parses a comma-separated list of weekdays
func ParseWeekdays(s string) ([]time.Weekday, error) {
	parts := strings.Split(s, ",")
	var weekdays []time.Weekday

	dayMap := map[string]time.Weekday{
		"sun":       time.Sunday,
		"sunday":    time.Sunday,
		"mon":       time.Monday,
		"monday":    time.Monday,
		"tue":       time.Tuesday,
		"tuesday":   time.Tuesday,
		"wed":       time.Wednesday,
		"wednesday": time.Wednesday,
		"thu":       time.Thursday,
		"thursday":  time.Thursday,
		"fri":       time.Friday,
		"friday":    time.Friday,
		"sat":       time.Saturday,
		"saturday":  time.Saturday,
	}

	for _, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))
		if wd, ok := dayMap[part]; ok {
			weekdays = append(weekdays, wd)
		} else {
			// Try parsing as number (0=Sunday, 6=Saturday)
			num, err := strconv.Atoi(part)
			if err == nil && num >= 0 && num <= 6 {
				weekdays = append(weekdays, time.Weekday(num))
			} else {
				return nil, fmt.Errorf("invalid weekday: %s", part)
			}
		}
	}

	return weekdays, nil
}

// FormatTimestamp renders t in UTC for tables, or "-" when unset.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04 MST")
}

// Truncate shortens s to n runes with an ellipsis.
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
