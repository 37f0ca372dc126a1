package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ── Types ────────────────────────────────────────────────────────────────────

// Rules is a map of field → pipe-separated rule string.
// e.g. Rules{"clock.frame_rate": "required|numeric|gt:0"}
type Rules map[string]string

// ValidationError holds every failed rule, keyed by field.
type ValidationError struct {
	Bag map[string][]string
}

func (e *ValidationError) add(field, msg string) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	e.Bag[field] = append(e.Bag[field], msg)
}

// Has returns true if there are any errors.
func (e *ValidationError) Has() bool { return len(e.Bag) > 0 }

// First returns the first error for a field.
func (e *ValidationError) First(field string) string {
	if msgs, ok := e.Bag[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Bag))
	for f := range e.Bag {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, e.Bag[f]...)
	}
	return "config: " + strings.Join(msgs, "; ")
}

// ── Config rules ─────────────────────────────────────────────────────────────

var configRules = Rules{
	"app.name":         "required|max:64",
	"app.env":          "required|in:local,production,testing",
	"clock.frame_rate": "required|numeric|gt:0",
	"clock.fixed_rate": "required|numeric|gt:0",
	"clock.max_delta":  "required|numeric|gt:0",
	"clock.time_scale": "required|numeric|gte:0",
	"clock.run_for":    "required|numeric|gte:0",
	"inspect.addr":     "required",
	"log.level":        "required|in:trace,debug,info,warn,warning,error,off,disabled,none",
}

// Validate checks the loaded values and returns a *ValidationError listing
// every failure.
func (c *Config) Validate() error {
	if err := Validate(c.flatten(), configRules); err != nil {
		return err
	}
	return nil
}

func (c *Config) flatten() map[string]string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return map[string]string{
		"app.name":         c.App.Name,
		"app.env":          c.App.Env,
		"clock.frame_rate": f(c.Clock.FrameRate),
		"clock.fixed_rate": f(c.Clock.FixedRate),
		"clock.max_delta":  f(c.Clock.MaxDelta),
		"clock.time_scale": f(c.Clock.TimeScale),
		"clock.run_for":    f(c.Clock.RunFor),
		"inspect.addr":     c.Inspect.Addr,
		"log.level":        strings.ToLower(c.Log.Level),
	}
}

// ── Validator ────────────────────────────────────────────────────────────────

// Validate runs rules over a flat map of values and returns nil or a
// *ValidationError. Rules for one field stop at the first failure.
func Validate(data map[string]string, rules Rules) error {
	errs := &ValidationError{}
	for field, ruleStr := range rules {
		value := data[field]
		for _, rule := range strings.Split(ruleStr, "|") {
			rule = strings.TrimSpace(rule)
			if rule == "" {
				continue
			}
			// Parse rule name and optional parameter: gt:0 → name=gt, param=0
			name, param, _ := strings.Cut(rule, ":")
			if !applyRule(errs, field, value, name, param) {
				break
			}
		}
	}
	if errs.Has() {
		return errs
	}
	return nil
}

// applyRule returns true if the rule passes.
func applyRule(errs *ValidationError, field, value, rule, param string) bool {
	switch rule {
	case "required":
		if strings.TrimSpace(value) == "" {
			errs.add(field, fmt.Sprintf("The %s field is required.", field))
			return false
		}

	case "numeric":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			errs.add(field, fmt.Sprintf("The %s must be a number.", field))
			return false
		}

	case "boolean":
		if _, err := strconv.ParseBool(value); err != nil {
			errs.add(field, fmt.Sprintf("The %s field must be true or false.", field))
			return false
		}

	case "max":
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) > n {
			errs.add(field, fmt.Sprintf("The %s may not be greater than %d characters.", field, n))
			return false
		}

	case "in":
		for _, a := range strings.Split(param, ",") {
			if strings.TrimSpace(a) == value {
				return true
			}
		}
		errs.add(field, fmt.Sprintf("The selected %s is invalid.", field))
		return false

	case "gt":
		f, _ := strconv.ParseFloat(value, 64)
		t, _ := strconv.ParseFloat(param, 64)
		if f <= t {
			errs.add(field, fmt.Sprintf("The %s must be greater than %s.", field, param))
			return false
		}

	case "gte":
		f, _ := strconv.ParseFloat(value, 64)
		t, _ := strconv.ParseFloat(param, 64)
		if f < t {
			errs.add(field, fmt.Sprintf("The %s must be greater than or equal to %s.", field, param))
			return false
		}
	}

	return true
}
