package testserver

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/bridge"
)

// periodSpec is a parsed ISO-8601 period, reduced to the calendar units the
// automatic-event recipes use.
type periodSpec struct {
	years  int
	months int
	days   int
}

// parsePeriod parses a single-component ISO-8601 period of the form
// P<n>Y, P<n>M, P<n>W, or P<n>D. Weeks are normalized to days so every
// component applies through calendar arithmetic.
func parsePeriod(value string) (periodSpec, error) {
	if len(value) < 3 || value[0] != 'P' {
		return periodSpec{}, bridge.NewError(bridge.KindBadRequest, fmt.Sprintf("invalid period %q", value))
	}
	amount, err := strconv.Atoi(value[1 : len(value)-1])
	if err != nil || amount < 0 {
		return periodSpec{}, bridge.NewError(bridge.KindBadRequest, fmt.Sprintf("invalid period amount in %q", value))
	}
	switch value[len(value)-1] {
	case 'Y':
		return periodSpec{years: amount}, nil
	case 'M':
		return periodSpec{months: amount}, nil
	case 'W':
		return periodSpec{days: amount * 7}, nil
	case 'D':
		return periodSpec{days: amount}, nil
	default:
		return periodSpec{}, bridge.NewError(bridge.KindBadRequest, fmt.Sprintf("invalid period unit in %q", value))
	}
}

// parseRecipe splits an automatic-event recipe "<anchor>:P<period>" into
// its anchor event id and parsed period.
func parseRecipe(recipe string) (string, periodSpec, error) {
	anchor, period, found := strings.Cut(recipe, ":")
	if !found || anchor == "" {
		return "", periodSpec{}, bridge.NewError(bridge.KindBadRequest, fmt.Sprintf("invalid automatic event recipe %q", recipe))
	}
	spec, err := parsePeriod(period)
	if err != nil {
		return "", periodSpec{}, err
	}
	return anchor, spec, nil
}

// materializeBuiltinEvents records the events every account starts with.
// The enrollment instant doubles as the study start date in the default
// configuration.
func materializeBuiltinEvents(acct *account) {
	acct.Events[bridge.EventCreatedOn] = acct.CreatedOn
	if acct.Consented {
		acct.Events[bridge.EventEnrollment] = acct.CreatedOn
		acct.Events[bridge.EventStudyStartDate] = acct.CreatedOn
	}
}

// expandAutomaticEvents materializes one custom event per recipe whose
// anchor already exists on the account. Recipes run once, at account
// creation, against the tenant configuration as patched at that moment.
func expandAutomaticEvents(acct *account, recipes map[string]string) {
	for key, recipe := range recipes {
		anchor, spec, err := parseRecipe(recipe)
		if err != nil {
			continue
		}
		anchorTime, ok := acct.Events[anchor]
		if !ok {
			continue
		}
		acct.Events[bridge.CustomEventPrefix+key] = anchorTime.AddDate(spec.years, spec.months, spec.days)
	}
}

// upsertCustomEvent validates the key against the declared custom-event
// keys and overwrites any prior timestamp for the same key. The timestamp
// round-trips through epoch millis, matching the persistence model.
func (s *store) upsertCustomEvent(acct *account, req bridge.CustomActivityEventRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	declared := false
	for _, key := range s.app.ActivityEventKeys {
		if key == req.EventKey {
			declared = true
			break
		}
	}
	if !declared {
		return bridge.NewError(bridge.KindBadRequest, fmt.Sprintf("activity event key %q is not declared", req.EventKey))
	}
	if req.Timestamp.IsZero() {
		return bridge.NewError(bridge.KindBadRequest, "timestamp is required")
	}
	acct.Events[bridge.CustomEventPrefix+req.EventKey] = bridge.FromMillis(req.Timestamp.Millis())
	return nil
}

// eventList renders an account's events sorted by event id, so the
// participant's and the researcher's views are structurally identical.
func (s *store) eventList(acct *account) bridge.ActivityEventList {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]bridge.ActivityEvent, 0, len(acct.Events))
	for id, ts := range acct.Events {
		items = append(items, bridge.ActivityEvent{EventID: id, Timestamp: ts})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].EventID < items[j].EventID
	})
	return bridge.ActivityEventList{Items: items}
}
