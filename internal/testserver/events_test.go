package testserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/bridge"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		value string
		want  periodSpec
		ok    bool
	}{
		{"P2W", periodSpec{days: 14}, true},
		{"P10D", periodSpec{days: 10}, true},
		{"P3M", periodSpec{months: 3}, true},
		{"P1Y", periodSpec{years: 1}, true},
		{"P0W", periodSpec{}, true},
		{"2W", periodSpec{}, false},
		{"P2X", periodSpec{}, false},
		{"PW", periodSpec{}, false},
		{"P-1W", periodSpec{}, false},
		{"", periodSpec{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			spec, err := parsePeriod(tc.value)
			if !tc.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, spec)
		})
	}
}

func TestParseRecipe(t *testing.T) {
	anchor, spec, err := parseRecipe("enrollment:P2W")
	require.NoError(t, err)
	assert.Equal(t, "enrollment", anchor)
	assert.Equal(t, periodSpec{days: 14}, spec)

	_, _, err = parseRecipe("enrollment")
	assert.Error(t, err)

	_, _, err = parseRecipe(":P2W")
	assert.Error(t, err)
}

func TestMaterializeBuiltinEvents(t *testing.T) {
	consented := &account{
		Consented: true,
		CreatedOn: bridge.Now(),
		Events:    map[string]bridge.DateTime{},
	}
	materializeBuiltinEvents(consented)
	assert.True(t, consented.Events[bridge.EventCreatedOn].Equal(consented.CreatedOn))
	assert.True(t, consented.Events[bridge.EventStudyStartDate].Equal(consented.Events[bridge.EventEnrollment]))

	unconsented := &account{
		CreatedOn: bridge.Now(),
		Events:    map[string]bridge.DateTime{},
	}
	materializeBuiltinEvents(unconsented)
	_, hasEnrollment := unconsented.Events[bridge.EventEnrollment]
	assert.False(t, hasEnrollment, "unconsented account should have no enrollment event")
	_, hasCreatedOn := unconsented.Events[bridge.EventCreatedOn]
	assert.True(t, hasCreatedOn)
}

func TestExpandAutomaticEvents(t *testing.T) {
	acct := &account{
		Consented: true,
		CreatedOn: bridge.Now(),
		Events:    map[string]bridge.DateTime{},
	}
	materializeBuiltinEvents(acct)

	expandAutomaticEvents(acct, map[string]string{
		"2-weeks-after": "enrollment:P2W",
		"bad-recipe":    "enrollment",
		"orphan-anchor": "no_such_event:P1W",
		"month-after":   "created_on:P1M",
	})

	enrollment := acct.Events[bridge.EventEnrollment]

	twoWeeks, ok := acct.Events["custom:2-weeks-after"]
	require.True(t, ok)
	assert.True(t, twoWeeks.Equal(enrollment.AddDate(0, 0, 14)))
	assert.Equal(t, 2, bridge.WeeksBetween(enrollment, twoWeeks.Add(time.Hour)))

	monthAfter, ok := acct.Events["custom:month-after"]
	require.True(t, ok)
	assert.True(t, monthAfter.Equal(acct.CreatedOn.AddDate(0, 1, 0)))

	_, ok = acct.Events["custom:bad-recipe"]
	assert.False(t, ok, "unparseable recipe should be skipped")
	_, ok = acct.Events["custom:orphan-anchor"]
	assert.False(t, ok, "recipe with unknown anchor should be skipped")
}

func TestUpsertCustomEvent(t *testing.T) {
	s := newStore(bridge.App{
		Identifier:        "api",
		ActivityEventKeys: []string{"event1"},
	}, bridge.Study{})

	acct, err := s.createAccount(bridge.SignUp{Email: "u@example.org", Password: "pw", Consent: true})
	require.NoError(t, err)

	first := bridge.Now().Add(-4 * time.Hour)
	require.NoError(t, s.upsertCustomEvent(acct, bridge.CustomActivityEventRequest{
		EventKey:  "event1",
		Timestamp: first,
	}))
	assert.True(t, acct.Events["custom:event1"].Equal(first))

	// Same key again: the latest submission wins, no second event.
	second := bridge.Now()
	require.NoError(t, s.upsertCustomEvent(acct, bridge.CustomActivityEventRequest{
		EventKey:  "event1",
		Timestamp: second,
	}))
	assert.True(t, acct.Events["custom:event1"].Equal(second))

	err = s.upsertCustomEvent(acct, bridge.CustomActivityEventRequest{
		EventKey:  "undeclared",
		Timestamp: second,
	})
	assert.True(t, bridge.IsKind(err, bridge.KindBadRequest))
}

func TestEventListIsSortedAndStable(t *testing.T) {
	s := newStore(bridge.App{
		Identifier:        "api",
		ActivityEventKeys: []string{"event1"},
	}, bridge.Study{})
	acct, err := s.createAccount(bridge.SignUp{Email: "u@example.org", Password: "pw", Consent: true})
	require.NoError(t, err)

	list := s.eventList(acct)
	require.NotEmpty(t, list.Items)
	for i := 1; i < len(list.Items); i++ {
		assert.Less(t, list.Items[i-1].EventID, list.Items[i].EventID)
	}
	assert.Equal(t, list, s.eventList(acct), "two reads should render identically")
}
