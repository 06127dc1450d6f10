package api

import (
	"context"

	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/bridge"
)

// ForConsentedUsersAPI groups the operations available to a consented
// participant acting on their own account.
type ForConsentedUsersAPI struct {
	client *Client
}

// NewForConsentedUsersAPI returns the consented-user capability group.
func NewForConsentedUsersAPI(c *Client) *ForConsentedUsersAPI {
	return &ForConsentedUsersAPI{client: c}
}

// GetActivityEvents returns the caller's activity events.
func (a *ForConsentedUsersAPI) GetActivityEvents(ctx context.Context) (*bridge.ActivityEventList, error) {
	list := &bridge.ActivityEventList{}
	if err := a.client.get(ctx, "/v3/activityevents", list); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateCustomActivityEvent submits a custom event for the caller.
// Submissions are upserts keyed on the event key: re-submitting overwrites
// the stored timestamp.
func (a *ForConsentedUsersAPI) CreateCustomActivityEvent(ctx context.Context, req bridge.CustomActivityEventRequest) error {
	return a.client.post(ctx, "/v3/activityevents", req, nil)
}

// GetUsersParticipantRecord returns the caller's participant record.
func (a *ForConsentedUsersAPI) GetUsersParticipantRecord(ctx context.Context) (*bridge.StudyParticipant, error) {
	participant := &bridge.StudyParticipant{}
	if err := a.client.get(ctx, "/v3/users/self/participant", participant); err != nil {
		return nil, err
	}
	return participant, nil
}

// UpdateUsersParticipantRecord updates the caller's participant record and
// returns the stored state.
func (a *ForConsentedUsersAPI) UpdateUsersParticipantRecord(ctx context.Context, participant *bridge.StudyParticipant) (*bridge.StudyParticipant, error) {
	updated := &bridge.StudyParticipant{}
	if err := a.client.post(ctx, "/v3/users/self/participant", participant, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// GetUsersAppConfig returns the caller's effective app config: the unique
// config whose criteria match the caller's data groups. Ambiguous matches
// surface as constraint-violation errors, no match as not-found.
func (a *ForConsentedUsersAPI) GetUsersAppConfig(ctx context.Context) (*bridge.AppConfig, error) {
	cfg := &bridge.AppConfig{}
	if err := a.client.get(ctx, "/v3/users/self/appconfig", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetUsersStudy returns the study the caller belongs to.
func (a *ForConsentedUsersAPI) GetUsersStudy(ctx context.Context) (*bridge.Study, error) {
	study := &bridge.Study{}
	if err := a.client.get(ctx, "/v3/studies/self", study); err != nil {
		return nil, err
	}
	return study, nil
}
