package api

import (
	"context"
	"fmt"

	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/bridge"
)

// ForResearchersAPI groups the operations a researcher performs on behalf
// of participants.
type ForResearchersAPI struct {
	client *Client
}

// NewForResearchersAPI returns the researcher capability group.
func NewForResearchersAPI(c *Client) *ForResearchersAPI {
	return &ForResearchersAPI{client: c}
}

// GetActivityEventsForParticipant returns a participant's activity events.
func (a *ForResearchersAPI) GetActivityEventsForParticipant(ctx context.Context, userID string) (*bridge.ActivityEventList, error) {
	list := &bridge.ActivityEventList{}
	path := fmt.Sprintf("/v3/participants/%s/activityevents", userID)
	if err := a.client.get(ctx, path, list); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateActivityEventForParticipant submits a custom event on behalf of a
// participant, with the same upsert semantics as self-submission.
func (a *ForResearchersAPI) CreateActivityEventForParticipant(ctx context.Context, userID string, req bridge.CustomActivityEventRequest) error {
	path := fmt.Sprintf("/v3/participants/%s/activityevents", userID)
	return a.client.post(ctx, path, req, nil)
}
