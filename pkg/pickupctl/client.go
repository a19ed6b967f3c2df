package pickupctl

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/amidulanjana/smart-classroom-sub000/pkg/pickup"
)

// Client talks to the pickup escalation API.
type Client struct {
	rest *resty.Client
}

// NewClient creates a client against the given server base URL.
func NewClient(server string) (*Client, error) {
	if server == "" {
		return nil, errors.New("server is required")
	}
	rest := resty.New().
		SetBaseURL(server).
		SetTimeout(30 * time.Second).
		SetHeader("User-Agent", "pickupctl")
	return &Client{rest: rest}, nil
}

type apiError struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details"`
}

func (e *apiError) text() string {
	if e.Details != "" {
		return e.Error + ": " + e.Details
	}
	return e.Error
}

// StartEventRequest mirrors the API's start payload.
type StartEventRequest struct {
	ClassID         string    `json:"classId"`
	InitiatorID     string    `json:"initiatorId"`
	Reason          string    `json:"reason,omitempty"`
	OriginalEndTime time.Time `json:"originalEndTime,omitempty"`
	NewPickupTime   time.Time `json:"newPickupTime"`
}

// StartEventResponse is the API's start result.
type StartEventResponse struct {
	Event   *pickup.PickupEvent  `json:"event"`
	Summary *pickup.StartSummary `json:"summary"`
}

// StartEvent opens a pickup event for a class.
func (c *Client) StartEvent(ctx context.Context, req StartEventRequest) (*StartEventResponse, error) {
	var out StartEventResponse
	var apiErr apiError
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/pickup/events")
	if err != nil {
		return nil, errors.Wrap(err, "starting pickup event")
	}
	if resp.IsError() {
		return nil, errors.Errorf("server returned %s: %s", resp.Status(), apiErr.text())
	}
	return &out, nil
}

// GetStatus fetches the full event aggregate.
func (c *Client) GetStatus(ctx context.Context, eventID string) (*pickup.PickupEvent, error) {
	var out pickup.PickupEvent
	var apiErr apiError
	resp, err := c.rest.R().
		SetContext(ctx).
		SetPathParam("event", eventID).
		SetResult(&out).
		SetError(&apiErr).
		Get("/api/pickup/events/{event}")
	if err != nil {
		return nil, errors.Wrap(err, "loading pickup event")
	}
	if resp.IsError() {
		return nil, errors.Errorf("server returned %s: %s", resp.Status(), apiErr.text())
	}
	return &out, nil
}

// GetReport fetches the completion report.
func (c *Client) GetReport(ctx context.Context, eventID string) (*pickup.CompletionReport, error) {
	var out pickup.CompletionReport
	var apiErr apiError
	resp, err := c.rest.R().
		SetContext(ctx).
		SetPathParam("event", eventID).
		SetResult(&out).
		SetError(&apiErr).
		Get("/api/pickup/events/{event}/report")
	if err != nil {
		return nil, errors.Wrap(err, "loading pickup report")
	}
	if resp.IsError() {
		return nil, errors.Errorf("server returned %s: %s", resp.Status(), apiErr.text())
	}
	return &out, nil
}

// Respond applies a guardian response on behalf of the school office.
func (c *Client) Respond(ctx context.Context, eventID, studentID, guardianID string, accept bool) (*pickup.RespondOutcome, error) {
	var out pickup.RespondOutcome
	var apiErr apiError
	resp, err := c.rest.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"event": eventID, "student": studentID}).
		SetBody(map[string]interface{}{"guardianId": guardianID, "accept": accept}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/pickup/events/{event}/students/{student}/respond")
	if err != nil {
		return nil, errors.Wrap(err, "applying guardian response")
	}
	if resp.IsError() {
		return nil, errors.Errorf("server returned %s: %s", resp.Status(), apiErr.text())
	}
	return &out, nil
}

// MarkPickedUp records the physical handover.
func (c *Client) MarkPickedUp(ctx context.Context, eventID, studentID, actorID string) (*pickup.StudentEscalation, error) {
	var out pickup.StudentEscalation
	var apiErr apiError
	resp, err := c.rest.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"event": eventID, "student": studentID}).
		SetBody(map[string]interface{}{"actorId": actorID}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/pickup/events/{event}/students/{student}/pickup")
	if err != nil {
		return nil, errors.Wrap(err, "marking student picked up")
	}
	if resp.IsError() {
		return nil, errors.Errorf("server returned %s: %s", resp.Status(), apiErr.text())
	}
	return &out, nil
}
