// Package gateway implements the typed client for the Evolution API.
// All operations authenticate with a single shared credential unless a
// per-instance credential is supplied, classify failures as
// GatewayError or TransportError, and never retry internally; retry
// policy belongs to the callers.
package gateway

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	credentialHeader = "apikey"
	connectionOpen   = "open"

	integration = "WHATSAPP-BAILEYS"

	defaultTimeout = 30 * time.Second
	fetchTimeout   = 10 * time.Second
	groupsTimeout  = 15 * time.Second
	inviteTimeout  = 20 * time.Second
)

// Client issues Evolution API calls against a configured base URL.
type Client struct {
	http *resty.Client
}

// New creates a Client using the shared default credential.
func New(baseURL, credential string) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader(credentialHeader, credential).
		SetTimeout(defaultTimeout)

	return &Client{http: httpClient}
}

// WithCredential returns a client scoped to an instance credential.
func (c *Client) WithCredential(credential string) *Client {
	return New(c.http.BaseURL, credential)
}

// FetchInstances retrieves all instances known to the gateway. An empty
// list is a valid outcome.
func (c *Client) FetchInstances(ctx context.Context) ([]InstanceSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	var out []InstanceSummary

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("instance/fetchInstances")
	if err := classify("fetchInstances", resp, err); err != nil {
		return nil, err
	}

	return out, nil
}

// CreateInstance registers a new instance and returns its credential.
// A name collision on the gateway side surfaces as a GatewayError; the
// gateway does not disambiguate conflicts.
func (c *Client) CreateInstance(ctx context.Context, name string, opts CreateOptions) (string, error) {
	payload := map[string]any{
		"instanceName": name,
		"qrcode":       true,
		"integration":  integration,
	}

	for k, v := range opts.Defaults {
		payload[k] = v
	}

	if opts.WebhookURL != "" {
		payload["webhook"] = map[string]any{
			"url":      opts.WebhookURL,
			"byEvents": false,
			"base64":   true,
		}
	}

	var out createResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&out).
		Post("instance/create")
	if err := classify("createInstance", resp, err); err != nil {
		return "", err
	}

	return out.Hash, nil
}

// Connect requests a fresh QR payload for the instance.
func (c *Client) Connect(ctx context.Context, name string) (*QRPayload, error) {
	var out QRPayload

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("instance/connect/" + name)
	if err := classify("connect", resp, err); err != nil {
		return nil, err
	}

	return &out, nil
}

// ConnectionState reports whether the instance's connection is open,
// accepting both known response shapes.
func (c *Client) ConnectionState(ctx context.Context, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	var out connectionStateResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("instance/connectionState/" + name)
	if err := classify("connectionState", resp, err); err != nil {
		return false, err
	}

	return out.open(), nil
}

// UpdateProfilePhoto sets the profile picture from base64 image content.
func (c *Client) UpdateProfilePhoto(ctx context.Context, name, pictureBase64 string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"picture": pictureBase64}).
		Post("chat/updateProfilePicture/" + name)

	return classify("updateProfilePhoto", resp, err)
}

// UpdateProfileName sets the public profile name.
func (c *Client) UpdateProfileName(ctx context.Context, name, profileName string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"name": profileName}).
		Post("chat/updateProfileName/" + name)

	return classify("updateProfileName", resp, err)
}

// UpdateProfileStatus sets the profile bio.
func (c *Client) UpdateProfileStatus(ctx context.Context, name, status string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"status": status}).
		Post("chat/updateProfileStatus/" + name)

	return classify("updateProfileStatus", resp, err)
}

// AcceptInvite joins a group by invite code. True means the gateway
// confirmed acceptance.
func (c *Client) AcceptInvite(ctx context.Context, name, code string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, inviteTimeout)
	defer cancel()

	var out acceptInviteResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("inviteCode", code).
		SetResult(&out).
		Get("group/acceptInviteCode/" + name)
	if err := classify("acceptInvite", resp, err); err != nil {
		return false, err
	}

	return out.Accepted, nil
}

// ListGroups fetches the instance's groups without participant data.
func (c *Client) ListGroups(ctx context.Context, name string) ([]GroupSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, groupsTimeout)
	defer cancel()

	var out []GroupSummary

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("getParticipants", "false").
		SetResult(&out).
		Get("group/fetchAllGroups/" + name)
	if err := classify("listGroups", resp, err); err != nil {
		return nil, err
	}

	return out, nil
}

// DeleteInstance removes the instance from the gateway.
func (c *Client) DeleteInstance(ctx context.Context, name string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("instance/delete/" + name)

	return classify("deleteInstance", resp, err)
}

// classify maps a resty outcome onto the error taxonomy: network-level
// failures become TransportError, non-2xx responses GatewayError.
func classify(op string, resp *resty.Response, err error) error {
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	if resp.IsError() {
		return &GatewayError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}

	return nil
}
