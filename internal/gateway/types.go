package gateway

// InstanceSummary is one entry of the gateway's instance list. The
// fields sit at the root of each element, not nested under "instance".
type InstanceSummary struct {
	Name             string `json:"name"`
	ConnectionStatus string `json:"connectionStatus"`
	IsBusiness       bool   `json:"isBusiness"`
}

// Connected reports whether the summary describes an open connection.
func (s InstanceSummary) Connected() bool {
	return s.ConnectionStatus == connectionOpen
}

// CreateOptions carries the settings forwarded into the create payload.
type CreateOptions struct {
	// Defaults are behavioral flags passed verbatim.
	Defaults map[string]any
	// WebhookURL enables the webhook block when non-empty.
	WebhookURL string
}

type createResponse struct {
	Hash string `json:"hash"`
}

// QRPayload is the connect response. Depending on the gateway version
// the scannable code arrives inline, nested, or only as an image.
type QRPayload struct {
	Code   string `json:"code"`
	QRCode *struct {
		Code string `json:"code"`
	} `json:"qrcode"`
	Base64 string `json:"base64"`
}

// connectionStateResponse accepts both known response shapes: a flat
// state field and one nested under "instance".
type connectionStateResponse struct {
	State    string `json:"state"`
	Instance *struct {
		State string `json:"state"`
	} `json:"instance"`
}

func (r connectionStateResponse) open() bool {
	if r.State != "" {
		return r.State == connectionOpen
	}

	if r.Instance != nil {
		return r.Instance.State == connectionOpen
	}

	return false
}

type acceptInviteResponse struct {
	Accepted bool `json:"accepted"`
}

// GroupSummary is one entry of the gateway's group list.
type GroupSummary struct {
	Subject string `json:"subject"`
	Size    int    `json:"size"`
}
