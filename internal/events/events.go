// Package events defines the payloads published to the message broker when
// session requests move through their lifecycle. Downstream consumers (the
// notification worker, analytics) act on these without querying the primary
// database.
package events

// SessionRequestedEvent is published when a student books a session.
type SessionRequestedEvent struct {
	SessionID     string `json:"session_id"`
	RequesterID   string `json:"requester_id"`
	RequesterName string `json:"requester_name"`
	ProviderID    string `json:"provider_id"`
	ProviderName  string `json:"provider_name"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Mode          string `json:"mode"`
	RequestedAt   string `json:"requested_at"`
}

// SessionStatusChangedEvent is published when a provider confirms, rejects,
// or completes a session request.
type SessionStatusChangedEvent struct {
	SessionID   string `json:"session_id"`
	RequesterID string `json:"requester_id"`
	ProviderID  string `json:"provider_id"`
	OldStatus   string `json:"old_status"`
	NewStatus   string `json:"new_status"`
	ChangedAt   string `json:"changed_at"`
}
