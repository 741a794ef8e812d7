package services

import "github.com/hjo3-cse40/SlugConnect/internal/models"

// Status is the display state of the relationship between a viewer and a target.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusPending  Status = "pending"  // viewer sent, unanswered
	StatusReceived Status = "received" // target sent, unanswered
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	// StatusUnknown is reported when the rows could not be read. Request actions stay disabled.
	StatusUnknown Status = "unknown"
)

// CanRequest reports whether a new request may be sent from this state.
func (s Status) CanRequest() bool {
	return s == StatusIdle || s == StatusRejected
}

// DeriveStatus computes the viewer's status from the outgoing (viewer -> target)
// and incoming (target -> viewer) rows. Either may be nil. Outgoing wins over
// incoming when both are unanswered.
func DeriveStatus(outgoing, incoming *models.ConnectionRequest) Status {
	switch {
	case hasStatus(outgoing, models.RequestStatusAccepted) || hasStatus(incoming, models.RequestStatusAccepted):
		return StatusAccepted
	case outgoing != nil && (hasStatus(outgoing, models.RequestStatusRejected) || hasStatus(incoming, models.RequestStatusRejected)):
		return StatusRejected
	case hasStatus(outgoing, models.RequestStatusPending):
		return StatusPending
	case hasStatus(incoming, models.RequestStatusPending):
		return StatusReceived
	default:
		return StatusIdle
	}
}

func hasStatus(req *models.ConnectionRequest, status models.RequestStatus) bool {
	return req != nil && req.Status == status
}

// deriveAll computes statuses for many targets from every row involving the viewer.
func deriveAll(viewerID string, targetIDs []string, rows []models.ConnectionRequest) map[string]Status {
	outgoing := make(map[string]*models.ConnectionRequest)
	incoming := make(map[string]*models.ConnectionRequest)
	for i := range rows {
		row := &rows[i]
		switch {
		case row.SenderID == viewerID:
			outgoing[row.ReceiverID] = row
		case row.ReceiverID == viewerID:
			incoming[row.SenderID] = row
		}
	}

	statuses := make(map[string]Status, len(targetIDs))
	for _, id := range targetIDs {
		if id == viewerID {
			continue
		}
		statuses[id] = DeriveStatus(outgoing[id], incoming[id])
	}
	return statuses
}
