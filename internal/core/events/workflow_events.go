package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLeaveSubmitted        = "leave.submitted"
	EventTypeLeaveStatusChanged    = "leave.status_changed"
	EventTypeTourPlanSubmitted     = "tourplan.submitted"
	EventTypeTourPlanStatusChanged = "tourplan.status_changed"
)

// RecordSubmittedEvent fires when a user files a new approval-workflow
// record (leave request, tour plan). Supervisors subscribe to it for
// pending-approval notifications.
type RecordSubmittedEvent struct {
	BaseEvent
	Module         string `json:"module"`
	RecordID       int64  `json:"record_id"`
	OrganizationID int64  `json:"organization_id"`
	OwnerID        int64  `json:"owner_id"`
}

// StatusChangedEvent fires when an approver resolves a pending record.
// OwnerID identifies the employee whose record changed, ActorID the
// approver who changed it.
type StatusChangedEvent struct {
	BaseEvent
	Module         string `json:"module"`
	RecordID       int64  `json:"record_id"`
	OrganizationID int64  `json:"organization_id"`
	OwnerID        int64  `json:"owner_id"`
	Status         string `json:"status"`
	Reason         string `json:"reason"`
	ActorID        int64  `json:"actor_id"`
}

func NewLeaveSubmittedEvent(recordID, organizationID, ownerID int64) *RecordSubmittedEvent {
	return newRecordSubmittedEvent(EventTypeLeaveSubmitted, "leaves", recordID, organizationID, ownerID)
}

func NewTourPlanSubmittedEvent(recordID, organizationID, ownerID int64) *RecordSubmittedEvent {
	return newRecordSubmittedEvent(EventTypeTourPlanSubmitted, "tourplans", recordID, organizationID, ownerID)
}

func newRecordSubmittedEvent(eventType, module string, recordID, organizationID, ownerID int64) *RecordSubmittedEvent {
	return &RecordSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"module":          module,
				"record_id":       recordID,
				"organization_id": organizationID,
				"owner_id":        ownerID,
			},
		},
		Module:         module,
		RecordID:       recordID,
		OrganizationID: organizationID,
		OwnerID:        ownerID,
	}
}

func NewLeaveStatusChangedEvent(recordID, organizationID, ownerID int64, status, reason string, actorID int64) *StatusChangedEvent {
	return newStatusChangedEvent(EventTypeLeaveStatusChanged, "leaves", recordID, organizationID, ownerID, status, reason, actorID)
}

func NewTourPlanStatusChangedEvent(recordID, organizationID, ownerID int64, status, reason string, actorID int64) *StatusChangedEvent {
	return newStatusChangedEvent(EventTypeTourPlanStatusChanged, "tourplans", recordID, organizationID, ownerID, status, reason, actorID)
}

func newStatusChangedEvent(eventType, module string, recordID, organizationID, ownerID int64, status, reason string, actorID int64) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"module":          module,
				"record_id":       recordID,
				"organization_id": organizationID,
				"owner_id":        ownerID,
				"status":          status,
				"reason":          reason,
				"actor_id":        actorID,
			},
		},
		Module:         module,
		RecordID:       recordID,
		OrganizationID: organizationID,
		OwnerID:        ownerID,
		Status:         status,
		Reason:         reason,
		ActorID:        actorID,
	}
}
