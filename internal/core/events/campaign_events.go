package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeCampaignApproved  = "campaign.approved"
	EventTypeCampaignCompleted = "campaign.completed"
	EventTypePayoutInitiated   = "payout.initiated"
	EventTypeProofDecided      = "proof.decided"
)

type CampaignApprovedEvent struct {
	BaseEvent
	CampaignID  int64      `json:"campaign_id"`
	OwnerID     int64      `json:"owner_id"`
	InvoiceID   string     `json:"invoice_id"`
	Title       string     `json:"title"`
	Amount      int64      `json:"amount"`
	NoOfDrivers int        `json:"no_of_drivers"`
	StatusType  string     `json:"status_type"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

func NewCampaignApprovedEvent(campaignID, ownerID int64, invoiceID, title string, amount int64, noOfDrivers int, statusType string, startDate, endDate *time.Time) *CampaignApprovedEvent {
	return &CampaignApprovedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCampaignApproved,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"campaign_id":   campaignID,
				"owner_id":      ownerID,
				"invoice_id":    invoiceID,
				"title":         title,
				"amount":        amount,
				"no_of_drivers": noOfDrivers,
				"status_type":   statusType,
			},
		},
		CampaignID:  campaignID,
		OwnerID:     ownerID,
		InvoiceID:   invoiceID,
		Title:       title,
		Amount:      amount,
		NoOfDrivers: noOfDrivers,
		StatusType:  statusType,
		StartDate:   startDate,
		EndDate:     endDate,
	}
}

type CampaignCompletedEvent struct {
	BaseEvent
	CampaignID int64  `json:"campaign_id"`
	Title      string `json:"title"`
}

func NewCampaignCompletedEvent(campaignID int64, title string) *CampaignCompletedEvent {
	return &CampaignCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCampaignCompleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"campaign_id": campaignID,
				"title":       title,
			},
		},
		CampaignID: campaignID,
		Title:      title,
	}
}

type PayoutInitiatedEvent struct {
	BaseEvent
	EarningID  int64  `json:"earning_id"`
	CampaignID int64  `json:"campaign_id"`
	DriverID   int64  `json:"driver_id"`
	Amount     int64  `json:"amount"`
	Reference  string `json:"reference"`
}

func NewPayoutInitiatedEvent(earningID, campaignID, driverID, amount int64, ref string) *PayoutInitiatedEvent {
	return &PayoutInitiatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePayoutInitiated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"earning_id":  earningID,
				"campaign_id": campaignID,
				"driver_id":   driverID,
				"amount":      amount,
				"reference":   ref,
			},
		},
		EarningID:  earningID,
		CampaignID: campaignID,
		DriverID:   driverID,
		Amount:     amount,
		Reference:  ref,
	}
}

type ProofDecidedEvent struct {
	BaseEvent
	ProofID    int64  `json:"proof_id"`
	CampaignID int64  `json:"campaign_id"`
	DriverID   int64  `json:"driver_id"`
	Kind       string `json:"kind"`
	Decision   string `json:"decision"`
	Reason     string `json:"reason,omitempty"`
}

func NewProofDecidedEvent(proofID, campaignID, driverID int64, kind, decision, reason string) *ProofDecidedEvent {
	return &ProofDecidedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeProofDecided,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"proof_id":    proofID,
				"campaign_id": campaignID,
				"driver_id":   driverID,
				"kind":        kind,
				"decision":    decision,
			},
		},
		ProofID:    proofID,
		CampaignID: campaignID,
		DriverID:   driverID,
		Kind:       kind,
		Decision:   decision,
		Reason:     reason,
	}
}
