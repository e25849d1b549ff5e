package cashtransfer

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a cash transfer between centres.
type Status string

const (
	StatusPending   Status = "PENDING"   // dispatched, cash in transit
	StatusReceived  Status = "RECEIVED"  // acknowledged at the destination
	StatusCancelled Status = "CANCELLED" // recalled by the sender before receipt
	StatusRejected  Status = "REJECTED"  // refused at the destination
)

// IsValid checks if the status is a valid transfer Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusReceived, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if the transfer can no longer change state
func (s Status) IsTerminal() bool {
	return s == StatusReceived || s == StatusCancelled || s == StatusRejected
}

// CashTransfer records physical cash moving from one centre to another.
// While PENDING the amount is debited from the sender's cash on hand but
// not yet credited to the receiver.
type CashTransfer struct {
	shared.TenantAggregateRoot
	TransferNumber string          `json:"transfer_number"` // serial, e.g. "CT-2026-27-000017"
	FromCentreID   uuid.UUID       `json:"from_centre_id"`
	ToCentreID     uuid.UUID       `json:"to_centre_id"`
	Amount         decimal.Decimal `json:"amount"`
	Status         Status          `json:"status"`
	UniquePassword string          `json:"-"` // 6 digits, handed to the courier; never serialized
	ReceiptKey     string          `json:"receipt_key,omitempty"`
	InitiatedBy    uuid.UUID       `json:"initiated_by"`
	ReceivedBy     *uuid.UUID      `json:"received_by,omitempty"`
	InitiatedAt    time.Time       `json:"initiated_at"`
	ReceivedAt     *time.Time      `json:"received_at,omitempty"`
	Remarks        string          `json:"remarks,omitempty"`
}

// NewCashTransfer dispatches cash from one centre towards another. The
// unique password travels with the courier; the receiving centre must
// present it to confirm the handoff.
func NewCashTransfer(
	tenantID, fromCentreID, toCentreID, initiatedBy uuid.UUID,
	transferNumber, uniquePassword string,
	amount decimal.Decimal,
	remarks string,
	now time.Time,
) (*CashTransfer, error) {
	if fromCentreID == uuid.Nil || toCentreID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CENTRE", "Both centres must be specified")
	}
	if fromCentreID == toCentreID {
		return nil, shared.NewDomainError("SAME_CENTRE", "Cannot transfer cash to the same centre")
	}
	if initiatedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Initiating user must be specified")
	}
	if transferNumber == "" {
		return nil, shared.NewDomainError("INVALID_TRANSFER_NUMBER", "Transfer number cannot be empty")
	}
	if strings.TrimSpace(uniquePassword) == "" {
		return nil, shared.NewDomainError("INVALID_TRANSFER_PASSWORD", "Transfer password cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transfer amount must be positive")
	}

	return &CashTransfer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		TransferNumber:      transferNumber,
		FromCentreID:        fromCentreID,
		ToCentreID:          toCentreID,
		Amount:              amount,
		Status:              StatusPending,
		UniquePassword:      strings.TrimSpace(uniquePassword),
		InitiatedBy:         initiatedBy,
		InitiatedAt:         now,
		Remarks:             remarks,
	}, nil
}

// Receive acknowledges the cash arrived at the destination centre. The
// presented password must match the one issued at dispatch, compared as
// trimmed strings. Only someone other than the initiator may acknowledge.
func (ct *CashTransfer) Receive(receivedBy uuid.UUID, password string, now time.Time) error {
	if ct.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot receive transfer in %s status", ct.Status))
	}
	if receivedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Receiving user must be specified")
	}
	if receivedBy == ct.InitiatedBy {
		return shared.NewDomainError("SELF_RECEIPT", "Transfer cannot be received by its initiator")
	}
	if strings.TrimSpace(password) != ct.UniquePassword {
		return shared.NewDomainError("INVALID_TRANSFER_PASSWORD", "Transfer password does not match")
	}
	ct.Status = StatusReceived
	ct.ReceivedBy = &receivedBy
	ct.ReceivedAt = &now
	ct.Touch()
	ct.IncrementVersion()
	return nil
}

// Reject refuses the cash at the destination, for example a short count.
// The amount returns to the sender's cash on hand.
func (ct *CashTransfer) Reject(reason string) error {
	if ct.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject transfer in %s status", ct.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason cannot be empty")
	}
	ct.Status = StatusRejected
	ct.Remarks = reason
	ct.Touch()
	ct.IncrementVersion()
	return nil
}

// AttachReceipt records the object-storage key of the handoff receipt.
// Receipts may only be attached while the transfer is in transit.
func (ct *CashTransfer) AttachReceipt(key string) error {
	if ct.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot attach receipt to transfer in %s status", ct.Status))
	}
	if key == "" {
		return shared.NewDomainError("INVALID_RECEIPT", "Receipt key cannot be empty")
	}
	ct.ReceiptKey = key
	ct.Touch()
	ct.IncrementVersion()
	return nil
}

// Cancel recalls a transfer that has not been received yet. The cash
// returns to the sender's cash on hand.
func (ct *CashTransfer) Cancel(reason string) error {
	if ct.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel transfer in %s status", ct.Status))
	}
	ct.Status = StatusCancelled
	if reason != "" {
		ct.Remarks = reason
	}
	ct.Touch()
	ct.IncrementVersion()
	return nil
}

// FormatTransferNumber renders a serial transfer number under a fiscal
// year label, e.g. "CT-2026-27-000017".
func FormatTransferNumber(fiscalYear string, seq int) string {
	return fmt.Sprintf("CT-%s-%06d", fiscalYear, seq)
}

// GeneratePassword issues the 6-digit password the receiving centre must
// present to confirm a handoff.
func GeneratePassword() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate transfer password: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
