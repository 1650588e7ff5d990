package domain

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus represents the possible states of a ticket.
type TicketStatus string

const (
	StatusNew               TicketStatus = "NEW"
	StatusOpen              TicketStatus = "OPEN"
	StatusPendingClient     TicketStatus = "PENDING_CLIENT"
	StatusPendingInstaller  TicketStatus = "PENDING_INSTALLER"
	StatusPendingTechReview TicketStatus = "PENDING_TECH_REVIEW"
	StatusClosed            TicketStatus = "CLOSED"
)

// TicketType classifies the kind of request a ticket carries.
type TicketType string

const (
	TypeTechnicalSupport   TicketType = "TECHNICAL_SUPPORT"
	TypeDebtRecovery       TicketType = "DEBT_RECOVERY"
	TypeInstallerComplaint TicketType = "INSTALLER_COMPLAINT"
	TypePaymentChange      TicketType = "PAYMENT_CHANGE"
	TypeEarlyTermination   TicketType = "EARLY_TERMINATION"
	TypeContractAddition   TicketType = "CONTRACT_ADDITION"
)

// TicketTypes lists every ticket type in display order.
var TicketTypes = []TicketType{
	TypeTechnicalSupport,
	TypeDebtRecovery,
	TypeInstallerComplaint,
	TypePaymentChange,
	TypeEarlyTermination,
	TypeContractAddition,
}

// TicketPriority represents the urgency of a ticket.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "LOW"
	PriorityMedium TicketPriority = "MEDIUM"
	PriorityHigh   TicketPriority = "HIGH"
)

// TicketOrigin identifies who raised the ticket.
type TicketOrigin string

const (
	OriginInstaller  TicketOrigin = "INSTALLER"
	OriginStaff      TicketOrigin = "STAFF"
	OriginSubscriber TicketOrigin = "SUBSCRIBER"
)

// TicketChannel identifies how the ticket reached the desk.
type TicketChannel string

const (
	ChannelMail             TicketChannel = "MAIL"
	ChannelPhone            TicketChannel = "PHONE"
	ChannelContactForm      TicketChannel = "CONTACT_FORM"
	ChannelSubscriberPortal TicketChannel = "SUBSCRIBER_PORTAL"
	ChannelMobileApp        TicketChannel = "MOBILE_APP"
)

// Ticket is the core domain entity. Tickets are owned and mutated by
// the external ticket repository; this engine only reads them.
// Invariant: UpdatedAt is never before CreatedAt.
type Ticket struct {
	ID          uuid.UUID
	Number      int64 // sequential display number
	Title       string
	Description string
	Type        TicketType
	Status      TicketStatus
	Priority    TicketPriority
	Origin      TicketOrigin
	Channel     TicketChannel
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   uuid.UUID
	AssigneeID  *uuid.UUID
}

// IsResolved reports whether the ticket reached its terminal state.
func (t *Ticket) IsResolved() bool {
	return t.Status == StatusClosed
}

// ResolutionHours returns the elapsed hours between creation and the
// last update. Only meaningful for resolved tickets, whose last update
// is the transition to CLOSED.
func (t *Ticket) ResolutionHours() float64 {
	return t.UpdatedAt.Sub(t.CreatedAt).Hours()
}

// IsAssignedTo checks whether the ticket is assigned to the given user.
func (t *Ticket) IsAssignedTo(userID uuid.UUID) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}

// MatchesType reports whether the ticket matches a type filter.
// An empty filter matches every ticket.
func (t *Ticket) MatchesType(filter TicketType) bool {
	return filter == "" || t.Type == filter
}
