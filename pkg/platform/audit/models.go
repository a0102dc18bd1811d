package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance: who
	// controls a suite and which rules govern its transfers.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers changes to what code is live and pending
	// ownership handovers.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity that can be sampled.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic after an operation commits. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	// Actor is the principal that performed the action.
	Actor string
	// Subject is the address the action applied to (registry, component,
	// engine).
	Subject string
	Action  string
	// Target names the other side of the action when there is one: the
	// module bound, the new authority, the proposed owner.
	Target    string
	Version   string
	Key       string
	RequestID string
}

type AuditEvent string

const (
	// Version registry events
	EventVersionAdded    AuditEvent = "version_added"
	EventVersionPromoted AuditEvent = "version_promoted"
	EventVersionFetched  AuditEvent = "version_fetched"
	EventSuiteMigrated   AuditEvent = "suite_migrated"

	// Deployment events
	EventSuiteDeployed     AuditEvent = "suite_deployed"
	EventOwnershipProposed AuditEvent = "ownership_proposed"
	EventOwnershipAccepted AuditEvent = "ownership_accepted"
	EventOwnershipCanceled AuditEvent = "ownership_canceled"

	// Compliance events
	EventModuleBound   AuditEvent = "module_bound"
	EventModuleUnbound AuditEvent = "module_unbound"
	EventModuleCalled  AuditEvent = "module_called"

	// Eligibility events
	EventHolderRegistered AuditEvent = "holder_registered"
	EventHolderUpdated    AuditEvent = "holder_updated"
	EventHolderDeleted    AuditEvent = "holder_deleted"
	EventClaimAdded       AuditEvent = "claim_added"
	EventClaimRemoved     AuditEvent = "claim_removed"
	EventTopicAdded       AuditEvent = "topic_added"
	EventTopicRemoved     AuditEvent = "topic_removed"
	EventIssuerTrusted    AuditEvent = "issuer_trusted"
	EventIssuerRemoved    AuditEvent = "issuer_removed"
	EventRegistryLinked   AuditEvent = "registry_linked"
	EventRegistryUnlinked AuditEvent = "registry_unlinked"

	// Asset events
	EventMinted            AuditEvent = "minted"
	EventBurned            AuditEvent = "burned"
	EventTransferred       AuditEvent = "transferred"
	EventPaused            AuditEvent = "paused"
	EventUnpaused          AuditEvent = "unpaused"
	EventComplianceChanged AuditEvent = "compliance_changed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventSuiteMigrated:     CategoryCompliance,
	EventSuiteDeployed:     CategoryCompliance,
	EventOwnershipAccepted: CategoryCompliance,
	EventModuleBound:       CategoryCompliance,
	EventModuleUnbound:     CategoryCompliance,
	EventHolderRegistered:  CategoryCompliance,
	EventHolderDeleted:     CategoryCompliance,
	EventClaimAdded:        CategoryCompliance,
	EventClaimRemoved:      CategoryCompliance,
	EventTopicAdded:        CategoryCompliance,
	EventTopicRemoved:      CategoryCompliance,
	EventIssuerTrusted:     CategoryCompliance,
	EventIssuerRemoved:     CategoryCompliance,
	EventComplianceChanged: CategoryCompliance,
	EventPaused:            CategoryCompliance,
	EventUnpaused:          CategoryCompliance,

	EventVersionAdded:      CategorySecurity,
	EventVersionPromoted:   CategorySecurity,
	EventOwnershipProposed: CategorySecurity,
	EventOwnershipCanceled: CategorySecurity,
	EventRegistryLinked:    CategorySecurity,
	EventRegistryUnlinked:  CategorySecurity,

	EventVersionFetched: CategoryOperations,
	EventModuleCalled:   CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
