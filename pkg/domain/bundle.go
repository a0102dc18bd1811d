package domain

import (
	"fmt"

	dErrors "assetgov/pkg/domain-errors"
)

// ComponentKind names one of the six component roles in a suite.
type ComponentKind string

const (
	KindAsset               ComponentKind = "asset"
	KindTopicList           ComponentKind = "topic_list"
	KindIssuerList          ComponentKind = "issuer_list"
	KindEligibilityStorage  ComponentKind = "eligibility_storage"
	KindEligibilityRegistry ComponentKind = "eligibility_registry"
	KindCompliance          ComponentKind = "compliance"
)

// ComponentKinds lists every kind in bundle slot order.
var ComponentKinds = []ComponentKind{
	KindAsset,
	KindTopicList,
	KindIssuerList,
	KindEligibilityStorage,
	KindEligibilityRegistry,
	KindCompliance,
}

// ParseComponentKind validates a kind at trust boundaries.
func ParseComponentKind(s string) (ComponentKind, error) {
	for _, k := range ComponentKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown component kind %q", s))
}

// Bundle is one deployable version: the implementation code address for each
// of the six component kinds.
// Invariant: a bundle is valid iff every slot is non-zero. Bundles are values;
// once recorded under a version they are never edited in place.
type Bundle struct {
	Asset               Address `json:"asset" yaml:"asset"`
	TopicList           Address `json:"topic_list" yaml:"topic_list"`
	IssuerList          Address `json:"issuer_list" yaml:"issuer_list"`
	EligibilityStorage  Address `json:"eligibility_storage" yaml:"eligibility_storage"`
	EligibilityRegistry Address `json:"eligibility_registry" yaml:"eligibility_registry"`
	Compliance          Address `json:"compliance" yaml:"compliance"`
}

// Slot returns the implementation address recorded for kind.
func (b Bundle) Slot(kind ComponentKind) Address {
	switch kind {
	case KindAsset:
		return b.Asset
	case KindTopicList:
		return b.TopicList
	case KindIssuerList:
		return b.IssuerList
	case KindEligibilityStorage:
		return b.EligibilityStorage
	case KindEligibilityRegistry:
		return b.EligibilityRegistry
	case KindCompliance:
		return b.Compliance
	default:
		return ZeroAddress
	}
}

// Valid reports whether all six slots are filled.
func (b Bundle) Valid() bool {
	for _, k := range ComponentKinds {
		if b.Slot(k).IsZero() {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no slot is filled.
func (b Bundle) IsEmpty() bool {
	return b == Bundle{}
}

// MissingSlots names the empty slots, for error messages.
func (b Bundle) MissingSlots() []ComponentKind {
	var missing []ComponentKind
	for _, k := range ComponentKinds {
		if b.Slot(k).IsZero() {
			missing = append(missing, k)
		}
	}
	return missing
}

// Suite is the set of cross-wired component instances deployed for one asset.
type Suite struct {
	Asset               Address `json:"asset"`
	TopicList           Address `json:"topic_list"`
	IssuerList          Address `json:"issuer_list"`
	EligibilityStorage  Address `json:"eligibility_storage"`
	EligibilityRegistry Address `json:"eligibility_registry"`
	Compliance          Address `json:"compliance"`
}

// Component returns the instance address for kind.
func (s Suite) Component(kind ComponentKind) Address {
	return Bundle(s).Slot(kind)
}

// Components returns the six instance addresses in slot order.
func (s Suite) Components() []Address {
	out := make([]Address, 0, len(ComponentKinds))
	for _, k := range ComponentKinds {
		out = append(out, s.Component(k))
	}
	return out
}

// SetComponent places addr in the slot for kind.
func (s *Suite) SetComponent(kind ComponentKind, addr Address) {
	switch kind {
	case KindAsset:
		s.Asset = addr
	case KindTopicList:
		s.TopicList = addr
	case KindIssuerList:
		s.IssuerList = addr
	case KindEligibilityStorage:
		s.EligibilityStorage = addr
	case KindEligibilityRegistry:
		s.EligibilityRegistry = addr
	case KindCompliance:
		s.Compliance = addr
	}
}
