package eligibility

import (
	"context"
	"slices"

	"assetgov/internal/indirection"
	"assetgov/pkg/domain"
)

// IssuerList maps trusted claim issuers to the topics they may attest.
type IssuerList struct {
	front   *indirection.Front
	order   []domain.Address
	issuers map[domain.Address][]uint64
}

func NewIssuerList(front *indirection.Front) *IssuerList {
	return &IssuerList{front: front, issuers: make(map[domain.Address][]uint64)}
}

func (l *IssuerList) Front() *indirection.Front { return l.front }

func (l *IssuerList) Address() domain.Address { return l.front.Address() }

// Issuers returns the trusted issuers in the order they were added.
func (l *IssuerList) Issuers() []domain.Address { return slices.Clone(l.order) }

// TopicsOf returns the topics issuer may attest.
func (l *IssuerList) TopicsOf(issuer domain.Address) []uint64 {
	return slices.Clone(l.issuers[issuer])
}

// IsTrusted reports whether issuer may attest topic.
func (l *IssuerList) IsTrusted(issuer domain.Address, topic uint64) bool {
	return slices.Contains(l.issuers[issuer], topic)
}

func (l *IssuerList) AddIssuer(ctx context.Context, caller, issuer domain.Address, topics []uint64) error {
	code, err := indirection.Code[IssuerListCode](l.front)
	if err != nil {
		return err
	}
	return code.AddIssuer(ctx, l, caller, issuer, topics)
}

func (l *IssuerList) RemoveIssuer(ctx context.Context, caller, issuer domain.Address) error {
	code, err := indirection.Code[IssuerListCode](l.front)
	if err != nil {
		return err
	}
	return code.RemoveIssuer(ctx, l, caller, issuer)
}
