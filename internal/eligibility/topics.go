package eligibility

import (
	"context"
	"slices"

	"assetgov/internal/indirection"
	"assetgov/pkg/domain"
)

// TopicList is the set of claim topics every holder must satisfy.
type TopicList struct {
	front  *indirection.Front
	topics []uint64
}

func NewTopicList(front *indirection.Front) *TopicList {
	return &TopicList{front: front}
}

func (l *TopicList) Front() *indirection.Front { return l.front }

func (l *TopicList) Address() domain.Address { return l.front.Address() }

// Topics returns the required topics in insertion order.
func (l *TopicList) Topics() []uint64 { return slices.Clone(l.topics) }

func (l *TopicList) AddTopic(ctx context.Context, caller domain.Address, topic uint64) error {
	code, err := indirection.Code[TopicListCode](l.front)
	if err != nil {
		return err
	}
	return code.AddTopic(ctx, l, caller, topic)
}

func (l *TopicList) RemoveTopic(ctx context.Context, caller domain.Address, topic uint64) error {
	code, err := indirection.Code[TopicListCode](l.front)
	if err != nil {
		return err
	}
	return code.RemoveTopic(ctx, l, caller, topic)
}
