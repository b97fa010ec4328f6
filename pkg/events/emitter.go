// Package events emits member lifecycle events around matching and merging.
package events

import (
	"context"
	"strconv"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Event types published by the engine.
const (
	EventMemberMerged   = "member.merged"
	EventMasterSelected = "member.master_selected"
	EventMemberDeleted  = "member.deleted"
)

// Emitter publishes member lifecycle events. Emission failures never fail
// the operation that triggered them; callers log and continue.
type Emitter interface {
	MemberMerged(ctx context.Context, dst *models.Member, srcID string) error
	MasterSelected(ctx context.Context, master *models.Member, candidates int) error
	MemberDeleted(ctx context.Context, id string) error
}

// KafkaEmitter publishes events through the Kafka producer.
type KafkaEmitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewKafkaEmitter creates a Kafka-backed emitter.
func NewKafkaEmitter(producer *kafka.Producer, logger ectologger.Logger) *KafkaEmitter {
	return &KafkaEmitter{
		producer: producer,
		logger:   logger,
	}
}

func (e *KafkaEmitter) MemberMerged(ctx context.Context, dst *models.Member, srcID string) error {
	ctx, span := tracing.StartSpan(ctx, "events.MemberMerged")
	defer span.End()

	err := e.producer.PublishMemberEvent(ctx, &kafka.MemberEvent{
		EventType: EventMemberMerged,
		MemberID:  dst.ID,
		SourceID:  srcID,
		Fields:    dst.ExternalValues(),
	})
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit member.merged event")
	}
	return err
}

func (e *KafkaEmitter) MasterSelected(ctx context.Context, master *models.Member, candidates int) error {
	ctx, span := tracing.StartSpan(ctx, "events.MasterSelected")
	defer span.End()

	err := e.producer.PublishMemberEvent(ctx, &kafka.MemberEvent{
		EventType: EventMasterSelected,
		MemberID:  master.ID,
		Fields:    map[string]string{"candidates": strconv.Itoa(candidates)},
	})
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit master_selected event")
	}
	return err
}

func (e *KafkaEmitter) MemberDeleted(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "events.MemberDeleted")
	defer span.End()

	err := e.producer.PublishMemberEvent(ctx, &kafka.MemberEvent{
		EventType: EventMemberDeleted,
		MemberID:  id,
	})
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit member.deleted event")
	}
	return err
}

// NopEmitter drops all events. Used when Kafka is not configured.
type NopEmitter struct{}

func (NopEmitter) MemberMerged(context.Context, *models.Member, string) error { return nil }
func (NopEmitter) MasterSelected(context.Context, *models.Member, int) error  { return nil }
func (NopEmitter) MemberDeleted(context.Context, string) error                { return nil }
