//go:build integration

package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	id "clockgeo/pkg/domain"
	audit "clockgeo/pkg/platform/audit"
	"clockgeo/pkg/testutil/containers"
)

type KafkaStoreSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
}

func TestKafkaStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaStoreSuite))
}

func (s *KafkaStoreSuite) SetupSuite() {
	s.redpanda = containers.GetManager().GetRedpanda(s.T())
}

func (s *KafkaStoreSuite) TestAppendProducesToTopic() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	topic := "audit-" + uuid.NewString()

	store, err := New(s.redpanda.Brokers, topic)
	s.Require().NoError(err)
	defer store.Close()
	s.Require().NoError(store.EnsureTopic(ctx, 1, 1))
	s.Require().NoError(store.EnsureTopic(ctx, 1, 1), "existing topic is not an error")

	userID := id.UserID(uuid.New())
	s.Require().NoError(store.Append(ctx, audit.Event{
		Category:  audit.CategoryCompliance,
		Timestamp: time.Now(),
		UserID:    userID,
		Subject:   "time_record:abc",
		Action:    string(audit.EventLocationCaptured),
		Decision:  "approved",
	}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().NoError(fetches.Err())
	records := fetches.Records()
	s.Require().Len(records, 1)
	s.Equal(userID.String(), string(records[0].Key))

	var got payload
	s.Require().NoError(json.Unmarshal(records[0].Value, &got))
	s.Equal(string(audit.EventLocationCaptured), got.Action)
	s.Equal("compliance", got.Category)
}
