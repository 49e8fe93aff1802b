package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

const kafkaImage = "confluentinc/confluent-local:7.6.1"

// StartKafka runs a single-node KRaft broker for the lifetime of t and
// returns its bootstrap addresses.
func StartKafka(t *testing.T) []string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := kafka.Run(ctx, kafkaImage, kafka.WithClusterID("credit-risk-test"))
	if ctr != nil {
		t.Cleanup(func() { terminate(t, "kafka", ctr) })
	}
	if err != nil {
		t.Fatalf("start kafka container: %v", err)
	}

	brokers, err := ctr.Brokers(ctx)
	if err != nil {
		t.Fatalf("kafka brokers: %v", err)
	}
	return brokers
}
