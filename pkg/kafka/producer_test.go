package kafka

import (
	"path/filepath"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092", "localhost:9093"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:9092", "localhost:9093"}, p.brokers)
	assert.NotNil(t, p.writers)
	assert.Empty(t, p.writers)
	assert.Nil(t, p.transport.SASL)
	assert.Nil(t, p.transport.TLS)
}

func TestNewProducer_TLSAndSASL(t *testing.T) {
	tests := []struct {
		name      string
		mechanism string
		wantErr   bool
	}{
		{name: "plain by default", mechanism: ""},
		{name: "plain", mechanism: "PLAIN"},
		{name: "scram 256", mechanism: "SCRAM-SHA-256"},
		{name: "scram 512", mechanism: "SCRAM-SHA-512"},
		{name: "unsupported", mechanism: "GSSAPI", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProducer(Config{
				Brokers:       []string{"kafka:9093"},
				TLS:           true,
				SASLEnabled:   true,
				SASLMechanism: tt.mechanism,
				SASLUsername:  "svc",
				SASLPassword:  "secret",
			})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, p.transport.TLS)
			assert.NotNil(t, p.transport.SASL)
		})
	}
}

func TestNewProducer_BadCAFile(t *testing.T) {
	_, err := NewProducer(Config{
		Brokers:   []string{"kafka:9093"},
		TLS:       true,
		TLSCAFile: filepath.Join(t.TempDir(), "missing-ca.pem"),
	})
	assert.ErrorContains(t, err, "read CA file")
}

func TestNewProducer_Compression(t *testing.T) {
	tests := []struct {
		name    string
		codec   string
		want    kafkago.Compression
		wantErr bool
	}{
		{name: "none", codec: "", want: 0},
		{name: "snappy", codec: "snappy", want: kafkago.Snappy},
		{name: "case insensitive", codec: "ZSTD", want: kafkago.Zstd},
		{name: "unknown", codec: "brotli", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProducer(Config{Brokers: []string{"kafka:9092"}, Compression: tt.codec, ClientID: "credit-risk-engine"})
			if tt.wantErr {
				assert.ErrorContains(t, err, "unsupported compression")
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { _ = p.Close() })

			w := p.getOrCreateWriter("credit-risk-events")
			assert.Equal(t, tt.want, w.Compression)
			assert.Equal(t, "credit-risk-engine", p.transport.ClientID)
		})
	}
}

func TestGetOrCreateWriter_ReusesPerTopic(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"kafka:9092"}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	w1 := p.getOrCreateWriter("credit-risk-events")
	w2 := p.getOrCreateWriter("credit-risk-events")
	w3 := p.getOrCreateWriter("other")

	assert.Same(t, w1, w2)
	assert.NotSame(t, w1, w3)
	assert.Equal(t, "credit-risk-events", w1.Topic)
	assert.Len(t, p.writers, 2)
}

func TestConfigEnabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.True(t, Config{Brokers: []string{"kafka:9092"}}.Enabled())
}
