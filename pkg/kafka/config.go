package kafka

// Config holds Kafka connection parameters.
type Config struct {
	// SASL configuration for authentication.
	SASLMechanism string // "PLAIN" or "SCRAM-SHA-256" or "SCRAM-SHA-512"
	SASLUsername  string
	SASLPassword  string

	Brokers []string

	// TLS enables TLS for Kafka connections. TLSCAFile optionally pins the
	// broker CA.
	TLS                   bool
	TLSCAFile             string
	TLSInsecureSkipVerify bool
	SASLEnabled           bool

	// ClientID names this producer in broker logs and quotas.
	ClientID string
	// Compression is one of "", "gzip", "snappy", "lz4" or "zstd".
	Compression string
}

// Enabled reports whether at least one broker is configured.
func (c Config) Enabled() bool {
	return len(c.Brokers) > 0
}
