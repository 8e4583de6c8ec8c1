package config

import "time"

type Kafka struct {
	Addresses []string `env:"KAFKA_ADDRESSES,required" envSeparator:","`
	Group     string   `env:"KAFKA_GROUP" envDefault:"openshop-products"`
	ClientID  string   `env:"KAFKA_CLIENT_ID" envDefault:"openshop"`

	// ProduceTimeout bounds delivery of a single product event, retries included.
	ProduceTimeout time.Duration `env:"KAFKA_PRODUCE_TIMEOUT" envDefault:"10s"`
	ProducerLinger time.Duration `env:"KAFKA_PRODUCER_LINGER" envDefault:"5ms"`
	PingTimeout    time.Duration `env:"KAFKA_PING_TIMEOUT" envDefault:"5s"`
}
