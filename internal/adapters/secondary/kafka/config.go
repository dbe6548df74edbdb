package kafka

import (
	"strings"

	"github.com/IBM/sarama"
)

// Config конфигурация для Kafka producer/consumer
type Config struct {
	Brokers          string `envconfig:"BROKERS"`                                  // "broker1:9092,broker2:9092"
	Topic            string `envconfig:"TOPIC" default:"market.notifications"`     // топик событий уведомлений
	ConsumerGroup    string `envconfig:"CONSUMER_GROUP" default:"market-notifier"` // consumer group (только для consumer)
	SecurityProtocol string `envconfig:"SECURITY_PROTOCOL"`                        // "SASL_SSL", "PLAINTEXT"
	SASLMechanism    string `envconfig:"SASL_MECHANISM"`                           // "PLAIN", "SCRAM-SHA-256"
	SASLUsername     string `envconfig:"SASL_USERNAME"`
	SASLPassword     string `envconfig:"SASL_PASSWORD"`
}

// Enabled без брокеров шина не поднимается, события уходят напрямую
func (c *Config) Enabled() bool {
	return strings.TrimSpace(c.Brokers) != ""
}

// GetBrokers возвращает список брокеров из строки
func (c *Config) GetBrokers() []string {
	if c.Brokers == "" {
		return []string{"localhost:9092"}
	}
	parts := strings.Split(c.Brokers, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

// ApplySecurity настройка SASL/TLS, общая для producer и consumer
func (c *Config) ApplySecurity(config *sarama.Config) {
	if c.SecurityProtocol != "SASL_SSL" && c.SecurityProtocol != "SASL_PLAINTEXT" {
		return
	}
	config.Net.SASL.Enable = true
	config.Net.SASL.Mechanism = sarama.SASLTypePlaintext
	if c.SASLMechanism == "SCRAM-SHA-256" {
		config.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA256
	}
	config.Net.SASL.User = c.SASLUsername
	config.Net.SASL.Password = c.SASLPassword
	// TLS только для SASL_SSL
	if c.SecurityProtocol == "SASL_SSL" {
		config.Net.TLS.Enable = true
	}
}
