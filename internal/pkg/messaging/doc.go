// Package messaging provides a broker-agnostic publish/consume abstraction
// with Kafka, NATS, and NSQ backends selected by configuration.
package messaging
