// Package infra holds the adapters behind the core interfaces: zerolog
// logging, Prometheus and InfluxDB sinks, the MQTT plan publisher and Sentry
// error reporting.
package infra
