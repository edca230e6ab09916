// Package broker applies the resolved configuration to an AMQP broker: it
// dials with the configured connect timeout and retry policy and declares
// the configured queue topology.
package broker
