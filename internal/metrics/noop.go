package metrics

import "time"

// NoopMetrics is a no-operation implementation of Recorder, used when
// metrics are disabled.
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordLogin(outcome string, duration time.Duration)                         {}
func (n *NoopMetrics) RecordTokenIssued(use string)                                               {}
func (n *NoopMetrics) RecordTokenRefresh(success bool)                                            {}
func (n *NoopMetrics) RecordGateRejection(stage, reason string)                                   {}
func (n *NoopMetrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {}
func (n *NoopMetrics) HTTPInFlight(delta int)                                                     {}
