// Package metrics decorates the SMS gateway client with Prometheus metrics.
package metrics

import (
	"context"
	"time"

	"github.com/oggyb/chuanglan-sms/internal/sms"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	opSend  = "send"
	opQuota = "quota"
)

var _ sms.Client = (*Client)(nil)

// Client records request counts, durations and recipient totals for every
// call made through the wrapped sms.Client.
type Client struct {
	client     sms.Client
	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	recipients prometheus.Counter
	quota      prometheus.Gauge
}

// NewClient wraps c and registers its collectors with reg.
func NewClient(c sms.Client, reg prometheus.Registerer) *Client {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sms_gateway_requests_total",
			Help: "Calls made to the SMS gateway, by operation and result.",
		},
		[]string{"op", "result"},
	)

	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sms_gateway_request_duration_seconds",
			Help:    "Time spent in SMS gateway calls.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	recipients := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sms_gateway_recipients_total",
		Help: "Recipients in dispatches the gateway accepted.",
	})

	quota := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sms_gateway_quota_remaining",
		Help: "Last remaining quota reported by the gateway.",
	})

	reg.MustRegister(requests, duration, recipients, quota)

	return &Client{
		client:     c,
		requests:   requests,
		duration:   duration,
		recipients: recipients,
		quota:      quota,
	}
}

// Send implements sms.Client.
func (c *Client) Send(ctx context.Context, message string, recipients []string, opts sms.SendOptions) error {
	start := time.Now()
	err := c.client.Send(ctx, message, recipients, opts)
	c.observe(opSend, start, err)
	if err == nil {
		c.recipients.Add(float64(len(sms.NormalizeRecipients(recipients))))
	}
	return err
}

// QueryQuota implements sms.Client.
func (c *Client) QueryQuota(ctx context.Context) (int, error) {
	start := time.Now()
	quota, err := c.client.QueryQuota(ctx)
	c.observe(opQuota, start, err)
	if err == nil {
		c.quota.Set(float64(quota))
	}
	return quota, err
}

func (c *Client) observe(op string, start time.Time, err error) {
	c.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	c.requests.WithLabelValues(op, result(err)).Inc()
}

// result labels an outcome with the error kind, or "ok".
func result(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := sms.KindOf(err); kind != 0 {
		return kind.String()
	}
	return "error"
}
