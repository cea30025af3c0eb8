package config

import (
	"testing"
	"time"

	"github.com/oggyb/chuanglan-sms/internal/sms"
	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	for _, key := range []string{
		"SMS_ACCOUNT", "SMS_SEND_URL", "SMS_QUOTA_URL", "SMS_AFFIX", "SMS_NAME",
		"QUOTA_CACHE_TTL", "QUOTA_LOW_WATERMARK", "SCHEDULER_INTERVAL",
	} {
		t.Setenv(key, "")
	}

	cfg := New()

	assert.Equal(t, "", cfg.SMS.Account)
	assert.Equal(t, sms.DefaultSendURL, cfg.SMS.SendURL)
	assert.Equal(t, sms.DefaultQuotaURL, cfg.SMS.QuotaURL)
	assert.Equal(t, time.Minute, cfg.Quota.CacheTTL)
	assert.Equal(t, 100, cfg.Quota.LowWatermark)
	assert.Equal(t, 5*time.Minute, cfg.Scheduler.Interval)
}

func TestNew_FromEnv(t *testing.T) {
	t.Setenv("SMS_ACCOUNT", "N1234567")
	t.Setenv("SMS_PASSWORD", "e10adc3949ba59abbe56e057f20f883e")
	t.Setenv("SMS_SEND_URL", "http://gw.local/send")
	t.Setenv("SMS_AFFIX", "1234")
	t.Setenv("SMS_NAME", "【Acme】")
	t.Setenv("QUOTA_CACHE_TTL", "30s")
	t.Setenv("QUOTA_LOW_WATERMARK", "not-a-number")
	t.Setenv("REDIS_DB", "2")

	cfg := New()

	assert.Equal(t, sms.Config{
		SendURL:  "http://gw.local/send",
		QuotaURL: sms.DefaultQuotaURL,
		Affix:    "1234",
		Name:     "【Acme】",
	}, cfg.GatewayConfig())
	assert.Equal(t, "N1234567", cfg.SMS.Account)
	assert.Equal(t, 30*time.Second, cfg.Quota.CacheTTL)
	assert.Equal(t, 100, cfg.Quota.LowWatermark)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.NotNil(t, cfg.NewGatewayClient())
}
