package mqtt

import (
	"strings"
	"testing"

	"github.com/mvickery/hearth-core/internal/infrastructure/config"
)

func TestTopics(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "event", got: topics.Event("timer_fired"), want: "hearth/event/timer_fired"},
		{name: "owner event", got: topics.OwnerEvent("abc", "alert_triggered"), want: "hearth/event/owner/abc/alert_triggered"},
		{name: "system status", got: topics.SystemStatus(), want: "hearth/system/status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("topic = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "broker.local",
			Port:     8883,
			ClientID: "hearth-core",
			TLS:      true,
		},
		Auth: config.MQTTAuthConfig{Username: "hearth", Password: "secret"},
		QoS:  1,
	}

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 {
		t.Fatalf("servers = %d, want 1", len(opts.Servers))
	}
	if got := opts.Servers[0].String(); got != "ssl://broker.local:8883" {
		t.Errorf("broker URL = %q, want ssl scheme for TLS config", got)
	}
	if opts.ClientID != "hearth-core" {
		t.Errorf("ClientID = %q", opts.ClientID)
	}
	if opts.Username != "hearth" {
		t.Errorf("Username = %q", opts.Username)
	}
	if opts.TLSConfig == nil {
		t.Error("TLSConfig not set despite TLS enabled")
	}
}

func TestStatusPayloads(t *testing.T) {
	online := buildOnlinePayload("hearth-core")
	if !strings.Contains(online, `"status":"online"`) || !strings.Contains(online, "hearth-core") {
		t.Errorf("online payload = %s", online)
	}

	offline := buildOfflinePayload("hearth-core")
	if !strings.Contains(offline, `"status":"offline"`) || !strings.Contains(offline, "graceful_shutdown") {
		t.Errorf("offline payload = %s", offline)
	}
}
