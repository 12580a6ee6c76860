package config

import "testing"

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{Bind: DefaultBind, Platform: "host", LogLevel: "INFO"}, false},
		{"os port", Config{Bind: "127.0.0.1:0", Platform: "host", LogLevel: "INFO"}, false},
		{"standalone", Config{Bind: "0.0.0.0:9000", Standalone: true, LogLevel: "WARN"}, false},
		{"missing port", Config{Bind: "127.0.0.1", Platform: "host", LogLevel: "INFO"}, true},
		{"hostname", Config{Bind: "localhost:8008", Platform: "host", LogLevel: "INFO"}, true},
		{"no platform", Config{Bind: DefaultBind, LogLevel: "INFO"}, true},
		{"negative device", Config{Bind: DefaultBind, Platform: "host", Device: -2, LogLevel: "INFO"}, true},
		{"bad level", Config{Bind: DefaultBind, Platform: "host", LogLevel: "TRACE"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Global = tt.cfg
			cfg, err := ValidateConfig()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && cfg.DeviceID != tt.cfg.Device {
				t.Errorf("DeviceID = %d, want %d", cfg.DeviceID, tt.cfg.Device)
			}
		})
	}
}
