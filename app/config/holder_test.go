package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const testConfigJSON = `{
  "crawler": {
    "apiUrl": "https://ngabbs.com/app_api.php?__lib=post&__act=list",
    "ngaPassportUid": "111",
    "ngaPassportCid": "aaa",
    "userAgent": "NGA_WP_JW",
    "timeout": 10
  },
  "monitor": {
    "monitorDuration": 60,
    "fetchPostsParallelLimit": 3,
    "monitoredThreads": [
      {
        "tid": 100,
        "authorNotification": [7],
        "checkInterval": 300,
        "enabled": true,
        "lastSeenPostNumber": 40
      }
    ]
  },
  "notifier": {
    "console": {"enabled": true}
  },
  "web": {"host": "127.0.0.1", "port": 8080}
}`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestNewHolder_LoadsConfig(t *testing.T) {
	holder, err := NewHolder(writeTestConfig(t, testConfigJSON))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	snapshot := holder.Snapshot()
	if snapshot.Crawler.NGAPassportUID != "111" {
		t.Errorf("Expected passport uid '111', got %q", snapshot.Crawler.NGAPassportUID)
	}
	if len(snapshot.Monitor.MonitoredThreads) != 1 {
		t.Fatalf("Expected 1 monitored thread, got %d", len(snapshot.Monitor.MonitoredThreads))
	}
	if snapshot.Monitor.MonitoredThreads[0].LastSeenPostNumber != 40 {
		t.Errorf("Expected watermark 40, got %d",
			snapshot.Monitor.MonitoredThreads[0].LastSeenPostNumber)
	}
}

func TestNewHolder_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing file", ""},
		{"malformed json", `{"crawler":`},
		{"missing api url", `{"crawler": {}, "monitor": {"monitorDuration": 60, "fetchPostsParallelLimit": 3}}`},
		{"zero parallel limit", `{"crawler": {"apiUrl": "https://example.com"}, "monitor": {"monitorDuration": 60, "fetchPostsParallelLimit": 0}}`},
		{"zero monitor duration", `{"crawler": {"apiUrl": "https://example.com"}, "monitor": {"monitorDuration": 0, "fetchPostsParallelLimit": 3}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path string
			if tt.content == "" {
				path = filepath.Join(t.TempDir(), "missing.json")
			} else {
				path = writeTestConfig(t, tt.content)
			}
			if _, err := NewHolder(path); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestUpdateLastSeen_PersistsAndSurvivesReload(t *testing.T) {
	path := writeTestConfig(t, testConfigJSON)
	holder, err := NewHolder(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := holder.UpdateLastSeen(map[uint64]uint64{100: 62}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := holder.MonitorConfig().MonitoredThreads[0].LastSeenPostNumber; got != 62 {
		t.Errorf("Expected in-memory watermark 62, got %d", got)
	}

	reloaded, err := NewHolder(path)
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if got := reloaded.MonitorConfig().MonitoredThreads[0].LastSeenPostNumber; got != 62 {
		t.Errorf("Expected persisted watermark 62, got %d", got)
	}
}

func TestUpdateLastSeen_NeverDecreases(t *testing.T) {
	holder, err := NewHolder(writeTestConfig(t, testConfigJSON))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := holder.UpdateLastSeen(map[uint64]uint64{100: 30}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := holder.MonitorConfig().MonitoredThreads[0].LastSeenPostNumber; got != 40 {
		t.Errorf("Watermark regressed: expected 40, got %d", got)
	}
}

func TestUpdateLastSeen_UnknownTIDIgnored(t *testing.T) {
	holder, err := NewHolder(writeTestConfig(t, testConfigJSON))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := holder.UpdateLastSeen(map[uint64]uint64{999: 10}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := holder.MonitorConfig().MonitoredThreads[0].LastSeenPostNumber; got != 40 {
		t.Errorf("Unrelated thread touched: expected 40, got %d", got)
	}
}

func TestUpdateLastSeen_RewriteIsIdempotent(t *testing.T) {
	path := writeTestConfig(t, testConfigJSON)
	holder, err := NewHolder(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := holder.UpdateLastSeen(map[uint64]uint64{100: 62}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	if err := holder.UpdateLastSeen(map[uint64]uint64{100: 62}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("Applying the same watermark twice must produce identical files")
	}
}

func TestUpdatePassport(t *testing.T) {
	path := writeTestConfig(t, testConfigJSON)
	holder, err := NewHolder(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := holder.UpdatePassport("bbb", "222"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	reloaded, err := NewHolder(path)
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	crawlerConfig := reloaded.CrawlerConfig()
	if crawlerConfig.NGAPassportCID != "bbb" || crawlerConfig.NGAPassportUID != "222" {
		t.Errorf("Expected passport bbb/222, got %s/%s",
			crawlerConfig.NGAPassportCID, crawlerConfig.NGAPassportUID)
	}
}

func TestSnapshot_IsIsolatedFromHolder(t *testing.T) {
	holder, err := NewHolder(writeTestConfig(t, testConfigJSON))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	snapshot := holder.MonitorConfig()
	snapshot.MonitoredThreads[0].LastSeenPostNumber = 9999
	snapshot.MonitoredThreads[0].AuthorNotification[0] = 9999

	fresh := holder.MonitorConfig()
	if fresh.MonitoredThreads[0].LastSeenPostNumber != 40 {
		t.Error("Mutating a snapshot leaked into the holder")
	}
	if fresh.MonitoredThreads[0].AuthorNotification[0] != 7 {
		t.Error("Mutating a snapshot's author list leaked into the holder")
	}
}
