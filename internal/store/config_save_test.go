package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestSaveConfig_ConcurrentWriters_DoesNotCorruptConfig(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("STATIONTREE_CONFIG_DIR", cfgDir)

	if err := SaveConfig(&GlobalConfig{RecentFiles: []string{"/tmp/seed.json"}}); err != nil {
		t.Fatalf("SaveConfig(seed): %v", err)
	}

	const n = 64
	errCh := make(chan error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			cfg, err := LoadConfig()
			if err != nil {
				errCh <- err
				return
			}
			cfg.AddRecentFile(fmt.Sprintf("/tmp/doc-%d.json", i))
			cfg.PrettyJSON = i%2 == 0

			if err := SaveConfig(cfg); err != nil {
				errCh <- err
				return
			}
		}(i)
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Errorf("concurrent SaveConfig: %v", err)
	}
	if t.Failed() {
		return
	}

	// Ensure the on-disk config is valid JSON.
	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config.json: %v", err)
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		t.Fatalf("config.json corrupted/unparseable: %v\nraw:\n%s", err, string(raw))
	}
	if len(cfg.RecentFiles) > maxRecentFiles {
		t.Fatalf("recent files not capped: %d", len(cfg.RecentFiles))
	}

	// Ensure we didn't leave behind temp files.
	ents, err := os.ReadDir(cfgDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, "config.json.") && strings.HasSuffix(name, ".tmp") {
			t.Fatalf("leftover temp file: %s", name)
		}
	}

	// Best-effort backup should be parseable if present.
	if bak, err := os.ReadFile(path + ".bak"); err == nil && len(bak) > 0 {
		var bakCfg GlobalConfig
		if err := json.Unmarshal(bak, &bakCfg); err != nil {
			t.Fatalf("config.json.bak corrupted/unparseable: %v\nraw:\n%s", err, string(bak))
		}
	}
}

func TestGlobalConfig_AddRecentFile(t *testing.T) {
	var cfg GlobalConfig
	for i := 0; i < maxRecentFiles+3; i++ {
		cfg.AddRecentFile(fmt.Sprintf("/tmp/%d.json", i))
	}
	cfg.AddRecentFile("/tmp/5.json")
	cfg.AddRecentFile("   ")

	if len(cfg.RecentFiles) != maxRecentFiles {
		t.Fatalf("expected %d recent files, got %d", maxRecentFiles, len(cfg.RecentFiles))
	}
	if cfg.RecentFiles[0] != filepath.Clean("/tmp/5.json") {
		t.Fatalf("expected most recent first, got %q", cfg.RecentFiles[0])
	}
	seen := map[string]bool{}
	for _, p := range cfg.RecentFiles {
		if seen[p] {
			t.Fatalf("duplicate recent file %q", p)
		}
		seen[p] = true
	}
}

func TestGlobalConfig_HistoryDefaults(t *testing.T) {
	var nilCfg *GlobalConfig
	if !nilCfg.HistoryEnabled() || nilCfg.HistoryKeep() != 0 {
		t.Fatalf("nil config should enable unlimited history")
	}
	cfg := &GlobalConfig{History: &HistoryConfig{Disabled: true, Keep: 3}}
	if cfg.HistoryEnabled() {
		t.Fatalf("expected history disabled")
	}
	if cfg.HistoryKeep() != 3 {
		t.Fatalf("expected keep=3, got %d", cfg.HistoryKeep())
	}
}

func TestLoadConfig_MissingFileIsEmpty(t *testing.T) {
	t.Setenv("STATIONTREE_CONFIG_DIR", t.TempDir())
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg == nil || len(cfg.RecentFiles) != 0 || cfg.PrettyJSON {
		t.Fatalf("expected zero config, got %#v", cfg)
	}
}
