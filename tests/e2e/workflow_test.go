package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const (
	TEST_SERVER_READY_TIMEOUT = 15 * time.Second
	TEST_TRIGGER_SECRET       = "e2e-secret"
)

func TestEndToEndWorkflow(t *testing.T) {
	// 1. Setup Environment
	// Allow overriding bin dir via env var, default to ../../bin (relative to tests/e2e)
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get cwd: %v", err)
	}

	binDir := os.Getenv("REMINDRAI_BIN_DIR")
	if binDir == "" {
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)
	t.Logf("Using bin dir: %s", binDir)

	cliPath := filepath.Join(binDir, "remindrai")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Fatalf("CLI binary not found at %s. Please build it first.", cliPath)
	}

	// Create temp home for isolation
	tempDir := t.TempDir()
	t.Logf("Running test in temp dir: %s", tempDir)

	var cleanEnv []string
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "HOME=") && !strings.HasPrefix(e, "REMINDRAI_") {
			cleanEnv = append(cleanEnv, e)
		}
	}
	cleanEnv = append(cleanEnv,
		fmt.Sprintf("HOME=%s", tempDir),
		fmt.Sprintf("REMINDRAI_DATABASE=%s", filepath.Join(tempDir, "remindrai.db")),
		fmt.Sprintf("REMINDRAI_TRIGGER_SECRET=%s", TEST_TRIGGER_SECRET),
	)
	configFlag := "--config=" + filepath.Join(tempDir, "config.yaml")

	// 2. Initialize storage
	t.Log("Initializing storage...")
	runCmd(t, cliPath, cleanEnv, configFlag, "init")

	// 3. Add a one-time simple intent that is already due
	due := time.Now().UTC().Add(-time.Minute)
	runCmd(t, cliPath, cleanEnv, configFlag, "intent", "add",
		"--user", "u1", "--id", "once",
		"--frequency", "one_time",
		"--date", due.Format("2006-01-02"), "--at", due.Format("15:04"),
		"--message", "stretch")

	// A daily intent that is not due yet
	runCmd(t, cliPath, cleanEnv, configFlag, "intent", "add",
		"--user", "u1", "--id", "daily",
		"--frequency", "daily", "--at", due.Add(2*time.Hour).Format("15:04"),
		"--prompt", "write a post")

	// 4. Sweep once
	t.Log("Sweeping...")
	out := runCmd(t, cliPath, cleanEnv, configFlag, "sweep")
	if !strings.Contains(out, "Processed 1 intent(s)") {
		t.Fatalf("Expected one processed intent, got: %s", out)
	}

	out = runCmd(t, cliPath, cleanEnv, configFlag, "draft", "list", "--user", "u1", "--full")
	if !strings.Contains(out, "stretch") {
		t.Errorf("Expected draft with message, got: %s", out)
	}
	out = runCmd(t, cliPath, cleanEnv, configFlag, "execution", "list", "--user", "u1")
	if !strings.Contains(out, "executed") {
		t.Errorf("Expected executed record, got: %s", out)
	}
	out = runCmd(t, cliPath, cleanEnv, configFlag, "intent", "show", "users/u1/reminders/once")
	if !strings.Contains(out, "disabled") {
		t.Errorf("Expected one-time intent to be disabled, got: %s", out)
	}

	// A consumed one-time intent cannot be switched back on
	enable := exec.Command(cliPath, configFlag, "intent", "enable", "users/u1/reminders/once")
	enable.Env = cleanEnv
	if enableOut, err := enable.CombinedOutput(); err == nil {
		t.Errorf("Expected enable of a consumed one-time intent to fail, got: %s", enableOut)
	} else if !strings.Contains(string(enableOut), "already run") {
		t.Errorf("Expected already-run error, got: %s", enableOut)
	}

	// A second sweep finds nothing due
	out = runCmd(t, cliPath, cleanEnv, configFlag, "sweep")
	if !strings.Contains(out, "Processed 0 intent(s)") {
		t.Errorf("Expected nothing due on second sweep, got: %s", out)
	}

	// 5. Serve the HTTP trigger
	addr := freeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serveCmd := exec.CommandContext(ctx, cliPath, configFlag, "serve", "--no-timer", "--addr", addr)
	serveCmd.Env = cleanEnv
	if err := serveCmd.Start(); err != nil {
		t.Fatalf("Failed to start serve: %v", err)
	}
	defer func() {
		cancel()
		_ = serveCmd.Wait()
	}()

	base := "http://" + addr
	waitForServer(t, base+"/healthz", TEST_SERVER_READY_TIMEOUT)

	resp := post(t, base+"/v1/sweep", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 without secret, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = post(t, base+"/v1/sweep", TEST_TRIGGER_SECRET)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 from sweep, got %d", resp.StatusCode)
	}
	var summary struct {
		Processed int `json:"processed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatalf("Failed to decode sweep summary: %v", err)
	}
	if summary.Processed != 0 {
		t.Errorf("Expected nothing due, got %d processed", summary.Processed)
	}
}

func runCmd(t *testing.T, path string, env []string, args ...string) string {
	cmd := exec.Command(path, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Command %s %v failed: %v\nOutput: %s", path, args, err, out)
	}
	return string(out)
}

func post(t *testing.T, url, secret string) *http.Response {
	req, err := http.NewRequest(http.MethodPost, url, nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	if secret != "" {
		req.Header.Set("X-Remindrai-Trigger-Secret", secret)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request to %s failed: %v", url, err)
	}
	return resp
}

func freeAddr(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to find a free port: %v", err)
	}
	defer l.Close()
	return l.Addr().String()
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	start := time.Now()
	for {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		if time.Since(start) > timeout {
			t.Fatalf("Timed out waiting for server: %s", url)
		}
		time.Sleep(100 * time.Millisecond)
	}
}
