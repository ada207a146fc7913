package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/smallwins/internal/constants"
)

const trayExecutable = "smallwins-tray"

// ErrTrayNotRunning is returned when no live tray owns the lockfile.
var ErrTrayNotRunning = errors.New(trayExecutable + " is not running")

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// TraySender posts reminders to the desktop tray companion over its local
// webhook.
type TraySender struct {
	client *http.Client
}

// TrayMessage is the webhook body the tray expects.
type TrayMessage struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

func NewTraySender() *TraySender {
	return &TraySender{client: &http.Client{Timeout: 5 * time.Second}}
}

func (t *TraySender) Name() string { return constants.ChannelTray }

func (t *TraySender) Available(ctx context.Context) bool {
	_, err := currentTrayLock()
	return err == nil
}

func (t *TraySender) Send(ctx context.Context, title, body string) error {
	lock, err := currentTrayLock()
	if err != nil {
		return err
	}
	return t.post(ctx, lock, TrayMessage{
		Text:       title + ": " + body,
		DurationMs: constants.NotificationDurationMs,
	})
}

// TrayDir is where the tray keeps its lockfile. The tray's settings.json can
// move it with settings.lockfile_dir.
func TrayDir() (string, error) {
	base, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	dir := filepath.Join(base, constants.TrayAppIdentifier)

	raw, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	if err != nil {
		return dir, nil
	}
	var doc struct {
		Settings struct {
			LockfileDir string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if json.Unmarshal(raw, &doc) == nil && doc.Settings.LockfileDir != "" {
		return doc.Settings.LockfileDir, nil
	}
	return dir, nil
}

// trayLock is the lockfile content, written by the tray as "port|pid|secret".
type trayLock struct {
	Port   int
	PID    int
	Secret string
}

func currentTrayLock() (trayLock, error) {
	dir, err := TrayDir()
	if err != nil {
		return trayLock{}, err
	}
	return readTrayLock(filepath.Join(dir, constants.NotifierLockfileName))
}

// readTrayLock parses the lockfile at path and checks the pid it names
// belongs to a running tray.
func readTrayLock(path string) (trayLock, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return trayLock{}, ErrTrayNotRunning
	}
	lock, err := parseTrayLock(string(raw))
	if err != nil {
		return trayLock{}, err
	}
	if err := lock.verify(); err != nil {
		return trayLock{}, err
	}
	return lock, nil
}

func parseTrayLock(s string) (trayLock, error) {
	fields := strings.Split(strings.TrimSpace(s), "|")
	if len(fields) != 3 {
		return trayLock{}, errors.New("tray lockfile is malformed")
	}

	var lock trayLock
	portField := strings.TrimSpace(fields[0])
	if portField == "" {
		return trayLock{}, errors.New("tray lockfile has an empty port")
	}
	port, err := strconv.Atoi(portField)
	if err != nil {
		return trayLock{}, fmt.Errorf("tray lockfile has an invalid port %q", portField)
	}
	if port < 1 || port > 65535 {
		return trayLock{}, fmt.Errorf("tray port %d is out of range", port)
	}
	lock.Port = port

	if lock.PID, err = strconv.Atoi(strings.TrimSpace(fields[1])); err != nil {
		return trayLock{}, errors.New("tray lockfile has an invalid process ID")
	}
	lock.Secret = strings.TrimSpace(fields[2])
	if lock.Secret == "" {
		return trayLock{}, errors.New("tray lockfile has an empty secret")
	}
	return lock, nil
}

func (l trayLock) verify() error {
	proc, err := findProcessFunc(l.PID)
	if err != nil || proc == nil {
		return ErrTrayNotRunning
	}
	if exe := proc.Executable(); !strings.HasPrefix(exe, trayExecutable) {
		return fmt.Errorf("pid %d belongs to %s, not %s", l.PID, exe, trayExecutable)
	}
	return nil
}

func (t *TraySender) post(ctx context.Context, lock trayLock, msg TrayMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	endpoint := "http://127.0.0.1:" + strconv.Itoa(lock.Port)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Smallwins-Secret", lock.Secret)

	res, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("tray unreachable: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("tray rejected reminder (%d): %s", res.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
