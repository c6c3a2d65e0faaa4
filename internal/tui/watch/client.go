package watch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/benchworks/jig-client/internal/client"
)

// --- Message types ---

type snapshotMsg client.Snapshot

type healthMsg struct {
	Status        string  `json:"status"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	Items         int     `json:"items"`
	BlinkAgeMs    float64 `json:"blink_age_ms"`
}

type tickMsg time.Time

type errMsg error

// --- Commands ---

func fetchSnapshot(apiURL string) tea.Cmd {
	return func() tea.Msg {
		var snap client.Snapshot
		if err := getJSON(apiURL+"/v1/snapshot", &snap); err != nil {
			return errMsg(err)
		}
		return snapshotMsg(snap)
	}
}

func fetchHealth(apiURL string) tea.Cmd {
	return func() tea.Msg {
		var h healthMsg
		if err := getJSON(apiURL+"/healthz", &h); err != nil {
			return errMsg(err)
		}
		return h
	}
}

func getJSON(url string, v any) error {
	httpClient := &http.Client{Timeout: 3 * time.Second}
	resp, err := httpClient.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("watch: %s returned %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
