package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

type progressEvent struct {
	JobID    string `json:"job_id"`
	Progress *struct {
		Percent int    `json:"percent"`
		Speed   string `json:"speed,omitempty"`
		ETA     string `json:"eta,omitempty"`
	} `json:"progress,omitempty"`
	Result *struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	} `json:"result,omitempty"`
}

// watchProgress streams a job's progress events over WebSocket until the
// job reaches a terminal state or the connection drops.
func watchProgress(jobID string) error {
	wsURL, err := url.Parse(serverURL)
	if err != nil {
		return err
	}
	switch wsURL.Scheme {
	case "https":
		wsURL.Scheme = "wss"
	default:
		wsURL.Scheme = "ws"
	}
	wsURL.Path = "/api/v1/downloads/" + jobID + "/progress"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect to progress stream: %w", err)
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				fmt.Println()
				return nil
			}
			return err
		}

		var event progressEvent
		if err := json.Unmarshal(data, &event); err != nil {
			continue
		}

		if event.Progress != nil {
			line := fmt.Sprintf("\r%3d%%", event.Progress.Percent)
			if event.Progress.Speed != "" {
				line += "  " + event.Progress.Speed
			}
			if event.Progress.ETA != "" {
				line += "  ETA " + event.Progress.ETA
			}
			// Pad to clear leftovers from a longer previous line.
			fmt.Print(line + strings.Repeat(" ", 8))
		}

		if event.Result != nil {
			fmt.Println()
			if !event.Result.Success {
				return fmt.Errorf("%s", event.Result.Message)
			}
			fmt.Println(event.Result.Message)
			return nil
		}
	}
}
