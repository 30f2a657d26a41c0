package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const baseURL = "http://localhost:3000/api/chat/v1"

// Simplified DTOs for the script
type SendChatRequest struct {
	SessionId string `json:"session_id"`
	Message   string `json:"message"`
}

type SendChatResponse struct {
	Data struct {
		Reply  string `json:"reply"`
		Intent string `json:"intent"`
		Files  []struct {
			Path  string  `json:"path"`
			Score float64 `json:"score"`
		} `json:"files"`
	} `json:"data"`
}

func main() {
	fmt.Println("=== Conversational Search Simulation Client ===")

	sessionID := fmt.Sprintf("sim-%d", time.Now().Unix())
	fmt.Printf("Session: %s\n", sessionID)

	testCases := []string{
		"find my resume",
		"open the second one",
		"what about the budget spreadsheet?",
		"thanks, that's all",
	}

	for _, text := range testCases {
		fmt.Printf("\nUSER: %s\n", text)

		start := time.Now()
		reply, intent, files, err := sendChat(sessionID, text)
		elapsed := time.Since(start)

		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}

		fmt.Printf("AI [%s] (%v): %s\n", intent, elapsed, reply)
		for i, f := range files {
			fmt.Printf("   %d. %s (%.3f)\n", i+1, f.Path, f.Score)
		}

		// Small delay to allow async logs to flush on server side (optional)
		time.Sleep(1 * time.Second)
	}

	if err := clearSession(sessionID); err != nil {
		log.Printf("Failed to clear session: %v", err)
	} else {
		fmt.Printf("\nSession %s cleared.\n", sessionID)
	}
}

func sendChat(sessionID, text string) (string, string, []struct {
	Path  string  `json:"path"`
	Score float64 `json:"score"`
}, error) {
	payload, _ := json.Marshal(SendChatRequest{SessionId: sessionID, Message: text})

	resp, err := http.Post(baseURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", "", nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 {
		return "", "", nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var parsed SendChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", "", nil, err
	}
	return parsed.Data.Reply, parsed.Data.Intent, parsed.Data.Files, nil
}

func clearSession(sessionID string) error {
	req, err := http.NewRequest(http.MethodDelete, baseURL+"/sessions/"+sessionID, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
