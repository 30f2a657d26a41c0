package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // No timeout; chat turns can be slow on local models
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("🚀 Starting File Search API Test\n")

	sessionID := fmt.Sprintf("apitest-%d", time.Now().Unix())

	// 1. Status
	color.Yellow("\n1. Get Engine Status")
	resp, body, err := sendRequest("GET", "/status/v1", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var statusResp map[string]interface{}
	json.Unmarshal(body, &statusResp)
	prettyPrint(statusResp)

	// 2. Direct semantic search
	color.Yellow("\n2. Search: 'budget' (semantic)")
	resp, body, err = sendRequest("POST", "/search/v1", map[string]interface{}{
		"query": "budget",
		"top_k": 5,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var searchResp map[string]interface{}
	json.Unmarshal(body, &searchResp)
	prettyPrint(searchResp)

	// 3. Slash-filter search
	color.Yellow("\n3. Search: '/ext:pdf report' (literal filter)")
	resp, body, err = sendRequest("POST", "/search/v1", map[string]interface{}{
		"query": "/ext:pdf report",
	})
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		var filterResp map[string]interface{}
		json.Unmarshal(body, &filterResp)
		prettyPrint(filterResp)
	}

	// 4. Chat turn: fresh search
	color.Yellow("\n4. Chat: 'find my resume'")
	resp, body, err = sendRequest("POST", "/chat/v1", map[string]interface{}{
		"session_id": sessionID,
		"message":    "find my resume",
	})
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		printChatReply(body)
	}

	// 5. Chat turn: reference into last results
	color.Yellow("\n5. Chat: 'open the first one'")
	resp, body, err = sendRequest("POST", "/chat/v1", map[string]interface{}{
		"session_id": sessionID,
		"message":    "open the first one",
	})
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		printChatReply(body)
	}

	// 6. History
	color.Yellow("\n6. Get Session History")
	resp, body, err = sendRequest("GET", "/chat/v1/sessions/"+sessionID+"/history", nil)
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		var histResp map[string]interface{}
		json.Unmarshal(body, &histResp)
		if data, ok := histResp["data"].(map[string]interface{}); ok {
			if turns, ok := data["turns"].([]interface{}); ok {
				fmt.Printf("Turns recorded: %d\n", len(turns))
			}
		}
	}

	// 7. Cleanup
	color.Yellow("\n7. Cleanup: Clear Session")
	resp, body, err = sendRequest("DELETE", "/chat/v1/sessions/"+sessionID, nil)
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		var clearResp map[string]interface{}
		json.Unmarshal(body, &clearResp)
		prettyPrint(clearResp)
	}

	color.Cyan("\n✅ API Test Complete")
}

// Concise printing for chat responses to avoid huge preview dumps
func printChatReply(body []byte) {
	var chatResp map[string]interface{}
	json.Unmarshal(body, &chatResp)
	if data, ok := chatResp["data"].(map[string]interface{}); ok {
		fmt.Printf("Intent: %v\n", data["intent"])
		fmt.Printf("Reply: %v\n", data["reply"])
		if files, ok := data["files"].([]interface{}); ok {
			fmt.Printf("Files: %d\n", len(files))
		}
		return
	}
	prettyPrint(chatResp)
}
