package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"
)

// Exercises a running portal-api end to end with the seeded master account:
// login, platform config, a broadcast, system reports, logout.
func main() {
	base := os.Getenv("PORTAL_SMOKE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	identifier := os.Getenv("PORTAL_SMOKE_IDENTIFIER")
	if identifier == "" {
		identifier = "9000000001"
	}
	password := os.Getenv("PORTAL_SMOKE_PASSWORD")
	if password == "" {
		password = "password"
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		log.Fatalf("cookie jar: %v", err)
	}
	client := &http.Client{Jar: jar, Timeout: 10 * time.Second}

	var login struct {
		Redirect string `json:"redirect"`
	}
	postJSON(client, base+"/auth/login", map[string]string{
		"identifier": identifier,
		"password":   password,
	}, &login)
	if login.Redirect != "/administrator" {
		log.Fatalf("login redirect = %q, want /administrator", login.Redirect)
	}

	var config struct {
		Config []struct {
			Key string `json:"config_key"`
		} `json:"config"`
	}
	getJSON(client, base+"/api/master/platform-config", &config)
	if len(config.Config) == 0 {
		log.Fatal("platform config is empty; run migrate seed first")
	}

	var broadcast struct {
		NotificationID int64 `json:"notification_id"`
		Fanout         int   `json:"fanout"`
	}
	postJSON(client, base+"/api/master/notification-manager", map[string]string{
		"target_type": "all",
		"message":     fmt.Sprintf("smoke broadcast %d", time.Now().Unix()),
	}, &broadcast)
	if broadcast.NotificationID == 0 {
		log.Fatal("broadcast was not recorded")
	}

	var reports struct {
		Summary map[string]any `json:"summary"`
	}
	getJSON(client, base+"/api/master/system-reports", &reports)
	if reports.Summary == nil {
		log.Fatal("system reports returned no summary")
	}

	postJSON(client, base+"/auth/logout", nil, nil)

	// The revoked session must be dead.
	resp, err := client.Get(base + "/api/master/platform-config")
	if err != nil {
		log.Fatalf("post-logout request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		log.Fatalf("post-logout status = %d, want 401", resp.StatusCode)
	}

	fmt.Printf("portal smoke test passed: broadcast=%d fanout=%d\n", broadcast.NotificationID, broadcast.Fanout)
}

func postJSON(client *http.Client, url string, payload any, dst any) {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			log.Fatalf("encode %s: %v", url, err)
		}
	}
	resp, err := client.Post(url, "application/json", &body)
	if err != nil {
		log.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		log.Fatalf("POST %s: status %d", url, resp.StatusCode)
	}
	if dst != nil {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			log.Fatalf("decode %s: %v", url, err)
		}
	}
}

func getJSON(client *http.Client, url string, dst any) {
	resp, err := client.Get(url)
	if err != nil {
		log.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		log.Fatalf("decode %s: %v", url, err)
	}
}
