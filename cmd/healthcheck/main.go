package main

import (
	"net/http"
	"os"
	"time"
)

// Container healthcheck: probe the public games endpoint on the local
// server and exit non-zero when it is unreachable or erroring.
func main() {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://127.0.0.1:8080/api/public-games")
	if err != nil {
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		os.Exit(1)
	}
	os.Exit(0)
}
