package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"mckitchen/internal/kitchen"
)

// Drive a running server through a short scenario: a mixed batch of orders,
// two bots, a mid-flight bot removal, and a few status polls.
func main() {
	base := flag.String("addr", "http://localhost:8080", "server base URL")
	polls := flag.Int("polls", 5, "number of status polls")
	flag.Parse()

	client := &http.Client{Timeout: 5 * time.Second}

	submit := func(priority string) int {
		var resp struct {
			OrderID int `json:"order_id"`
		}
		post(client, *base+"/orders", map[string]string{"priority": priority}, &resp)
		fmt.Printf("submitted %s order %d\n", priority, resp.OrderID)
		return resp.OrderID
	}

	submit("NORMAL")
	submit("VIP")
	submit("NORMAL")
	submit("VIP")

	var bot struct {
		BotID int `json:"bot_id"`
	}
	post(client, *base+"/bots", nil, &bot)
	fmt.Printf("added bot %d\n", bot.BotID)
	post(client, *base+"/bots", nil, &bot)
	fmt.Printf("added bot %d\n", bot.BotID)

	// Remove the newest bot while it is mid-cook; its order must return
	// to the pending queue.
	time.Sleep(500 * time.Millisecond)
	req, err := http.NewRequest(http.MethodDelete, *base+"/bots", nil)
	if err != nil {
		log.Fatalf("failed to build request: %v", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("failed to remove bot: %v", err)
	}
	resp.Body.Close()
	fmt.Println("removed newest bot")

	for i := 0; i < *polls; i++ {
		var snap kitchen.Snapshot
		get(client, *base+"/status", &snap)
		fmt.Printf("pending=%d processing=%d complete=%d bots=%d\n",
			len(snap.Pending), len(snap.Processing), len(snap.Complete), len(snap.Bots))
		for _, o := range snap.Processing {
			fmt.Printf("  order %d at %d%%\n", o.ID, o.Progress)
		}
		time.Sleep(time.Second)
	}
}

func post(client *http.Client, url string, body interface{}, out interface{}) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			log.Fatalf("failed to encode body: %v", err)
		}
	}
	resp, err := client.Post(url, "application/json", &buf)
	if err != nil {
		log.Fatalf("POST %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Fatalf("failed to decode response from %s: %v", url, err)
		}
	}
}

func get(client *http.Client, url string, out interface{}) {
	resp, err := client.Get(url)
	if err != nil {
		log.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Fatalf("failed to decode response from %s: %v", url, err)
	}
}
