// Command interviewclient drives an interview session over the websocket
// protocol against a running orchestrator, for manual end-to-end testing.
// It creates a session over REST, connects, streams the interviewer's turns
// to stdout, and sends each stdin line as a candidate answer. With -audio
// it sends the file once as an audio_data frame instead of the first line.
package main

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func send(conn *websocket.Conn, typ string, payload any) {
	raw, _ := json.Marshal(payload)
	if err := conn.WriteJSON(envelope{Type: typ, Payload: raw}); err != nil {
		log.Fatalf("failed to send %s: %v", typ, err)
	}
}

func main() {
	serverAddr := flag.String("server", "http://localhost:8080", "Orchestrator base URL")
	candidate := flag.String("candidate", "Test Candidate", "Candidate name")
	job := flag.String("job", "Backend Engineer", "Job description")
	audioFile := flag.String("audio", "", "Optional audio file to send as the first answer")
	flag.Parse()

	sessionID := createSession(*serverAddr, *candidate, *job)
	log.Printf("Created session %s", sessionID)

	wsURL := strings.Replace(*serverAddr, "http", "ws", 1) + "/v1/ws/interview/" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close()
	log.Printf("Connected to %s", wsURL)

	turnDone := make(chan bool, 1) // value: interview finished
	go readLoop(conn, turnDone)

	send(conn, "start_interview", nil)
	if <-turnDone {
		return
	}

	if *audioFile != "" {
		audio, err := os.ReadFile(*audioFile)
		if err != nil {
			log.Fatalf("failed to read audio file: %v", err)
		}
		send(conn, "audio_data", map[string]string{"audio": base64.StdEncoding.EncodeToString(audio)})
		if <-turnDone {
			return
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Print("> ")
			continue
		}
		if line == "/quit" {
			endSession(*serverAddr, sessionID)
			return
		}
		send(conn, "text_input", map[string]string{"text": line})
		if <-turnDone {
			return
		}
		fmt.Print("> ")
	}
}

// readLoop prints server frames and signals the end of each turn so the
// prompt loop stays in lockstep with the conversation.
func readLoop(conn *websocket.Conn, turnDone chan<- bool) {
	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			log.Printf("connection closed: %v", err)
			os.Exit(0)
		}

		switch env.Type {
		case "session_created":
			// Ack only.
		case "text_chunk":
			var p struct {
				Text string `json:"text"`
			}
			_ = json.Unmarshal(env.Payload, &p)
			fmt.Print(p.Text)
		case "transcription":
			var p struct {
				Text string `json:"text"`
			}
			_ = json.Unmarshal(env.Payload, &p)
			fmt.Printf("[you said] %s\n", p.Text)
		case "audio_output":
			var p struct {
				Audio string `json:"audio"`
			}
			_ = json.Unmarshal(env.Payload, &p)
			log.Printf("received %d bytes of audio", len(p.Audio))
		case "response_complete":
			var p struct {
				Stage    string `json:"stage"`
				Finished bool   `json:"finished"`
			}
			_ = json.Unmarshal(env.Payload, &p)
			fmt.Printf("\n[stage: %s]\n", p.Stage)
			if !p.Finished {
				turnDone <- false
			}
		case "report":
			var pretty bytes.Buffer
			_ = json.Indent(&pretty, env.Payload, "", "  ")
			fmt.Printf("\n=== FINAL REPORT ===\n%s\n", pretty.String())
			turnDone <- true
		case "error":
			var p struct {
				Message string `json:"message"`
			}
			_ = json.Unmarshal(env.Payload, &p)
			log.Printf("server error: %s", p.Message)
			turnDone <- false
		}
	}
}

func createSession(server, candidate, job string) string {
	body, _ := json.Marshal(map[string]any{
		"candidateName":  candidate,
		"candidateId":    "local-" + time.Now().Format("150405"),
		"jobId":          "local-job",
		"jobDescription": job,
	})
	resp, err := http.Post(server+"/v1/sessions", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("failed to create session: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		log.Fatalf("session create returned %d", resp.StatusCode)
	}
	var created struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		log.Fatalf("failed to decode session response: %v", err)
	}
	return created.SessionID
}

func endSession(server, sessionID string) {
	resp, err := http.Post(server+"/v1/sessions/"+sessionID+"/end", "application/json", nil)
	if err != nil {
		log.Fatalf("failed to end session: %v", err)
	}
	defer resp.Body.Close()
	var pretty bytes.Buffer
	body := new(bytes.Buffer)
	_, _ = body.ReadFrom(resp.Body)
	_ = json.Indent(&pretty, body.Bytes(), "", "  ")
	fmt.Printf("\n=== FINAL REPORT (ended early) ===\n%s\n", pretty.String())
}
