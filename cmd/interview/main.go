package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/swethaThangaraj/interview-practice-agent/internal/client"
	"github.com/swethaThangaraj/interview-practice-agent/internal/config"
	"github.com/swethaThangaraj/interview-practice-agent/internal/model/interview"
	"github.com/swethaThangaraj/interview-practice-agent/internal/render"
	"github.com/swethaThangaraj/interview-practice-agent/internal/session"
	"github.com/swethaThangaraj/interview-practice-agent/internal/speech"
)

const transcriptHeight = 12

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	userID := interview.NewUserID()
	engineClient := client.New(cfg.Engine.BaseURL, cfg.Engine.Timeout)

	capture, playback := buildSpeech(cfg.Speech)

	viewport := render.NewViewport(os.Stdout, transcriptHeight)
	onUpdate := func(snap session.Snapshot) {
		if len(snap.Messages) == 0 {
			return
		}
		fmt.Println("----------------------------------------")
		viewport.Render(snap.Messages)
	}
	onNotice := func(text string) {
		fmt.Println("[notice] " + text)
	}

	ctrl := session.NewController(userID, engineClient, capture, playback, onNotice, onUpdate)
	go ctrl.Run(ctx)

	fmt.Println("Interview Practice Partner")
	fmt.Printf("User: %s\n", userID)
	fmt.Println("Commands: /start /role <name> /roles /send /mic /stopmic /feedback /reset /quit")
	fmt.Println("Any other line becomes your answer and is submitted.")

	runInput(ctx, ctrl)
}

// buildSpeech wires the speech adapters when the gateway and the audio
// commands are configured; missing pieces degrade to text-only.
func buildSpeech(cfg config.SpeechConfig) (session.Capture, session.Playback) {
	if !cfg.Enabled {
		log.Println("speech gateway not configured, running text-only")
		return nil, nil
	}

	opts := speech.GatewayOptions{
		ASRURL:           cfg.ASRURL,
		TTSURL:           cfg.TTSURL,
		AppKey:           cfg.AppKey,
		AccessKey:        cfg.AccessToken,
		Language:         cfg.Language,
		Voice:            cfg.Voice,
		HandshakeTimeout: time.Duration(cfg.Timeout) * time.Second,
	}

	var capture session.Capture
	if cfg.ASRURL != "" {
		if source := speech.NewCommandSource(cfg.RecordCommand); source != nil {
			capture = speech.NewCapture(speech.NewWSRecognizer(opts), source)
			log.Println("voice capture enabled")
		} else {
			log.Println("AUDIO_RECORD_COMMAND not set, voice capture disabled")
		}
	}

	var playback session.Playback
	if cfg.TTSURL != "" {
		if sink := speech.NewCommandSink(cfg.PlayCommand); sink != nil {
			playback = speech.NewPlayer(speech.NewWSSynthesizer(opts), sink)
			log.Println("voice playback enabled")
		} else {
			log.Println("AUDIO_PLAY_COMMAND not set, voice playback disabled")
		}
	}

	return capture, playback
}

func runInput(ctx context.Context, ctrl *session.Controller) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit":
			return
		case line == "/start":
			ctrl.StartInterview()
		case line == "/send":
			ctrl.SendReply()
		case line == "/mic":
			ctrl.StartCapture()
		case line == "/stopmic":
			ctrl.StopCapture()
		case line == "/feedback":
			ctrl.RequestFeedback()
		case line == "/reset":
			ctrl.Reset()
		case line == "/roles":
			snap := ctrl.Snapshot()
			if len(snap.Roles) == 0 {
				fmt.Printf("no catalog yet; current role: %s\n", snap.Role)
				continue
			}
			fmt.Printf("roles: %s (current: %s)\n", strings.Join(snap.Roles, ", "), snap.Role)
		case strings.HasPrefix(line, "/role "):
			ctrl.SelectRole(strings.TrimPrefix(line, "/role "))
		case strings.HasPrefix(line, "/"):
			fmt.Printf("unknown command: %s\n", line)
		default:
			ctrl.SetPendingAnswer(line)
			ctrl.SendReply()
		}
	}

	if err := scanner.Err(); err != nil {
		log.Printf("input error: %v", err)
	}
}
