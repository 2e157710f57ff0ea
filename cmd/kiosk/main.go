// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/makerfest/stallgen/apiclient"
	"github.com/makerfest/stallgen/cliparse"
	"github.com/makerfest/stallgen/identity"
	"github.com/makerfest/stallgen/session"
)

const banner = `AI Image Generator Competition — Maker Fest
Create images that capture the essence of the fest: stalls, projects,
decorations, the crowd. Entries are per stall, and each stall gets a
fixed number of generation attempts. Enter your stall number and
project name carefully — once submitted they cannot be changed.`

func main() {
	_ = godotenv.Load()

	cfg, err := cliparse.ParseKioskFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Prefer durable identity storage; fall back to memory-only when the
	// filesystem is not usable. The kiosk still works, the stall just has
	// to re-register after a restart.
	var store identity.Store
	fileStore, err := identity.NewFileStore(cfg.StateDir)
	if err != nil {
		slog.Warn("identity storage unavailable, running non-persistent", "error", err)
		store = &identity.MemStore{}
	} else {
		store = fileStore
	}

	client := apiclient.New(cfg.APIBaseURL)
	sess := session.New(store, client, slog.Default())

	fmt.Println(banner)
	fmt.Println()

	sess.Boot(ctx)
	run(ctx, sess)
}

// run drives the session state machine until the participant quits or
// the session reaches a terminal state.
func run(ctx context.Context, sess *session.Session) {
	in := bufio.NewReader(os.Stdin)

	for ctx.Err() == nil {
		switch sess.State() {
		case session.StateUnregistered:
			registerScreen(ctx, sess, in)
		case session.StateQuotaUnknown:
			quotaRetryScreen(ctx, sess, in)
		case session.StateReady:
			generateScreen(ctx, sess, in)
		case session.StateResult:
			if done := resultScreen(ctx, sess, in); done {
				return
			}
		case session.StateExhausted:
			quota := sess.Quota()
			fmt.Printf("\nAll %d generations for stall %s have been used. Good luck in the judging!\n",
				quota.Total, sess.StallNo())
			return
		default:
			return
		}
	}
}

func registerScreen(ctx context.Context, sess *session.Session, in *bufio.Reader) {
	fmt.Println("— Register for the Competition —")
	projectName := promptLine(in, "Project name: ")
	stallNo := promptLine(in, "Stall number: ")

	err := sess.Register(ctx, projectName, stallNo)
	if err == nil {
		fmt.Println("Registration successful!")
		return
	}

	var fieldErr *session.FieldError
	if errors.As(err, &fieldErr) {
		fmt.Printf("  %s: %s\n", fieldErr.Field, fieldErr.Message)
		return
	}
	if errors.Is(err, apiclient.ErrMalformedInput) {
		fmt.Println("Please fill in all required fields correctly.")
		return
	}
	fmt.Println("Registration failed. Please try again.")
	slog.Warn("registration failed", "error", err)
}

func quotaRetryScreen(ctx context.Context, sess *session.Session, in *bufio.Reader) {
	if err := sess.RefreshQuota(ctx); err == nil {
		return
	}
	fmt.Println("Could not confirm your generation limit. Press Enter to retry.")
	promptLine(in, "")
}

func generateScreen(ctx context.Context, sess *session.Session, in *bufio.Reader) {
	quota := sess.Quota()
	fmt.Printf("\n— Generate Your AI Image — (%d of %d attempts left)\n", quota.Remaining, quota.Total)
	if last := sess.LastPrompt(); last != "" {
		fmt.Printf("Press Enter to reuse your last prompt: %q\n", last)
	}

	prompt := promptLine(in, "Prompt: ")
	if prompt == "" {
		prompt = sess.LastPrompt()
	}

	fmt.Println("Generating... this can take up to a minute.")
	res, err := sess.Generate(ctx, prompt)
	if err == nil {
		fmt.Printf("Image generated: %s\n", res.ImageURL)
		return
	}

	switch {
	case errors.Is(err, session.ErrPromptRequired):
		fmt.Println("Please enter a prompt.")
	case errors.Is(err, apiclient.ErrQuotaExceeded), errors.Is(err, session.ErrExhausted):
		// Terminal; the exhausted screen prints the summary.
	case errors.Is(err, apiclient.ErrMalformedInput):
		fmt.Println("Invalid input. Please adjust your prompt and try again.")
	default:
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.Detail != "" {
			fmt.Println(apiErr.Detail)
		} else {
			fmt.Println("Failed to generate image. Please try again.")
		}
		slog.Warn("generation failed", "error", err)
	}
}

// resultScreen shows the held result. Returns true when the participant
// is done with the kiosk.
func resultScreen(ctx context.Context, sess *session.Session, in *bufio.Reader) bool {
	res := sess.LastResult()
	if res == nil {
		return true
	}

	fmt.Println("\n— Your AI-Generated Image —")
	fmt.Printf("  %s\n  generated %s\n", res.ImageURL, humanize.Time(res.At))
	fmt.Println("[d] download  [a] generate another  [q] quit")

	switch strings.ToLower(promptLine(in, "> ")) {
	case "d":
		if err := download(ctx, res.ImageURL); err != nil {
			fmt.Println("Download failed:", err)
		}
		return false
	case "a":
		sess.GenerateAnother()
		return false
	case "q":
		return true
	default:
		return false
	}
}

// download fetches the image URL to the working directory.
func download(ctx context.Context, imageURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	name := fmt.Sprintf("ai-generated-image-%d.png", time.Now().Unix())
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		return err
	}

	fmt.Printf("Saved %s (%s)\n", name, humanize.Bytes(uint64(n)))
	return nil
}

func promptLine(in *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}
