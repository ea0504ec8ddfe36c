package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"
)

var (
	seedCount int
	seedOut   string
	seedWrap  bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate a sample raw batch file",
	Long: `Writes a JSON batch of fake audit entries for exercising the pipeline:
mixed identity and event-type key spellings, embedded IPs, off-hours
timestamps, the occasional unparseable timestamp, and a burst of login
attempts from one address so the detectors have something to find.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 50, "number of entries to generate")
	seedCmd.Flags().StringVar(&seedOut, "out", "sample_logs.json", "output file")
	seedCmd.Flags().BoolVar(&seedWrap, "wrap", false, `wrap entries in an object with a "records" key`)
	rootCmd.AddCommand(seedCmd)
}

var (
	identityKeys = []string{"user", "username", "userName", "account", "caller"}
	eventNames   = []string{"login", "logout", "user_auth", "file_access", "password_change", "api_call"}
	eventKeys    = []string{"eventType", "action", "event_name", "activity"}
)

func runSeed(cmd *cobra.Command, args []string) error {
	gofakeit.Seed(time.Now().UnixNano())

	burstIP := gofakeit.IPv4Address()
	entries := make([]map[string]any, 0, seedCount)

	for i := 0; i < seedCount; i++ {
		entries = append(entries, generateEntry(i, burstIP))
	}

	var doc any = entries
	if seedWrap {
		doc = map[string]any{"records": entries}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}
	if err := os.WriteFile(seedOut, data, 0o644); err != nil {
		return fmt.Errorf("write batch: %w", err)
	}

	logger.Info("sample batch written", "path", seedOut, "entries", seedCount)
	return nil
}

func generateEntry(i int, burstIP string) map[string]any {
	entry := map[string]any{}

	// Every fifth entry is part of a login burst from one address.
	if i%5 == 0 {
		entry["eventType"] = "login"
		entry["sourceIPAddress"] = burstIP
		entry["user"] = "admin"
	} else {
		entry[eventKeys[rand.Intn(len(eventKeys))]] = eventNames[rand.Intn(len(eventNames))]
		entry[identityKeys[rand.Intn(len(identityKeys))]] = gofakeit.Username()
		if rand.Intn(3) > 0 {
			entry["clientIP"] = gofakeit.IPv4Address()
		}
	}

	switch rand.Intn(5) {
	case 0:
		// Off-hours activity.
		entry["time"] = time.Date(2024, 3, 1, 22, rand.Intn(60), rand.Intn(60), 0, time.UTC).
			Format("2006-01-02T15:04:05")
	case 1:
		// Space-separated legacy format.
		entry["timestamp"] = time.Date(2024, 3, 1, 10, rand.Intn(60), rand.Intn(60), 0, time.UTC).
			Format("2006-01-02 15:04:05")
	case 2:
		// Unparseable timestamp.
		entry["time"] = gofakeit.Word()
	default:
		entry["time"] = time.Date(2024, 3, 1, 9+rand.Intn(7), rand.Intn(60), rand.Intn(60), 0, time.UTC).
			Format("2006-01-02T15:04:05")
	}

	return entry
}
