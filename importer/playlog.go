package importer

import (
	"bufio"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openkara/playtrack/metrics"
	"github.com/openkara/playtrack/models"
	"github.com/openkara/playtrack/repository"
)

// LogEntry is one line of the external play log: a JSON object with at least
// a user and a song. Timestamp and duration are optional; a missing
// timestamp means the entry is stamped with ingestion time.
type LogEntry struct {
	User      string   `json:"user"`
	Song      string   `json:"song"`
	Timestamp string   `json:"timestamp"`
	Duration  *float64 `json:"duration"`
}

// Summary reports what a single import run did
type Summary struct {
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
}

// PlayLogImporter ingests a line-delimited JSON play log into the ledger.
// Re-running an import is safe: entries whose (timestamp, canonical
// performer, song) already exist are skipped.
type PlayLogImporter struct {
	Performers repository.PerformerRepositoryInterface
	Plays      repository.PlayRepositoryInterface
	Metrics    metrics.Recorder
}

// NewPlayLogImporter creates a new instance of PlayLogImporter
func NewPlayLogImporter(performers repository.PerformerRepositoryInterface, plays repository.PlayRepositoryInterface, rec metrics.Recorder) *PlayLogImporter {
	if rec == nil {
		rec = metrics.Noop{}
	}
	return &PlayLogImporter{Performers: performers, Plays: plays, Metrics: rec}
}

// ImportFromLog reads the play log at logPath and inserts every entry not
// already present in the ledger. A missing or unreadable file is a logged
// no-op, and malformed lines are skipped with a warning; only storage errors
// abort the run.
func (i *PlayLogImporter) ImportFromLog(logPath string) (Summary, error) {
	runID := uuid.New().String()

	file, err := os.Open(logPath)
	if err != nil {
		log.Printf("import %s: cannot open play log %s, skipping: %v", runID, logPath, err)
		return Summary{}, nil
	}
	defer file.Close()

	var summary Summary
	var entries []LogEntry
	usersToResolve := map[string]bool{}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			log.Printf("import %s: invalid JSON in play log: %s: %v", runID, line, err)
			summary.Skipped++
			i.Metrics.ImportLineSkipped()
			continue
		}

		entry.User = strings.TrimSpace(entry.User)
		if entry.User == "" {
			summary.Skipped++
			i.Metrics.ImportLineSkipped()
			continue
		}

		usersToResolve[entry.User] = true
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		log.Printf("import %s: error reading play log %s: %v", runID, logPath, err)
		return summary, nil
	}

	// resolve the whole batch up front so repeated names hit the identity
	// table once
	userMap := map[string]string{}
	for user := range usersToResolve {
		canonicalName, err := i.Performers.Resolve(user)
		if err != nil {
			return summary, err
		}
		userMap[user] = canonicalName
	}

	for _, entry := range entries {
		canonicalName := userMap[entry.User]

		timestamp := entry.Timestamp
		if timestamp == "" {
			timestamp = time.Now().UTC().Format(models.TimeLayout)
		}

		exists, err := i.Plays.ExistsAt(timestamp, canonicalName, entry.Song)
		if err != nil {
			return summary, err
		}
		if exists {
			summary.Duplicates++
			i.Metrics.ImportDuplicate(1)
			continue
		}

		duration := entry.Duration
		if duration == nil {
			zero := 0.0
			duration = &zero
		}

		play := models.Play{
			Timestamp:     timestamp,
			CanonicalName: canonicalName,
			Song:          entry.Song,
			Duration:      duration,
			Completed:     true,
		}
		if err := i.Plays.Insert(&play); err != nil {
			return summary, err
		}
		summary.Inserted++
		i.Metrics.ImportInserted(1)
	}

	log.Printf("import %s: %d inserted, %d duplicates, %d skipped from %s",
		runID, summary.Inserted, summary.Duplicates, summary.Skipped, logPath)
	return summary, nil
}
