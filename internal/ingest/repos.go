package ingest

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

// LoadRepositories reads a newline-delimited list of repository references.
// Blank lines are ignored.
func LoadRepositories(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open repositories file: %w", err)
	}
	defer f.Close()

	var repos []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		repos = append(repos, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read repositories file: %w", err)
	}
	return repos, nil
}

// RunCycle loads the repository list fresh from disk and runs one workflow
// pass. A missing or unreadable list aborts the cycle with a log line; the
// next scheduled cycle retries.
func (s *Service) RunCycle(ctx context.Context, reposFile string) {
	repos, err := LoadRepositories(reposFile)
	if err != nil {
		log.Printf("aborting cycle: %v", err)
		return
	}
	s.RunOnce(ctx, repos)
}
