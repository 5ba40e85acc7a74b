package mining

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/avezina/codeocr/internal/dataset"
	"github.com/avezina/codeocr/internal/telemetry"
)

// Config holds all mining parameters. Everything is explicit: no
// process-wide defaults beyond what DefaultConfig returns.
type Config struct {
	Language     string
	CreatedAfter string // ISO date; only repos created after this qualify
	MinStars     int
	MaxStars     int
	Limit        int // samples to collect
	PoolSize     int // candidate repositories fetched before selection
	Randomize    bool
	File         FileFilter
	RequestDelay time.Duration // pause between per-repo crawls
	Rand         *rand.Rand    // optional; nil seeds from the clock
}

// DefaultConfig mirrors the filters used to build the original dataset.
func DefaultConfig() Config {
	return Config{
		Language:     "python",
		CreatedAfter: "2025-08-01",
		MinStars:     50,
		MaxStars:     200,
		Limit:        10,
		PoolSize:     50,
		Randomize:    true,
		File:         DefaultFileFilter(),
		RequestDelay: 100 * time.Millisecond,
	}
}

// Miner collects dataset samples from repository search results.
type Miner struct {
	gh  *Client
	cfg Config
	rng *rand.Rand
}

// New creates a miner over the given API client.
func New(gh *Client, cfg Config) *Miner {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Miner{gh: gh, cfg: cfg, rng: rng}
}

// Mine searches for candidate repositories, walks each for one qualifying
// source file, and returns up to cfg.Limit samples. Per-repository failures
// are logged and skipped, not fatal.
func (m *Miner) Mine(ctx context.Context) ([]dataset.Sample, error) {
	query, sort, order := m.buildQuery()
	slog.Info("mining started", "query", query, "sort", sort, "order", order, "limit", m.cfg.Limit)

	start := time.Now()
	repos, err := m.gh.SearchRepositories(ctx, query, sort, order, m.cfg.PoolSize)
	if err != nil {
		telemetry.Errors.WithLabelValues("mine", "search").Inc()
		return nil, fmt.Errorf("mine: %w", err)
	}

	if m.cfg.Randomize {
		m.rng.Shuffle(len(repos), func(i, j int) { repos[i], repos[j] = repos[j], repos[i] })
	}

	var samples []dataset.Sample
	for _, repo := range repos {
		if len(samples) >= m.cfg.Limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return samples, err
		}

		telemetry.ReposScanned.Inc()
		sample, ok, err := m.pickFile(ctx, repo)
		if err != nil {
			slog.Warn("repo crawl failed", "repo", repo.FullName, "error", err)
			continue
		}
		if ok {
			samples = append(samples, sample)
			telemetry.SamplesMined.Inc()
			slog.Info("sample mined", "id", sample.ID, "lines", sample.LineCount)
		}

		if m.cfg.RequestDelay > 0 {
			select {
			case <-time.After(m.cfg.RequestDelay):
			case <-ctx.Done():
				return samples, ctx.Err()
			}
		}
	}

	telemetry.StageDuration.WithLabelValues("mine").Observe(time.Since(start).Seconds())
	slog.Info("mining done", "samples", len(samples), "repos_scanned", len(repos))
	return samples, nil
}

// buildQuery assembles the search query, randomizing sort order and the
// star window when enabled so repeated runs sample different repositories.
func (m *Miner) buildQuery() (query, sort, order string) {
	sort, order = "stars", "desc"
	minStars, maxStars := m.cfg.MinStars, m.cfg.MaxStars

	if m.cfg.Randomize {
		sorts := []string{"stars", "forks", "updated"}
		orders := []string{"desc", "asc"}
		sort = sorts[m.rng.Intn(len(sorts))]
		order = orders[m.rng.Intn(len(orders))]

		offset := m.rng.Intn(51)
		minStars += offset
		maxStars += offset
	}

	query = fmt.Sprintf("language:%s created:>%s stars:%d..%d",
		m.cfg.Language, m.cfg.CreatedAfter, minStars, maxStars)
	return query, sort, order
}

// pickFile walks the repository root plus well-known source directories and
// returns the first file passing every filter. One sample per repository.
func (m *Miner) pickFile(ctx context.Context, repo Repository) (dataset.Sample, bool, error) {
	entries, err := m.gh.ListContents(ctx, repo.FullName, "")
	if err != nil {
		return dataset.Sample{}, false, err
	}

	var candidates []ContentEntry
	queue := entries
	for len(queue) > 0 {
		entry := queue[0]
		queue = queue[1:]

		switch entry.Type {
		case "dir":
			if crawlDirs[entry.Path] {
				sub, err := m.gh.ListContents(ctx, repo.FullName, entry.Path)
				if err != nil {
					slog.Debug("subdir listing failed", "repo", repo.FullName, "path", entry.Path, "error", err)
					continue
				}
				queue = append(queue, sub...)
			}
		case "file":
			if m.cfg.File.AcceptPath(entry.Path) {
				candidates = append(candidates, entry)
			}
		}
	}

	for _, entry := range candidates {
		if !m.cfg.File.AcceptSize(entry.Size) {
			continue
		}
		code, err := m.gh.FileContent(ctx, repo.FullName, entry.Path)
		if err != nil {
			slog.Debug("file fetch failed", "repo", repo.FullName, "path", entry.Path, "error", err)
			continue
		}
		if !m.cfg.File.AcceptCode(code) {
			continue
		}
		return dataset.Sample{
			ID:        sampleID(repo.Name, entry.Path),
			Repo:      repo.FullName,
			URL:       entry.HTMLURL,
			Code:      code,
			LineCount: countLines(code),
		}, true, nil
	}

	return dataset.Sample{}, false, nil
}

// sampleID flattens the repo name and file path into a filename-safe ID.
func sampleID(repoName, path string) string {
	return strings.ReplaceAll(repoName+"_"+path, "/", "_")
}
