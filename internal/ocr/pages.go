package ocr

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Sentinel markers some vision models wrap around transcribed regions.
const (
	beginBoxMarker = "<|begin_of_box|>"
	endBoxMarker   = "<|end_of_box|>"
)

// StripBoxMarkers removes box sentinels from a model transcript.
func StripBoxMarkers(s string) string {
	s = strings.ReplaceAll(s, beginBoxMarker, "")
	return strings.ReplaceAll(s, endBoxMarker, "")
}

// MergePages joins per-page transcripts into one text, page boundaries
// becoming newlines.
func MergePages(pages []string) string {
	return strings.Join(pages, "\n")
}

// DiscoverPages lists a sample's page images for the given compression
// ratio in page order. Ratio 1 means the original renders, which carry no
// ratio suffix, so ratio-suffixed files are filtered out of the glob.
func DiscoverPages(dir string, ratio int) ([]string, error) {
	var pattern string
	if ratio == 1 {
		pattern = filepath.Join(dir, "page_*.png")
	} else {
		pattern = filepath.Join(dir, fmt.Sprintf("page_*_ratio%d.png", ratio))
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("ocr glob pages: %w", err)
	}

	if ratio == 1 {
		filtered := matches[:0]
		for _, m := range matches {
			if !strings.Contains(filepath.Base(m), "_ratio") {
				filtered = append(filtered, m)
			}
		}
		matches = filtered
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("ocr: no page images matching %s", pattern)
	}
	sort.Strings(matches)
	return matches, nil
}

// LoadPageTexts reads previously saved per-page OCR transcripts
// (page_*_ratioN_ocr.txt) in page order, stripping box markers and
// surrounding whitespace from each.
func LoadPageTexts(dir string, ratio int) ([]string, error) {
	pattern := filepath.Join(dir, fmt.Sprintf("page_*_ratio%d_ocr.txt", ratio))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("ocr glob transcripts: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("ocr: no transcripts matching %s", pattern)
	}
	sort.Strings(matches)

	pages := make([]string, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("ocr read transcript: %w", err)
		}
		pages = append(pages, strings.TrimSpace(StripBoxMarkers(string(data))))
	}
	return pages, nil
}
