package subtitles

import "fmt"

// Validate checks parsed entries for problems that still allow rendering but
// are worth surfacing. mediaSeconds bounds the last end time when positive.
// An empty result means validation passed.
func Validate(entries []Entry, mediaSeconds float64) []string {
	if len(entries) == 0 {
		return []string{"empty_subtitle_file"}
	}

	var issues []string
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if cur.Index <= prev.Index {
			issues = append(issues, fmt.Sprintf("index_not_increasing: entry %d follows %d", cur.Index, prev.Index))
		}
		if cur.Start < prev.End {
			issues = append(issues, fmt.Sprintf("overlap: entry %d starts %.3fs before entry %d ends", cur.Index, prev.End-cur.Start, prev.Index))
		}
	}

	blank := 0
	for _, entry := range entries {
		if entry.Text == "" {
			blank++
		}
	}
	if blank > 0 {
		issues = append(issues, fmt.Sprintf("blank_text: %d entries", blank))
	}

	if mediaSeconds > 0 {
		last := entries[len(entries)-1]
		if last.End > mediaSeconds+1 {
			issues = append(issues, fmt.Sprintf("exceeds_media: last entry ends at %.3fs, media is %.3fs", last.End, mediaSeconds))
		}
	}
	return issues
}
