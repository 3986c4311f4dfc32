package history

import (
	"time"

	"medredact/internal/batch"
	"medredact/internal/document"
	"medredact/internal/redact"
)

// Status is the lifecycle state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is one recorded sanitize invocation.
type Run struct {
	ID         string        `json:"id"`
	Status     Status        `json:"status"`
	InputPath  string        `json:"input_path,omitempty"`
	OutputPath string        `json:"output_path,omitempty"`
	Policy     string        `json:"policy,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at,omitzero"`
	Duration   time.Duration `json:"duration"`
	Documents  int           `json:"documents"`
	Files      int           `json:"files"`
	WithText   int           `json:"with_text"`
	Changed    int           `json:"changed"`
	Totals     redact.Report `json:"totals"`
	Error      string        `json:"error,omitempty"`
}

// FileStat is the per-file breakdown of a run.
type FileStat struct {
	Filename     string `json:"filename"`
	Pages        int    `json:"pages"`
	ChangedPages int    `json:"changed_pages"`
	IDs          int    `json:"ids"`
	NameSpans    int    `json:"name_spans"`
}

// RunRequest describes a run being started.
type RunRequest struct {
	InputPath  string
	OutputPath string
	Policy     string
}

// FileStats folds per-document reports into per-file counts, in order of
// first appearance. reports[i] belongs to docs[i].
func FileStats(docs []document.Document, reports []redact.Report) []FileStat {
	index := make(map[string]int)
	var stats []FileStat
	for i, doc := range docs {
		pos, ok := index[doc.Filename]
		if !ok {
			pos = len(stats)
			index[doc.Filename] = pos
			stats = append(stats, FileStat{Filename: doc.Filename})
		}
		stat := &stats[pos]
		stat.Pages++
		if i >= len(reports) {
			continue
		}
		if reports[i].Changed() {
			stat.ChangedPages++
		}
		stat.IDs += reports[i].IDs
		stat.NameSpans += reports[i].NameSpans
	}
	return stats
}

func applySummary(run *Run, summary batch.Summary) {
	run.Documents = summary.Documents
	run.Files = summary.Files
	run.WithText = summary.WithText
	run.Changed = summary.Changed
	run.Totals = summary.Totals
	run.Duration = summary.Duration
}
