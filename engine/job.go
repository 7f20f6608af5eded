package engine

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
)

// Job is one program waiting to be translated. Source and Line say where the
// text came from so results can be reported against it.
type Job struct {
	ID     uuid.UUID
	Source string
	Line   int
	Text   string
}

func NewJob(source string, line int, text string) Job {
	return Job{
		ID:     uuid.New(),
		Source: source,
		Line:   line,
		Text:   text,
	}
}

// NewJobs builds one job per text, numbering lines from 1.
func NewJobs(source string, texts []string) []Job {
	jobs := make([]Job, len(texts))
	for i, text := range texts {
		jobs[i] = NewJob(source, i+1, text)
	}
	return jobs
}

// Result is the outcome of a Job. Exactly one of Filter and Err is set.
type Result struct {
	Job    Job
	Filter string
	Err    error
}

// Failed counts the results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

func sortResults(results []Result) {
	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Or(
			cmp.Compare(a.Job.Source, b.Job.Source),
			cmp.Compare(a.Job.Line, b.Job.Line),
		)
	})
}
