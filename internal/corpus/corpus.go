// Package corpus loads and indexes the question/answer corpus.
//
// The source format is flat UTF-8 text with repeated blocks:
//
//	Вопрос <n>:
//	<question body>
//
//	Ответ:
//	<answer body>
//
// Blank lines separate blocks. The literal numbering in the source is
// ignored; only positional order is significant.
package corpus

import (
	"regexp"

	"quizbot/internal/domain"
)

// The answer body is a run of non-blank lines, so the blank-line
// separator after it is not consumed and back-to-back blocks all match.
var blockRe = regexp.MustCompile(`\n\n+Вопрос \d+:\n([\s\S]*?)\n\n+Ответ:\n([^\n]+(?:\n[^\n]+)*)`)

// Parse extracts question/answer pairs from raw corpus text and assigns
// sequential zero-based indices in order of appearance. Text with no
// matching blocks yields an empty slice; callers must treat that as a
// configuration error before serving anything.
func Parse(raw string) []domain.Entry {
	// Pad the front so a file that begins at the first marker matches.
	matches := blockRe.FindAllStringSubmatch("\n\n"+raw, -1)
	entries := make([]domain.Entry, 0, len(matches))
	for i, m := range matches {
		entries = append(entries, domain.Entry{
			Index:    i,
			Question: m[1],
			Answer:   m[2],
		})
	}
	return entries
}

// Corpus is the read-only indexed entry set shared by all players.
type Corpus struct {
	entries []domain.Entry
}

// New builds a corpus from parsed entries. It returns ErrEmptyCorpus for
// an empty set: every progression operation is modulo the entry count.
func New(entries []domain.Entry) (*Corpus, error) {
	if len(entries) == 0 {
		return nil, domain.ErrEmptyCorpus
	}
	return &Corpus{entries: entries}, nil
}

// Len reports the number of entries.
func (c *Corpus) Len() int { return len(c.entries) }

// Question returns the question text at index i.
func (c *Corpus) Question(i int) string { return c.entries[i].Question }

// Answer returns the canonical answer text at index i.
func (c *Corpus) Answer(i int) string { return c.entries[i].Answer }
