// apps/go-server/internal/bank/bank.go
//
// Assessment content: quiz questions and card-matching symbols.
//
// Responsibilities:
//   - Parse a YAML bank document and validate it.
//   - Load a bank from a file, or fall back to the embedded default.
//   - Hold the process-wide bank, initialised once (sync.Once).
//
// Document shape:
//   symbols:   [8 distinct card faces]
//   questions: [{id, category, scenario, question, options, correct}]
//
// Constraints:
//   • Exactly cardmatch.TotalPairs distinct, non-empty symbols.
//   • At least one question; each with ≥2 options, a correct index in range,
//     and a known category (problemSolving, teamwork, communication).

package bank

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/softskill/apps/go-server/assets"
	"github.com/robalobadob/softskill/apps/go-server/internal/game/cardmatch"
	"github.com/robalobadob/softskill/apps/go-server/internal/game/quiz"
)

// Bank is one set of assessment content.
type Bank struct {
	Symbols   []string        `yaml:"symbols"`
	Questions []quiz.Question `yaml:"questions"`
}

var (
	initOnce   sync.Once
	current    *Bank
	initialErr error
)

// Init loads the process-wide bank exactly once. An empty path selects the
// embedded default.
func Init(path string) error {
	initOnce.Do(func() {
		if path == "" {
			current, initialErr = Default()
			return
		}
		current, initialErr = Load(path)
	})
	return initialErr
}

// Current returns the process-wide bank, or the embedded default if Init
// has not run or failed.
func Current() *Bank {
	if current != nil {
		return current
	}
	b, err := Default()
	if err != nil {
		// The embedded document is validated by tests; reaching this is a build defect.
		panic(err)
	}
	return b
}

// Default parses the embedded bank.
func Default() (*Bank, error) {
	data, err := assets.DefaultBank()
	if err != nil {
		return nil, fmt.Errorf("bank: read embedded default: %w", err)
	}
	return Parse(data)
}

// Load reads and validates a bank file.
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bank: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse decodes a YAML bank document. Unknown keys are rejected.
func Parse(data []byte) (*Bank, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var b Bank
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("bank: decode: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate checks the symbol set and every question.
func (b *Bank) Validate() error {
	if len(b.Symbols) != cardmatch.TotalPairs {
		return fmt.Errorf("bank: need %d symbols, got %d", cardmatch.TotalPairs, len(b.Symbols))
	}
	seen := make(map[string]struct{}, len(b.Symbols))
	for _, s := range b.Symbols {
		if s == "" {
			return errors.New("bank: empty symbol")
		}
		if _, dup := seen[s]; dup {
			return fmt.Errorf("bank: duplicate symbol %q", s)
		}
		seen[s] = struct{}{}
	}
	if err := quiz.Validate(b.Questions); err != nil {
		return fmt.Errorf("bank: %w", err)
	}
	return nil
}

// Stats returns counts of loaded content: (symbols, questions, per category).
func (b *Bank) Stats() (symbols, questions int, perCategory map[quiz.Category]int) {
	perCategory = make(map[quiz.Category]int)
	for _, q := range b.Questions {
		perCategory[q.Category]++
	}
	return len(b.Symbols), len(b.Questions), perCategory
}
