package practice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"codeberg.org/snonux/proncoach/internal"
)

// wordPattern splits "text [ipa]" or "text /ipa/" into its parts
var wordPattern = regexp.MustCompile(`^\s*(.+?)\s*(?:\[([^\]]*)\]|/([^/]*)/)?\s*$`)

// ReadItemsFile reads a custom practice list from a file
// Supports formats:
// - Pair: "ship [ʃɪp] | sheep [ʃiːp] = кораб / овца"
// - Sentence: "Good morning! [ɡʊd ˈmɔːnɪŋ] = Добро утро!"
// - IPA and translation may be left out: "ship | sheep"
// Blank lines and lines starting with '#' are ignored.
func ReadItemsFile(filename string) ([]Item, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read items file: %w", err)
	}
	return ParseItems(string(content))
}

// ParseItems parses practice items from text in the items file format
func ParseItems(content string) ([]Item, error) {
	var items []Item
	ids := make(map[string]int)

	for n, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		item, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}

		// Disambiguate repeated entries
		ids[item.ID]++
		if count := ids[item.ID]; count > 1 {
			item.ID = fmt.Sprintf("%s-%d", item.ID, count)
		}

		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, ErrEmptyDeck
	}
	return items, nil
}

func parseLine(line string) (Item, error) {
	left, translation := line, ""
	if idx := strings.Index(line, "="); idx >= 0 {
		left = strings.TrimSpace(line[:idx])
		translation = strings.TrimSpace(line[idx+1:])
	}
	if left == "" {
		return Item{}, fmt.Errorf("%w: missing practice text", ErrInvalidItem)
	}

	if strings.Contains(left, "|") {
		parts := strings.Split(left, "|")
		if len(parts) != 2 {
			return Item{}, fmt.Errorf("%w: a pair needs exactly two words, got %d", ErrInvalidItem, len(parts))
		}
		first, err := parseWord(parts[0])
		if err != nil {
			return Item{}, err
		}
		second, err := parseWord(parts[1])
		if err != nil {
			return Item{}, err
		}
		return NewPair(itemID(first.Text, second.Text), first, second, translation), nil
	}

	phrase, err := parseWord(left)
	if err != nil {
		return Item{}, err
	}
	return NewSentence(itemID(phrase.Text), phrase, translation), nil
}

func parseWord(s string) (Word, error) {
	m := wordPattern.FindStringSubmatch(s)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return Word{}, fmt.Errorf("%w: empty word", ErrInvalidItem)
	}

	ipa := m[2]
	if ipa == "" {
		ipa = m[3]
	}
	return Word{Text: strings.TrimSpace(m[1]), IPA: strings.TrimSpace(ipa)}, nil
}

func itemID(texts ...string) string {
	parts := make([]string, 0, len(texts))
	for _, t := range texts {
		id := strings.Trim(internal.SanitizeFilename(strings.ToLower(t)), "_")
		if len(id) > 32 {
			id = id[:32]
		}
		parts = append(parts, id)
	}
	return strings.Join(parts, "-")
}

// IPASource looks up the IPA transcription of a word or phrase
type IPASource interface {
	FetchIPA(ctx context.Context, text string) (string, error)
}

// Translator translates practice text into the learner's language
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Enrich fills in missing IPA and translations. Items that still fail
// validation afterwards are dropped; the reasons are returned joined.
func Enrich(ctx context.Context, items []Item, ipa IPASource, tr Translator) ([]Item, error) {
	var kept []Item
	var errs []error

	for _, it := range items {
		it.Words = append([]Word(nil), it.Words...)

		for i, w := range it.Words {
			if w.IPA != "" || ipa == nil {
				continue
			}
			fetched, err := ipa.FetchIPA(ctx, w.Text)
			if err != nil {
				errs = append(errs, fmt.Errorf("ipa for %q: %w", w.Text, err))
				continue
			}
			it.Words[i].IPA = fetched
		}

		if it.Translation == "" && tr != nil {
			translations := make([]string, 0, len(it.Words))
			for _, w := range it.Words {
				t, err := tr.Translate(ctx, w.Text)
				if err != nil {
					errs = append(errs, fmt.Errorf("translation for %q: %w", w.Text, err))
					translations = nil
					break
				}
				translations = append(translations, t)
			}
			it.Translation = strings.Join(translations, " / ")
		}

		if err := it.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		kept = append(kept, it)
	}

	return kept, errors.Join(errs...)
}
