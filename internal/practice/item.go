package practice

import (
	"errors"
	"fmt"
	"strings"
)

// Kind distinguishes word pairs from sentences
type Kind string

const (
	KindPair     Kind = "pair"
	KindSentence Kind = "sentence"
)

var (
	ErrEmptyDeck   = errors.New("practice deck is empty")
	ErrInvalidItem = errors.New("invalid practice item")
	ErrNoSuchWord  = errors.New("no such word in practice item")
)

// Word is a single practice target with its phonetic transcription
type Word struct {
	Text string `json:"text"`
	IPA  string `json:"ipa"`
}

// Item is one entry of the practice list. A pair carries two words, a
// sentence carries the whole phrase as its only word.
type Item struct {
	ID          string `json:"id"`
	Kind        Kind   `json:"kind"`
	Words       []Word `json:"words"`
	Translation string `json:"translation"`
}

// NewPair creates a word pair item
func NewPair(id string, first, second Word, translation string) Item {
	return Item{ID: id, Kind: KindPair, Words: []Word{first, second}, Translation: translation}
}

// NewSentence creates a sentence item
func NewSentence(id string, phrase Word, translation string) Item {
	return Item{ID: id, Kind: KindSentence, Words: []Word{phrase}, Translation: translation}
}

// Validate checks the item shape
func (it Item) Validate() error {
	if strings.TrimSpace(it.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidItem)
	}

	switch it.Kind {
	case KindPair:
		if len(it.Words) != 2 {
			return fmt.Errorf("%w: pair %s has %d words, want 2", ErrInvalidItem, it.ID, len(it.Words))
		}
	case KindSentence:
		if len(it.Words) != 1 {
			return fmt.Errorf("%w: sentence %s has %d phrases, want 1", ErrInvalidItem, it.ID, len(it.Words))
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidItem, it.Kind)
	}

	for i, w := range it.Words {
		if strings.TrimSpace(w.Text) == "" {
			return fmt.Errorf("%w: %s word %d has no text", ErrInvalidItem, it.ID, i)
		}
		if strings.TrimSpace(w.IPA) == "" {
			return fmt.Errorf("%w: %s word %q has no IPA", ErrInvalidItem, it.ID, w.Text)
		}
	}

	return nil
}

// Word returns the i-th target word of the item
func (it Item) Word(i int) (Word, error) {
	if i < 0 || i >= len(it.Words) {
		return Word{}, fmt.Errorf("%w: index %d of %s", ErrNoSuchWord, i, it.ID)
	}
	return it.Words[i], nil
}

// Deck is an immutable, cyclic list of practice items
type Deck struct {
	items []Item
}

// NewDeck validates the items and creates a deck from a copy of them
func NewDeck(items []Item) (*Deck, error) {
	if len(items) == 0 {
		return nil, ErrEmptyDeck
	}

	seen := make(map[string]bool, len(items))
	copied := make([]Item, len(items))
	for i, it := range items {
		if err := it.Validate(); err != nil {
			return nil, err
		}
		if seen[it.ID] {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidItem, it.ID)
		}
		seen[it.ID] = true

		it.Words = append([]Word(nil), it.Words...)
		copied[i] = it
	}

	return &Deck{items: copied}, nil
}

// Len returns the number of items
func (d *Deck) Len() int {
	return len(d.items)
}

// Normalize maps any index, negative ones included, onto the deck
func (d *Deck) Normalize(index int) int {
	n := len(d.items)
	return ((index % n) + n) % n
}

// At returns the item at the given index, wrapping around the deck
func (d *Deck) At(index int) Item {
	it := d.items[d.Normalize(index)]
	it.Words = append([]Word(nil), it.Words...)
	return it
}

// Next returns the index following the given one
func (d *Deck) Next(index int) int {
	return d.Normalize(index + 1)
}

// Items returns a copy of all items
func (d *Deck) Items() []Item {
	out := make([]Item, len(d.items))
	for i := range d.items {
		out[i] = d.At(i)
	}
	return out
}

// Find returns the index of the item with the given ID
func (d *Deck) Find(id string) (int, bool) {
	for i, it := range d.items {
		if it.ID == id {
			return i, true
		}
	}
	return 0, false
}
