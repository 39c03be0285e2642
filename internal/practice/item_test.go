package practice

import (
	"errors"
	"testing"
)

func TestDefaultItemsValid(t *testing.T) {
	items := DefaultItems()
	if len(items) == 0 {
		t.Fatal("DefaultItems returned no items")
	}

	deck, err := NewDeck(items)
	if err != nil {
		t.Fatalf("NewDeck(DefaultItems()) error = %v", err)
	}

	pairs, sentences := 0, 0
	for _, it := range deck.Items() {
		switch it.Kind {
		case KindPair:
			pairs++
		case KindSentence:
			sentences++
		}
	}
	if pairs == 0 || sentences == 0 {
		t.Errorf("Expected both pairs and sentences, got %d pairs and %d sentences", pairs, sentences)
	}
}

func TestItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		wantErr bool
	}{
		{
			name:    "valid pair",
			item:    NewPair("a-b", Word{"a", "eɪ"}, Word{"b", "biː"}, "а / б"),
			wantErr: false,
		},
		{
			name:    "valid sentence",
			item:    NewSentence("hi", Word{"Hi there.", "haɪ ðeə"}, "Здрасти."),
			wantErr: false,
		},
		{
			name:    "translation is optional",
			item:    NewSentence("hi", Word{"Hi there.", "haɪ ðeə"}, ""),
			wantErr: false,
		},
		{
			name:    "missing id",
			item:    NewSentence("", Word{"Hi", "haɪ"}, ""),
			wantErr: true,
		},
		{
			name:    "pair with one word",
			item:    Item{ID: "x", Kind: KindPair, Words: []Word{{"a", "eɪ"}}},
			wantErr: true,
		},
		{
			name:    "sentence with two phrases",
			item:    Item{ID: "x", Kind: KindSentence, Words: []Word{{"a", "eɪ"}, {"b", "biː"}}},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			item:    Item{ID: "x", Kind: "poem", Words: []Word{{"a", "eɪ"}}},
			wantErr: true,
		},
		{
			name:    "missing IPA",
			item:    NewPair("a-b", Word{"a", "eɪ"}, Word{"b", ""}, ""),
			wantErr: true,
		},
		{
			name:    "blank text",
			item:    NewSentence("x", Word{"   ", "eɪ"}, ""),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidItem) {
				t.Errorf("Validate() error = %v, want ErrInvalidItem", err)
			}
		})
	}
}

func TestItemWord(t *testing.T) {
	it := NewPair("ship-sheep", Word{"ship", "ʃɪp"}, Word{"sheep", "ʃiːp"}, "")

	w, err := it.Word(1)
	if err != nil {
		t.Fatalf("Word(1) error = %v", err)
	}
	if w.Text != "sheep" {
		t.Errorf("Word(1) = %q, want sheep", w.Text)
	}

	for _, i := range []int{-1, 2} {
		if _, err := it.Word(i); !errors.Is(err, ErrNoSuchWord) {
			t.Errorf("Word(%d) error = %v, want ErrNoSuchWord", i, err)
		}
	}
}

func TestNewDeckRejects(t *testing.T) {
	if _, err := NewDeck(nil); !errors.Is(err, ErrEmptyDeck) {
		t.Errorf("NewDeck(nil) error = %v, want ErrEmptyDeck", err)
	}

	dup := []Item{
		NewSentence("x", Word{"a", "eɪ"}, ""),
		NewSentence("x", Word{"b", "biː"}, ""),
	}
	if _, err := NewDeck(dup); !errors.Is(err, ErrInvalidItem) {
		t.Errorf("NewDeck(duplicates) error = %v, want ErrInvalidItem", err)
	}
}

func TestDeckCycling(t *testing.T) {
	deck, err := NewDeck([]Item{
		NewSentence("a", Word{"a", "eɪ"}, ""),
		NewSentence("b", Word{"b", "biː"}, ""),
		NewSentence("c", Word{"c", "siː"}, ""),
	})
	if err != nil {
		t.Fatalf("NewDeck error = %v", err)
	}

	tests := []struct {
		index int
		want  string
	}{
		{0, "a"},
		{2, "c"},
		{3, "a"},
		{7, "b"},
		{-1, "c"},
		{-4, "c"},
	}
	for _, tt := range tests {
		if got := deck.At(tt.index).ID; got != tt.want {
			t.Errorf("At(%d) = %s, want %s", tt.index, got, tt.want)
		}
	}

	if got := deck.Next(2); got != 0 {
		t.Errorf("Next(2) = %d, want 0", got)
	}
	if got := deck.Next(0); got != 1 {
		t.Errorf("Next(0) = %d, want 1", got)
	}

	if i, ok := deck.Find("c"); !ok || i != 2 {
		t.Errorf("Find(c) = %d, %v, want 2, true", i, ok)
	}
	if _, ok := deck.Find("z"); ok {
		t.Error("Find(z) should not find anything")
	}
}

func TestDeckIsImmutable(t *testing.T) {
	items := []Item{NewPair("a-b", Word{"a", "eɪ"}, Word{"b", "biː"}, "")}
	deck, err := NewDeck(items)
	if err != nil {
		t.Fatalf("NewDeck error = %v", err)
	}

	items[0].Words[0].Text = "changed"
	got := deck.At(0)
	if got.Words[0].Text != "a" {
		t.Errorf("deck changed through the source slice: %q", got.Words[0].Text)
	}

	got.Words[1].Text = "changed"
	if deck.At(0).Words[1].Text != "b" {
		t.Error("deck changed through a returned item")
	}
}
