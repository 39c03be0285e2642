package practice

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/proncoach/internal/testutil"
)

func TestParseItems(t *testing.T) {
	content := `# custom list
ship [ʃɪp] | sheep [ʃiːp] = кораб / овца

Good morning! /ɡʊd ˈmɔːnɪŋ/ = Добро утро!
think | sink
ship [ʃɪp] | sheep [ʃiːp]
`
	items, err := ParseItems(content)
	if err != nil {
		t.Fatalf("ParseItems error = %v", err)
	}

	if len(items) != 4 {
		t.Fatalf("Expected 4 items, got %d", len(items))
	}

	pair := items[0]
	if pair.Kind != KindPair || pair.ID != "ship-sheep" {
		t.Errorf("first item = %+v", pair)
	}
	if pair.Words[1].IPA != "ʃiːp" {
		t.Errorf("Expected IPA ʃiːp, got %q", pair.Words[1].IPA)
	}
	if pair.Translation != "кораб / овца" {
		t.Errorf("Expected translation 'кораб / овца', got %q", pair.Translation)
	}

	sentence := items[1]
	if sentence.Kind != KindSentence {
		t.Errorf("Expected sentence, got %s", sentence.Kind)
	}
	if sentence.Words[0].Text != "Good morning!" || sentence.Words[0].IPA != "ɡʊd ˈmɔːnɪŋ" {
		t.Errorf("sentence word = %+v", sentence.Words[0])
	}

	bare := items[2]
	if bare.Words[0].IPA != "" || bare.Translation != "" {
		t.Errorf("Expected missing IPA and translation, got %+v", bare)
	}

	if items[3].ID != "ship-sheep-2" {
		t.Errorf("Expected duplicate to get id ship-sheep-2, got %s", items[3].ID)
	}
}

func TestParseItemsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"empty", "\n# only a comment\n", "empty"},
		{"three words", "a | b | c", "line 1"},
		{"missing text", "= перевод", "line 1"},
		{"empty pair side", "a | ", "line 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseItems(tt.content)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error = %v, want it to contain %q", err, tt.errMsg)
			}
		})
	}
}

func TestReadItemsFile(t *testing.T) {
	path := testutil.WriteItemsFile(t, "bad [bæd] | bed [bed] = лош / легло\n")

	items, err := ReadItemsFile(path)
	if err != nil {
		t.Fatalf("ReadItemsFile error = %v", err)
	}
	if len(items) != 1 || items[0].ID != "bad-bed" {
		t.Errorf("unexpected items %+v", items)
	}

	if _, err := ReadItemsFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestEnrich(t *testing.T) {
	items, err := ParseItems("think | sink\nHello. [həˈləʊ] = Здравей.\nxyzzy")
	if err != nil {
		t.Fatal(err)
	}

	ipa := &testutil.MockIPASource{IPA: map[string]string{"think": "θɪŋk", "sink": "sɪŋk"}}
	tr := &testutil.MockTranslator{Translations: map[string]string{"think": "мисля", "sink": "мивка"}}

	got, err := Enrich(context.Background(), items, ipa, tr)
	if err == nil {
		t.Error("Expected an error for the word without IPA")
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 enriched items, got %d", len(got))
	}
	if got[0].Words[0].IPA != "θɪŋk" || got[0].Words[1].IPA != "sɪŋk" {
		t.Errorf("IPA not filled in: %+v", got[0].Words)
	}
	if got[0].Translation != "мисля / мивка" {
		t.Errorf("Translation = %q, want 'мисля / мивка'", got[0].Translation)
	}
	if got[1].Translation != "Здравей." {
		t.Errorf("existing translation overwritten: %q", got[1].Translation)
	}

	// Existing IPA is not looked up again
	if ipa.Calls() != 3 {
		t.Errorf("Expected 3 IPA lookups, got %d", ipa.Calls())
	}

	// source items stay untouched
	if items[0].Words[0].IPA != "" {
		t.Error("Enrich modified its input")
	}
}
