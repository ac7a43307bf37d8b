package match

import (
	"math"
	"reflect"
	"testing"
)

const tolerance = 1e-9

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"identical vectors", []float64{1, 2, 3}, []float64{1, 2, 3}, 1.0},
		{"orthogonal vectors", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"similar vectors", []float64{1, 1}, []float64{1, 0}, 0.7071067811865475},
		{"scaled vectors", []float64{2, 4}, []float64{1, 2}, 1.0},
		{"empty vectors", []float64{}, []float64{}, 0.0},
		{"different lengths", []float64{1, 0}, []float64{1, 0, 0}, 0.0},
		{"zero vector a", []float64{0, 0, 0}, []float64{1, 0, 0}, 0.0},
		{"zero vector b", []float64{1, 0, 0}, []float64{0, 0, 0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.expected) > tolerance {
				t.Errorf("CosineSimilarity(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"This paper studies Rosa flowers ", []string{"this", "paper", "studies", "rosa", "flowers"}},
		{"a b cd", []string{"cd"}},
		{"  ", nil},
		{"", nil},
		{"Rosa  Quercus", []string{"rosa", "quercus"}},
		{"Rosa_canina L.", []string{"rosa_canina"}},
		{"Quercus robur2 x", []string{"quercus", "robur2"}},
		{"Cle\u0301matis", []string{"cle\u0301matis"}},
	}

	for _, tt := range tests {
		got := Tokenize(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSimilarity_KnownValue(t *testing.T) {
	// doc counts: this paper studies rosa flowers -> 5 ones; vocab: rosa quercus.
	// cos = 1 / (sqrt(5) * sqrt(2))
	got, err := Similarity("This paper studies Rosa flowers ", "Rosa Quercus")
	if err != nil {
		t.Fatalf("Similarity() error = %v", err)
	}
	want := 100 / math.Sqrt(10)
	if math.Abs(got-want) > tolerance {
		t.Errorf("Similarity() = %v, want %v", got, want)
	}
}

func TestSimilarity_RepeatedTokens(t *testing.T) {
	// doc: rosa x2, quercus x1 -> (2,1); vocab: rosa quercus -> (1,1)
	// cos = 3 / (sqrt(5) * sqrt(2))
	got, err := Similarity("rosa rosa quercus", "Rosa Quercus")
	if err != nil {
		t.Fatalf("Similarity() error = %v", err)
	}
	want := 300 / math.Sqrt(10)
	if math.Abs(got-want) > tolerance {
		t.Errorf("Similarity() = %v, want %v", got, want)
	}
}

func TestSimilarity_Identical(t *testing.T) {
	text := "Rosa Quercus Bellis Aster"
	got, err := Similarity(text, text)
	if err != nil {
		t.Fatalf("Similarity() error = %v", err)
	}
	if math.Abs(got-100) > tolerance {
		t.Errorf("Similarity(identical) = %v, want 100", got)
	}
}

func TestSimilarity_NoSharedTokens(t *testing.T) {
	got, err := Similarity("This paper is about cars ", "Rosa Quercus")
	if err != nil {
		t.Fatalf("Similarity() error = %v", err)
	}
	if got != 0 {
		t.Errorf("Similarity(disjoint) = %v, want 0", got)
	}
}

func TestSimilarity_WordCharacters(t *testing.T) {
	// A joined name is one token, not its parts.
	got, err := Similarity("Rosa_canina", "Rosa canina")
	if err != nil {
		t.Fatalf("Similarity() error = %v", err)
	}
	if got != 0 {
		t.Errorf("Similarity(Rosa_canina, Rosa canina) = %v, want 0", got)
	}

	got, err = Similarity("Rosa_canina grows", "Rosa_canina")
	if err != nil {
		t.Fatalf("Similarity() error = %v", err)
	}
	want := 100 / math.Sqrt(2)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Similarity() = %v, want %v", got, want)
	}

	if shared := SharedTerms("Rosa_canina grows", "Rosa_canina"); !reflect.DeepEqual(shared, []string{"rosa_canina"}) {
		t.Errorf("SharedTerms() = %q, want [rosa_canina]", shared)
	}
}

func TestSimilarity_EmptyInputs(t *testing.T) {
	tests := []struct {
		name       string
		doc, vocab string
	}{
		{"empty document", "", "Rosa Quercus"},
		{"empty vocabulary", "Rosa flowers", ""},
		{"both empty", "", ""},
		{"only single letters", "a b c", "a b c"},
		{"only spaces", "     ", "Rosa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Similarity(tt.doc, tt.vocab)
			if err != nil {
				t.Fatalf("Similarity() error = %v", err)
			}
			if got != 0 {
				t.Errorf("Similarity() = %v, want 0", got)
			}
		})
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"This paper studies Rosa flowers ", "Rosa Quercus"},
		{"rosa rosa rosa quercus salix", "Salix Quercus Betula"},
		{"nothing in common here", "Rosa Quercus"},
		{"Quercus", "quercus QUERCUS Rosa"},
	}

	for _, p := range pairs {
		ab, err := Similarity(p[0], p[1])
		if err != nil {
			t.Fatalf("Similarity() error = %v", err)
		}
		ba, err := Similarity(p[1], p[0])
		if err != nil {
			t.Fatalf("Similarity() error = %v", err)
		}
		if ab != ba {
			t.Errorf("Similarity not symmetric for %q / %q: %v vs %v", p[0], p[1], ab, ba)
		}
	}
}

func TestSimilarity_Range(t *testing.T) {
	docs := []string{
		"",
		"Rosa",
		"Rosa Rosa Rosa Rosa",
		"Quercus robur grows in Europe with Rosa canina nearby",
		"completely unrelated words about engines",
	}
	vocab := "Rosa Quercus Salix Betula Fagus"

	for _, d := range docs {
		got, err := Similarity(d, vocab)
		if err != nil {
			t.Fatalf("Similarity() error = %v", err)
		}
		if got < 0 || got > 100 {
			t.Errorf("Similarity(%q) = %v, outside [0,100]", d, got)
		}
	}
}

func TestSimilarity_CaseInsensitive(t *testing.T) {
	lower, err := Similarity("rosa quercus", "Rosa Quercus")
	if err != nil {
		t.Fatalf("Similarity() error = %v", err)
	}
	if math.Abs(lower-100) > tolerance {
		t.Errorf("Similarity(case variants) = %v, want 100", lower)
	}
}

func TestSharedTerms(t *testing.T) {
	tests := []struct {
		name       string
		doc, vocab string
		want       []string
	}{
		{"single overlap", "This paper studies Rosa flowers", "Rosa Quercus", []string{"rosa"}},
		{"sorted and deduplicated", "quercus rosa Quercus", "Rosa Quercus Salix", []string{"quercus", "rosa"}},
		{"no overlap", "cars and engines", "Rosa Quercus", nil},
		{"empty", "", "Rosa", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SharedTerms(tt.doc, tt.vocab)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SharedTerms() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"pairwise", ModePairwise, false},
		{"", ModePairwise, false},
		{"global", ModeGlobal, false},
		{"other", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
