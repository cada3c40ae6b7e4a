package pipeline

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func mustSymbolMap(t *testing.T, profile string) *SymbolMap {
	t.Helper()
	p, err := ProfileByName(profile)
	if err != nil {
		t.Fatalf("ProfileByName(%q) error: %v", profile, err)
	}
	m, err := NewSymbolMap(p)
	if err != nil {
		t.Fatalf("NewSymbolMap(%q) error: %v", profile, err)
	}
	return m
}

// ---------------------------------------------------------------------------
// TestSymbolMap_Apply - Plain Profile Substitutions
// ---------------------------------------------------------------------------

func TestSymbolMap_Apply(t *testing.T) {
	t.Parallel()

	m := mustSymbolMap(t, ProfilePlain)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "planet, arrow and plus-minus",
			input:    "Mercury is ☿ and the trend is ↑ 5% ±2",
			expected: "Mercury is Mercury and the trend is up 5% +/-2",
		},
		{
			name:     "zodiac signs",
			input:    "♈ ♎ ♓",
			expected: "Aries Libra Pisces",
		},
		{
			name:     "degrees keep the leading space",
			input:    "30°",
			expected: "30 degrees",
		},
		{
			name:     "smart quotes and dashes",
			input:    "“quoted” ‘single’ a–b a—b",
			expected: `"quoted" 'single' a-b a--b`,
		},
		{
			name:     "pictographs become words",
			input:    "🚀 launch 📅 today",
			expected: "(rocket) launch (calendar) today",
		},
		{
			name:     "clock faces",
			input:    "🕐 and 🕛",
			expected: "1:00 and 12:00",
		},
		{
			name:     "keycap sequence maps as a whole",
			input:    "Step 1\ufe0f\u20e3 of 1",
			expected: "Step (1) of 1",
		},
		{
			name:     "unmapped symbols pass through",
			input:    "Привет 😀 café",
			expected: "Привет 😀 café",
		},
		{
			name:     "ASCII unchanged",
			input:    "plain *markdown* | table |",
			expected: "plain *markdown* | table |",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := m.Apply(tt.input)
			if got != tt.expected {
				t.Errorf("Apply(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestSymbolMap_CompoundPrecedence - Sequences Beat Their Components
// ---------------------------------------------------------------------------

func TestSymbolMap_CompoundPrecedence(t *testing.T) {
	t.Parallel()

	m := mustSymbolMap(t, ProfilePlain)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "gear with selector then bare gear",
			input:    "⚙\ufe0f settings ⚙",
			expected: "(gear) settings (gear)",
		},
		{
			name:     "check with selector glued to text then bare check",
			input:    "✔\ufe0fdone ✔",
			expected: "Ydone Y",
		},
		{
			name:     "bare component immediately after compound",
			input:    "🛠\ufe0f🛠",
			expected: "(tools)(tools)",
		},
		{
			name:     "heart with and without selector",
			input:    "❤ ❤\ufe0f",
			expected: "(heart) (heart)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := m.Apply(tt.input)
			if got != tt.expected {
				t.Errorf("Apply(%q) = %q, want %q", tt.input, got, tt.expected)
			}
			if strings.ContainsRune(got, '\ufe0f') {
				t.Errorf("Apply(%q) left a stray variation selector: %q", tt.input, got)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestSymbolMap_Determinism - Same Symbol, Same Output, Any Context
// ---------------------------------------------------------------------------

func TestSymbolMap_Determinism(t *testing.T) {
	t.Parallel()

	for _, p := range Profiles() {
		m, err := NewSymbolMap(p)
		if err != nil {
			t.Fatalf("NewSymbolMap(%q) error: %v", p.Name, err)
		}

		for _, e := range m.Entries() {
			for _, wrap := range [][2]string{{"", ""}, {"x", "y"}, {"# ", " |"}, {"\n", "\n"}} {
				input := wrap[0] + e.Symbol + wrap[1]
				want := wrap[0] + e.Replacement + wrap[1]
				if got := m.Apply(input); got != want {
					t.Errorf("[%s] Apply(%q) = %q, want %q", p.Name, input, got, want)
				}
			}
		}
	}
}

// ---------------------------------------------------------------------------
// TestNewSymbolMap - Validation
// ---------------------------------------------------------------------------

func TestNewSymbolMap_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mappings []Mapping
		wantErr  error
	}{
		{
			name:     "empty symbol",
			mappings: []Mapping{{Symbol: "", Replacement: "x"}},
			wantErr:  ErrEmptySymbol,
		},
		{
			name:     "ASCII symbol",
			mappings: []Mapping{{Symbol: "->", Replacement: "to"}},
			wantErr:  ErrASCIISymbol,
		},
		{
			name:     "ASCII space emitted by the filter",
			mappings: []Mapping{{Symbol: "☿", Replacement: "Mercury"}, {Symbol: " ", Replacement: "_"}},
			wantErr:  ErrASCIISymbol,
		},
		{
			name:     "ASCII dash emitted by the delimiter rewrite",
			mappings: []Mapping{{Symbol: "-", Replacement: "minus"}},
			wantErr:  ErrASCIISymbol,
		},
		{
			name:     "duplicate symbol",
			mappings: []Mapping{{Symbol: "☿", Replacement: "Mercury"}, {Symbol: "☿", Replacement: "Hg"}},
			wantErr:  ErrDuplicateSymbol,
		},
		{
			name:     "replacement outside safe set",
			mappings: []Mapping{{Symbol: "☿", Replacement: "☿ Mercury"}},
			wantErr:  ErrUnsafeMapping,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewSymbolMap(Profile{Name: "test", Mappings: tt.mappings})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewSymbolMap() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewSymbolMap_EmptyProfile(t *testing.T) {
	t.Parallel()

	m, err := NewSymbolMap(Profile{Name: "empty"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Apply("☿ stays"); got != "☿ stays" {
		t.Errorf("Apply() = %q, want input unchanged", got)
	}
}

func TestSymbolMap_EntriesLongestFirst(t *testing.T) {
	t.Parallel()

	m := mustSymbolMap(t, ProfilePlain)
	entries := m.Entries()

	for i := 1; i < len(entries); i++ {
		prev := utf8.RuneCountInString(entries[i-1].Symbol)
		cur := utf8.RuneCountInString(entries[i].Symbol)
		if cur > prev {
			t.Fatalf("entry %d (%q) is longer than entry %d (%q)", i, entries[i].Symbol, i-1, entries[i-1].Symbol)
		}
	}

	// Entries returns a copy
	entries[0].Replacement = "mutated"
	if m.Entries()[0].Replacement == "mutated" {
		t.Error("Entries() exposed internal state")
	}
}

// ---------------------------------------------------------------------------
// TestProfiles - Registry
// ---------------------------------------------------------------------------

func TestProfiles_AllBuildAndAreSafe(t *testing.T) {
	t.Parallel()

	profiles := Profiles()
	if len(profiles) != 2 {
		t.Fatalf("Profiles() returned %d profiles, want 2", len(profiles))
	}

	for _, p := range profiles {
		if p.Version == "" {
			t.Errorf("profile %q has no version", p.Name)
		}
		m, err := NewSymbolMap(p)
		if err != nil {
			t.Errorf("profile %q: %v", p.Name, err)
			continue
		}
		if m.Len() != len(p.Mappings) {
			t.Errorf("profile %q: Len() = %d, want %d", p.Name, m.Len(), len(p.Mappings))
		}
		for _, e := range p.Mappings {
			if !IsSafeText(e.Replacement) {
				t.Errorf("profile %q: unsafe replacement %q for %q", p.Name, e.Replacement, e.Symbol)
			}
			if got, ok := m.Lookup(e.Symbol); !ok || got != e.Replacement {
				t.Errorf("profile %q: Lookup(%q) = %q, %v", p.Name, e.Symbol, got, ok)
			}
		}
	}
}

func TestProfileByName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantName string
		wantErr  error
	}{
		{name: "empty selects default", input: "", wantName: DefaultProfile},
		{name: "plain", input: "plain", wantName: ProfilePlain},
		{name: "case insensitive", input: "LaTeX", wantName: ProfileLaTeX},
		{name: "unknown", input: "html", wantErr: ErrUnknownProfile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := ProfileByName(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", p.Name, tt.wantName)
			}
		})
	}
}

func TestProfileByName_ReturnsCopy(t *testing.T) {
	t.Parallel()

	p, err := ProfileByName(ProfilePlain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.Mappings[0].Replacement = "mutated"

	again, _ := ProfileByName(ProfilePlain)
	if again.Mappings[0].Replacement == "mutated" {
		t.Error("ProfileByName() exposed the registry")
	}
}
