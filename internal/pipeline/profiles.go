package pipeline

import (
	"fmt"
	"sort"
	"strings"
)

// Profile names.
const (
	ProfilePlain = "plain"
	ProfileLaTeX = "latex"
)

// DefaultProfile is used when no profile is named.
const DefaultProfile = ProfilePlain

// vs16 is the emoji presentation selector that follows many pictographs.
const vs16 = "\ufe0f"

// astroNames maps astrological glyphs to their names.
var astroNames = []Mapping{
	{"♈", "Aries"}, {"♉", "Taurus"}, {"♊", "Gemini"}, {"♋", "Cancer"},
	{"♌", "Leo"}, {"♍", "Virgo"}, {"♎", "Libra"}, {"♏", "Scorpio"},
	{"♐", "Sagittarius"}, {"♑", "Capricorn"}, {"♒", "Aquarius"}, {"♓", "Pisces"},
	{"☉", "Sun"}, {"☽", "Moon"}, {"☿", "Mercury"}, {"♀", "Venus"},
	{"♂", "Mars"}, {"♃", "Jupiter"}, {"♄", "Saturn"}, {"♅", "Uranus"},
	{"♆", "Neptune"}, {"♇", "Pluto"},
}

// clockFaces maps the hour clock emoji to times.
var clockFaces = []Mapping{
	{"🕐", "1:00"}, {"🕑", "2:00"}, {"🕒", "3:00"}, {"🕓", "4:00"},
	{"🕔", "5:00"}, {"🕕", "6:00"}, {"🕖", "7:00"}, {"🕗", "8:00"},
	{"🕘", "9:00"}, {"🕙", "10:00"}, {"🕚", "11:00"}, {"🕛", "12:00"},
}

// keycaps maps digit keycap sequences (digit, VS16, combining keycap).
var keycaps = func() []Mapping {
	out := make([]Mapping, 0, 12)
	for _, d := range "0123456789#*" {
		out = append(out, Mapping{string(d) + vs16 + "\u20e3", "(" + string(d) + ")"})
	}
	return out
}()

// plainMappings renders every symbol as plain ASCII text.
var plainMappings = concat(astroNames, clockFaces, keycaps, []Mapping{
	// Math and arrows
	{"±", "+/-"}, {"°", " degrees"}, {"≥", ">="}, {"≤", "<="},
	{"≠", "!="}, {"≈", "~="}, {"×", "x"}, {"÷", "/"}, {"∞", "infinity"},
	{"→", "->"}, {"←", "<-"}, {"↑", "up"}, {"↓", "down"},
	{"⇒", "=>"}, {"↔", "<->"},

	// Marks
	{"✓", "Y"}, {"✔", "Y"}, {"✔" + vs16, "Y"}, {"✅", "YES"},
	{"❌", "NO"}, {"✗", "NO"}, {"✘", "NO"},
	{"⭐", "*"}, {"✨", "*"}, {"★", "*"}, {"☆", "*"}, {"✦", "*"}, {"⋆", "*"},
	{"•", "-"}, {"…", "..."},
	{"©", "(c)"}, {"®", "(R)"}, {"™", "(TM)"},
	{"⚠", "(warning)"}, {"⚠" + vs16, "(warning)"},
	{"ℹ", "(info)"}, {"ℹ" + vs16, "(info)"},

	// Typography
	{"“", `"`}, {"”", `"`}, {"‘", "'"}, {"’", "'"},
	{"–", "-"}, {"—", "--"},

	// Time
	{"⏰", "(time)"}, {"⏳", "(time)"}, {"⌚", "(time)"},

	// Pictographs
	{"🌟", "*"}, {"🌞", "Sun"}, {"🌚", "Moon"}, {"🌙", "Moon"},
	{"🌕", "Full Moon"}, {"🌑", "New Moon"}, {"🌗", "Waxing Moon"}, {"🌘", "Waning Moon"},
	{"🔮", "(crystal ball)"}, {"🎯", "(target)"}, {"🚀", "(rocket)"},
	{"📅", "(calendar)"}, {"📊", "(chart)"}, {"📈", "(trending up)"},
	{"📋", "(clipboard)"}, {"📖", "(book)"}, {"📝", "(note)"}, {"💡", "(tip)"},
	{"🛠", "(tools)"}, {"🛠" + vs16, "(tools)"},
	{"⚙", "(gear)"}, {"⚙" + vs16, "(gear)"},
	{"🔧", "(wrench)"}, {"💾", "(save)"}, {"⚡", "(lightning)"},
	{"🔍", "(search)"}, {"🪐", "(planet)"}, {"🎨", "(art)"},
	{"🏛", "(building)"}, {"🏛" + vs16, "(building)"},
	{"🌌", "(galaxy)"}, {"🔢", "(numbers)"}, {"🧮", "(abacus)"},
	{"❤", "(heart)"}, {"❤" + vs16, "(heart)"},
})

// latexMappings renders symbols as ASCII LaTeX markup for a LaTeX engine.
// The colors are defined by the front matter written for this profile.
var latexMappings = concat(
	[]Mapping{
		{"♈", `\textcolor{darkblue}{Aries}`}, {"♉", `\textcolor{darkblue}{Taurus}`},
		{"♊", `\textcolor{darkblue}{Gemini}`}, {"♋", `\textcolor{darkblue}{Cancer}`},
		{"♌", `\textcolor{darkblue}{Leo}`}, {"♍", `\textcolor{darkblue}{Virgo}`},
		{"♎", `\textcolor{darkblue}{Libra}`}, {"♏", `\textcolor{darkblue}{Scorpio}`},
		{"♐", `\textcolor{darkblue}{Sagittarius}`}, {"♑", `\textcolor{darkblue}{Capricorn}`},
		{"♒", `\textcolor{darkblue}{Aquarius}`}, {"♓", `\textcolor{darkblue}{Pisces}`},
		{"☉", `\textcolor{gold}{Sun}`}, {"☽", `\textcolor{darkblue}{Moon}`},
		{"☿", "Mercury"}, {"♀", "Venus"}, {"♂", "Mars"}, {"♃", "Jupiter"},
		{"♄", "Saturn"}, {"♅", "Uranus"}, {"♆", "Neptune"}, {"♇", "Pluto"},
	},
	clockFaces, keycaps,
	[]Mapping{
		{"±", `$\pm$`}, {"°", `$^\circ$`}, {"≥", `$\geq$`}, {"≤", `$\leq$`},
		{"≠", `$\neq$`}, {"≈", `$\approx$`}, {"×", `$\times$`}, {"÷", `$\div$`}, {"∞", `$\infty$`},
		{"→", `$\rightarrow$`}, {"←", `$\leftarrow$`}, {"↑", `$\uparrow$`}, {"↓", `$\downarrow$`},
		{"⇒", `$\Rightarrow$`}, {"↔", `$\leftrightarrow$`},

		{"✓", `\textcolor{darkblue}{$\checkmark$}`}, {"✔", `\textcolor{darkblue}{$\checkmark$}`},
		{"✔" + vs16, `\textcolor{darkblue}{$\checkmark$}`}, {"✅", `\textcolor{darkblue}{$\checkmark$}`},
		{"❌", `\textcolor{red}{$\times$}`}, {"✗", `\textcolor{red}{$\times$}`}, {"✘", `\textcolor{red}{$\times$}`},
		{"⭐", `\textcolor{gold}{$\star$}`}, {"✨", `\textcolor{gold}{$\ast$}`},
		{"★", `\textcolor{gold}{$\star$}`}, {"☆", `$\star$`}, {"✦", `\textcolor{gold}{$\ast$}`}, {"⋆", `$\star$`},
		{"•", `$\bullet$`}, {"…", `\ldots{}`},
		{"©", `\copyright{}`}, {"®", `\textregistered{}`}, {"™", `\texttrademark{}`},
		{"⚠", `\textbf{Warning}`}, {"⚠" + vs16, `\textbf{Warning}`},
		{"ℹ", `\textbf{Info}`}, {"ℹ" + vs16, `\textbf{Info}`},

		{"“", `"`}, {"”", `"`}, {"‘", "'"}, {"’", "'"},
		{"–", "--"}, {"—", "---"},

		{"⏰", "(time)"}, {"⏳", "(time)"}, {"⌚", "(time)"},

		{"🌟", `\textcolor{gold}{$\star$}`}, {"🌞", `\textcolor{gold}{Sun}`},
		{"🌚", `\textcolor{darkblue}{Moon}`}, {"🌙", `\textcolor{darkblue}{Moon}`},
		{"🔮", `\textcolor{starblue}{$\odot$}`}, {"🎯", `\textcolor{darkblue}{$\odot$}`},
		{"🌕", "Full Moon"}, {"🌑", "New Moon"}, {"🌗", "Waxing Moon"}, {"🌘", "Waning Moon"},
		{"📅", "Calendar"}, {"📊", "Chart"}, {"📈", "Analytics"}, {"📋", "List"},
		{"📖", "Manual"}, {"📝", "Note"}, {"💡", "Tip"},
		{"🛠", "Tools"}, {"🛠" + vs16, "Tools"},
		{"⚙", "Settings"}, {"⚙" + vs16, "Settings"},
		{"🔧", "Configuration"}, {"💾", "Save"}, {"⚡", "Fast"}, {"🔍", "Search"},
		{"🪐", "Planet"}, {"🎨", "Design"},
		{"🏛", "Classical"}, {"🏛" + vs16, "Classical"},
		{"🌌", "Cosmic"}, {"🔢", "Numbers"}, {"🧮", "Calculator"}, {"🚀", "Advanced"},
		{"❤", "Love"}, {"❤" + vs16, "Love"},
	},
)

// builtinProfiles is the versioned profile registry.
var builtinProfiles = map[string]Profile{
	ProfilePlain: {Name: ProfilePlain, Version: "1.1.0", Mappings: plainMappings},
	ProfileLaTeX: {Name: ProfileLaTeX, Version: "1.0.0", Mappings: latexMappings},
}

// ProfileByName returns a copy of a built-in profile.
// An empty name selects DefaultProfile.
func ProfileByName(name string) (Profile, error) {
	if name == "" {
		name = DefaultProfile
	}
	p, ok := builtinProfiles[strings.ToLower(name)]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownProfile, name, strings.Join(ProfileNames(), ", "))
	}
	return p.clone(), nil
}

// ProfileNames lists built-in profile names in sorted order.
func ProfileNames() []string {
	names := make([]string, 0, len(builtinProfiles))
	for name := range builtinProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Profiles returns copies of every built-in profile, sorted by name.
func Profiles() []Profile {
	names := ProfileNames()
	out := make([]Profile, 0, len(names))
	for _, n := range names {
		out = append(out, builtinProfiles[n].clone())
	}
	return out
}

func (p Profile) clone() Profile {
	m := make([]Mapping, len(p.Mappings))
	copy(m, p.Mappings)
	p.Mappings = m
	return p
}

func concat(groups ...[]Mapping) []Mapping {
	var n int
	for _, g := range groups {
		n += len(g)
	}
	out := make([]Mapping, 0, n)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
