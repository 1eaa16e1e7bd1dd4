package template

// ThemeNames are the recognized theme variants, in presentation order.
var ThemeNames = []string{"default", "modern", "minimal", "corporate"}

// themeTokens maps each variant to literal token substitutions applied over
// the base template. Only presentation tokens (color hex codes, font stacks)
// are substituted; the section structure is shared by every variant.
var themeTokens = map[string]map[string]string{
	"default": {},
	"modern": {
		"#2563eb":             "#7c3aed",
		"#1e40af":             "#5b21b6",
		"#f8fafc":             "#faf5ff",
		"'Inter', sans-serif": "'Space Grotesk', sans-serif",
	},
	"minimal": {
		"#2563eb":             "#111827",
		"#1e40af":             "#374151",
		"#f8fafc":             "#ffffff",
		"'Inter', sans-serif": "'Helvetica Neue', Helvetica, sans-serif",
	},
	"corporate": {
		"#2563eb":             "#1e3a5f",
		"#1e40af":             "#14283f",
		"#f8fafc":             "#f4f6f8",
		"'Inter', sans-serif": "Georgia, 'Times New Roman', serif",
	},
}

// IsKnownTheme reports whether name is a recognized variant.
func IsKnownTheme(name string) bool {
	_, ok := themeTokens[name]
	return ok
}

// palette is the presentation values a variant ends up with after token
// substitution. Branding overrides need these to know what to replace.
type palette struct {
	primary string
	accent  string
	font    string
}

func variantPalette(name string) palette {
	p := palette{
		primary: "#2563eb",
		accent:  "#1e40af",
		font:    "'Inter', sans-serif",
	}
	if tokens, ok := themeTokens[name]; ok {
		if v, ok := tokens[p.primary]; ok {
			p.primary = v
		}
		if v, ok := tokens[p.accent]; ok {
			p.accent = v
		}
		if v, ok := tokens[p.font]; ok {
			p.font = v
		}
	}
	return p
}
