package template

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"proposal-service/internal/common/logger"
)

// Registry owns the canonical document structure and its theme variants.
// Variants are produced once by token substitution over the base template and
// cached for the process lifetime: templates are immutable once built, so
// concurrent population is harmless.
type Registry struct {
	logger      logger.Logger
	overrideDir string

	mu       sync.Mutex
	variants map[string]string
}

type RegistryOptions struct {
	Logger      logger.Logger
	OverrideDir string // optional directory of external <theme>.html assets
}

func NewRegistry(opts RegistryOptions) *Registry {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Registry{
		logger:      log,
		overrideDir: opts.OverrideDir,
		variants:    make(map[string]string),
	}
}

// BaseTemplate returns the canonical section structure.
func (r *Registry) BaseTemplate() string {
	return baseTemplate
}

// ResolveThemeName normalizes a requested theme name, mapping unknown or
// empty names to default.
func (r *Registry) ResolveThemeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if !IsKnownTheme(name) {
		return "default"
	}
	return name
}

// Variant returns the template for the named theme. Unknown names fall back
// to default rather than erroring.
func (r *Registry) Variant(name string) string {
	name = r.ResolveThemeName(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.variants[name]; ok {
		return cached
	}

	tpl := r.load(name)
	r.variants[name] = tpl
	return tpl
}

// Branded returns the named variant with per-document presentation overrides
// applied on top: a non-empty primary color, accent color, or font stack
// replaces the variant's built-in value for that slot. Empty overrides leave
// the variant untouched. External override assets carry their own styling,
// so branding only rewrites values that actually appear in the template.
func (r *Registry) Branded(name, primary, accent, font string) string {
	name = r.ResolveThemeName(name)
	tpl := r.Variant(name)

	cur := variantPalette(name)
	tokens := make(map[string]string, 3)
	if primary != "" && primary != cur.primary {
		tokens[cur.primary] = primary
	}
	if accent != "" && accent != cur.accent {
		tokens[cur.accent] = accent
	}
	if font != "" && font != cur.font {
		tokens[cur.font] = font
	}
	return applyTokens(tpl, tokens)
}

// load builds a variant, preferring a readable and well-formed override asset
// and falling back silently to the generated template: a broken optional
// asset must never fail a generation call.
func (r *Registry) load(name string) string {
	if r.overrideDir != "" {
		path := filepath.Join(r.overrideDir, name+".html")
		if content, err := os.ReadFile(path); err == nil {
			if problems := Validate(string(content)); len(problems) == 0 {
				return string(content)
			} else {
				r.logger.Warn("Theme override failed structural validation, using built-in", map[string]interface{}{
					"theme":    name,
					"path":     path,
					"problems": problems,
				})
			}
		}
	}

	return applyTokens(baseTemplate, themeTokens[name])
}

func applyTokens(tpl string, tokens map[string]string) string {
	if len(tokens) == 0 {
		return tpl
	}
	pairs := make([]string, 0, len(tokens)*2)
	for from, to := range tokens {
		pairs = append(pairs, from, to)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}
