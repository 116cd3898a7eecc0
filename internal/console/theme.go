package console

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// DefaultTheme is the palette used when no manifest is configured.
func DefaultTheme() *theme.Manifest {
	return &theme.Manifest{
		Name:    "memphis",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":          "#6557FF",
			"surface":        "#FFFFFF",
			"surface-code":   "#1E1E2E",
			"text":           "#1D1D1D",
			"text-code":      "#E4E4F0",
			"banner":         "#7D56F4",
			"font-monospace": "ui-monospace, SFMono-Regular, Menlo, monospace",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface": "#121212",
					"text":    "#F2F2F2",
				},
			},
		},
	}
}

// ThemeConfig resolves manifest and variant into the renderer configuration
// the console page reads. Variant tokens win over base tokens and every token
// is exposed as a "--name" CSS variable.
func ThemeConfig(manifest *theme.Manifest, variant string) *theme.RendererConfig {
	if manifest == nil {
		manifest = DefaultTheme()
	}

	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}
	prefix := manifest.Assets.Prefix
	files := make(map[string]string, len(manifest.Assets.Files))
	for key, value := range manifest.Assets.Files {
		files[key] = value
	}

	resolved := ""
	if v, ok := manifest.Variants[variant]; ok {
		resolved = variant
		for key, value := range v.Tokens {
			tokens[key] = value
		}
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
		for key, value := range v.Assets.Files {
			files[key] = value
		}
	}

	vars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		vars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:   manifest.Name,
		Variant: resolved,
		Tokens:  tokens,
		CSSVars: vars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

type cssVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func sortedCSSVars(cfg *theme.RendererConfig) []cssVar {
	if cfg == nil {
		return nil
	}
	out := make([]cssVar, 0, len(cfg.CSSVars))
	for name, value := range cfg.CSSVars {
		out = append(out, cssVar{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
