package quota

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/microcosm-cc/bluemonday"
)

// Banner is the static quota message and its call to action.
type Banner struct {
	Message    string `json:"message"`
	CTA        string `json:"cta"`
	UpgradeURL string `json:"upgrade_url,omitempty"`
}

// DefaultUpgradeURL is where the call to action points when none is set.
const DefaultUpgradeURL = "https://cloud.memphis.dev/billing"

// DefaultBanner returns the banner shown on the free tier.
func DefaultBanner() Banner {
	return Banner{
		Message:    "1 / 2 GB left",
		CTA:        "Upgrade",
		UpgradeURL: DefaultUpgradeURL,
	}
}

var (
	accentColor = lipgloss.Color("#7D56F4")
	mutedColor  = lipgloss.Color("#626262")

	messageStyle = lipgloss.NewStyle().Foreground(mutedColor)
	ctaStyle     = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

// Text renders the banner as a bordered terminal box.
func (b Banner) Text() string {
	line := lipgloss.JoinHorizontal(lipgloss.Center,
		messageStyle.Render(b.Message),
		"  ",
		ctaStyle.Render("["+b.CTA+"]"),
	)
	return boxStyle.Render(line)
}

// Plain renders the banner without styling.
func (b Banner) Plain() string {
	return fmt.Sprintf("%s  [%s]", b.Message, b.CTA)
}

var (
	htmlPolicyOnce sync.Once
	htmlPolicy     *bluemonday.Policy
)

func bannerPolicy() *bluemonday.Policy {
	htmlPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("div", "span", "a")
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		htmlPolicy = policy
	})
	return htmlPolicy
}

// HTML renders a sanitized fragment for the console page.
func (b Banner) HTML() string {
	url := strings.TrimSpace(b.UpgradeURL)
	if url == "" {
		url = DefaultUpgradeURL
	}
	raw := fmt.Sprintf(
		`<div class="quota-banner"><span class="quota-banner__usage">%s</span> <a class="quota-banner__cta" href="%s">%s</a></div>`,
		html.EscapeString(b.Message),
		html.EscapeString(url),
		html.EscapeString(b.CTA),
	)
	return bannerPolicy().Sanitize(raw)
}
