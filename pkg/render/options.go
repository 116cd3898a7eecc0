package render

// RenderOptions describe the selection that produced an Output so renderers
// can label it.
type RenderOptions struct {
	Language string
	Protocol string
	Scenario string
	// Installation controls whether the package install command is included.
	Installation bool
}
