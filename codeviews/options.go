package codeviews

// Option configures a Config via the constructor-style functional-option
// pattern the teacher's own analyzer.Option/WithLanguage/WithProjectFiles
// family uses (analyzer/option.go). codeviews.Config itself stays a plain
// struct for Generate's call site — NewConfig is for collaborators (like
// cmd/codeviews) that want to build one up option-by-option instead of
// constructing the struct literal directly.
type Option func(*Config)

// NewConfig builds a Config from zero or more Options, starting from the
// all-views, no-annotation defaults.
func NewConfig(opts ...Option) Config {
	var c Config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithViews restricts which view builders run; omitting this option runs
// all three (spec.md §6's `views` default).
func WithViews(views ...View) Option {
	return func(c *Config) {
		c.Views = views
	}
}

// WithASTBlacklist sets the parse-tree kinds to strip from the AST view.
func WithASTBlacklist(kinds ...string) Option {
	return func(c *Config) {
		c.ASTBlacklist = kinds
	}
}

// WithASTCollapse toggles same-label leaf collapsing on the AST view.
func WithASTCollapse(collapse bool) Option {
	return func(c *Config) {
		c.ASTCollapse = collapse
	}
}

// WithDFGLastDef toggles the last-def line annotation on DFG edges.
func WithDFGLastDef(enabled bool) Option {
	return func(c *Config) {
		c.DFGLastDef = enabled
	}
}

// WithDFGLastUse toggles the last-use line annotation on DFG edges.
func WithDFGLastUse(enabled bool) Option {
	return func(c *Config) {
		c.DFGLastUse = enabled
	}
}

// WithStrictParse toggles aborting Generate on any parser error instead of
// emitting a best-effort partial graph.
func WithStrictParse(strict bool) Option {
	return func(c *Config) {
		c.StrictParse = strict
	}
}
