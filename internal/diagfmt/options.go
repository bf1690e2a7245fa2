package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeRelative prints corpus-relative paths (default, stable
	// across machines, используется в golden-выводе).
	PathModeRelative PathMode = iota
	// PathModeAbsolute prefixes paths with the corpus root.
	PathModeAbsolute
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	ShowNotes bool
	// NoWarnings подавляет предупреждения, ошибки печатаются всегда.
	NoWarnings bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col к байтовым смещениям
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
	NoWarnings       bool
}
