package domain

// ExportDocument is the fully-expanded document model handed to a renderer.
// Every section is open; collapsing is a display concern that never reaches
// an export. GeneratedAt is already formatted for display so renderers print
// it as given.
type ExportDocument struct {
	Title       string
	GeneratedAt string
	Sections    []ExportSection
}

type ExportSection struct {
	Heading string
	Lines   []string
}
