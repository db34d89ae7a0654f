package domain

// Manifest is the snapshot taken when the user copies or cuts a selection.
// It does not track later changes to the source directory listing.
type Manifest struct {
	SourceDir string   `yaml:"source_dir" json:"source_dir"`
	Names     []string `yaml:"names" json:"names"`
	Move      bool     `yaml:"move" json:"move"`
	DestDir   string   `yaml:"dest_dir,omitempty" json:"dest_dir,omitempty"`
}

// NewManifest captures names from sourceDir. The names slice is copied.
func NewManifest(sourceDir string, names []string, move bool) Manifest {
	return Manifest{
		SourceDir: sourceDir,
		Names:     append([]string(nil), names...),
		Move:      move,
	}
}

// To returns a copy of the manifest bound to destDir.
func (m Manifest) To(destDir string) Manifest {
	out := NewManifest(m.SourceDir, m.Names, m.Move)
	out.DestDir = destDir
	return out
}

// Empty reports whether the manifest selects nothing.
func (m Manifest) Empty() bool {
	return len(m.Names) == 0
}
