package types

// Line is one rendered match, tagged with the display name of its file.
type Line struct {
	Filename string
	Text     string
}

// Summary counts what a run did.
type Summary struct {
	// Files is the number of files whose pipeline ran.
	Files int
	// Matched is the number of files that produced at least one line.
	Matched int
	// Failed is the number of files skipped after a read or parse error.
	Failed int
	Lines  int
}

// Add folds one file's outcome into s.
func (s *Summary) Add(lines int, failed bool) {
	s.Files++
	switch {
	case failed:
		s.Failed++
	case lines > 0:
		s.Matched++
		s.Lines += lines
	}
}
