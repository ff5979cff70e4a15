package project

// PathSet is an ordered set of paths. The zero value is an empty set ready to use.
type PathSet struct {
	paths []string
	index map[string]struct{}
}

// Add appends the path unless it is present already and reports whether it was added.
func (s *PathSet) Add(path string) (added bool) {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, known := s.index[path]; known {
		return false
	}
	s.index[path] = struct{}{}
	s.paths = append(s.paths, path)
	return true
}

func (s *PathSet) Contains(path string) bool {
	_, known := s.index[path]
	return known
}

func (s *PathSet) Clear() {
	s.paths = nil
	s.index = nil
}

func (s *PathSet) Len() int {
	return len(s.paths)
}

// Values returns a copy of the paths in insertion order.
func (s *PathSet) Values() []string {
	values := make([]string, len(s.paths))
	copy(values, s.paths)
	return values
}
