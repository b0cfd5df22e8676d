package arena

// mark is a checkpoint of the active block and its size.
type mark struct {
	block int
	size  int
}

// markStack grows the same way as registry.
type markStack struct {
	elems []mark
	count int
}

func newMarkStack() markStack {
	return markStack{elems: make([]mark, 1)}
}

func (s *markStack) push(m mark) bool {
	if s.count == len(s.elems) {
		n, ok := grownLength(len(s.elems))
		if !ok {
			return false
		}
		elems := make([]mark, n)
		copy(elems, s.elems[:s.count])
		s.elems = elems
	}
	s.elems[s.count] = m
	s.count++
	return true
}

func (s *markStack) pop() (mark, bool) {
	if s.count == 0 {
		return mark{}, false
	}
	s.count--
	return s.elems[s.count], true
}

func (s *markStack) depth() int { return s.count }
