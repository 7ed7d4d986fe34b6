package app

// Scanner decodes back-to-back bencoded values one at a time.
//
//	sc := app.NewScanner(data)
//	for sc.Scan() {
//		node := sc.Node()
//		...
//	}
//	if err := sc.Err(); err != nil {
//		...
//	}
//
// Scanning stops at the end of the buffer or at the first error.
type Scanner struct {
	data []byte
	cfg  decodeConfig
	pos  int
	node *BNode
	err  error
}

// NewScanner returns a Scanner reading data from offset 0.
func NewScanner(data []byte, opts ...DecodeOption) *Scanner {
	return &Scanner{data: data, cfg: newDecodeConfig(opts)}
}

// Scan decodes the next value. It returns false when the input is
// exhausted or an error occurred.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	if len(s.data) == 0 {
		s.err = newDecodeError(ErrEmptyInput, 0, "")
		return false
	}
	if s.pos >= len(s.data) {
		s.node = nil
		return false
	}

	n, next, err := decodeAt(s.data, s.pos, s.cfg)
	if err != nil {
		s.node = nil
		s.err = err
		return false
	}
	s.node = n
	s.pos = next
	return true
}

// Node returns the value decoded by the last successful call to Scan.
func (s *Scanner) Node() *BNode {
	return s.node
}

// Offset returns the offset of the first byte not yet consumed.
func (s *Scanner) Offset() int {
	return s.pos
}

// Err returns the first error encountered by Scan.
func (s *Scanner) Err() error {
	return s.err
}
