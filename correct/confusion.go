package correct

// ConfusionMap maps letters that OCR engines confuse with digits to the
// digit they most likely stand for.
type ConfusionMap map[byte]byte

// DigitConfusions is the default letter-to-digit confusion table.
var DigitConfusions = ConfusionMap{
	'O': '0',
	'Q': '0',
	'I': '1',
	'L': '1',
	'Z': '2',
	'S': '5',
	'B': '8',
	'G': '6',
}

// Lookup returns the replacement for c, if any.
func (m ConfusionMap) Lookup(c byte) (byte, bool) {
	r, ok := m[c]
	return r, ok
}

// Apply replaces, in place, every character of buf at the given positions
// that has a replacement. Positions outside buf are ignored. It returns the
// substitutions made, in position order.
func (m ConfusionMap) Apply(buf []byte, positions []int) []Substitution {
	var subs []Substitution
	for _, i := range positions {
		if i < 0 || i >= len(buf) {
			continue
		}
		if r, ok := m[buf[i]]; ok {
			subs = append(subs, Substitution{Position: i, From: buf[i], To: r})
			buf[i] = r
		}
	}
	return subs
}
