package feed

import _ "embed"

//go:embed sample.xml
var sample []byte

// Sample returns a copy of the bundled sample feed (iPerf3, Docker and
// FileStation).
func Sample() []byte {
	return append([]byte(nil), sample...)
}
