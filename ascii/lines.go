package ascii

import (
	"io"
	"strings"
)

// Script joins lines into the newline-terminated command stream that
// text-driven programs expect.
func Script(lines ...string) io.Reader {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return strings.NewReader(sb.String())
}

// Uppercase folds lowercase ASCII letters read from the underlying reader to
// upper case. Some programs only accept upper-case commands.
type Uppercase struct {
	r io.Reader
}

// NewUppercase wraps r.
func NewUppercase(r io.Reader) *Uppercase {
	return &Uppercase{r: r}
}

func (u *Uppercase) Read(p []byte) (int, error) {
	n, err := u.r.Read(p)
	for i := 0; i < n; i++ {
		if p[i] >= 'a' && p[i] <= 'z' {
			p[i] -= 'a' - 'A'
		}
	}
	return n, err
}
