package api

import "io"

// ProgressFunc receives an integer percentage in [0, 100].
type ProgressFunc func(percent int)

// progressReader reports how much of a body of known size has been read.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	report ProgressFunc
}

func newProgressReader(r io.Reader, total int64, report ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, report: report}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		if p.report != nil && p.total > 0 {
			p.report(int((p.read*100 + p.total/2) / p.total))
		}
	}
	return n, err
}
