package models

// RawTable is one CSV file as read from disk, before any interpretation.
type RawTable struct {
	Path   string
	Header []string
	Rows   [][]string
}

// Width is the number of header columns.
func (t RawTable) Width() int { return len(t.Header) }
