package coverage

// Matrix is a dense program × column count table. Columns are theme IDs
// for the coverage matrix and raw tags for the tag matrix.
type Matrix struct {
	Programs []string `json:"programs"`
	Columns  []string `json:"columns"`
	Counts   [][]int  `json:"counts"`
}

func newMatrix(programs, columns []string) *Matrix {
	m := &Matrix{
		Programs: append([]string(nil), programs...),
		Columns:  append([]string(nil), columns...),
		Counts:   make([][]int, len(programs)),
	}
	for i := range m.Counts {
		m.Counts[i] = make([]int, len(columns))
	}
	return m
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

// Get returns the count at (program, column), 0 when either is unknown.
func (m *Matrix) Get(program, column string) int {
	p, c := indexOf(m.Programs, program), indexOf(m.Columns, column)
	if p < 0 || c < 0 {
		return 0
	}
	return m.Counts[p][c]
}

// RowSum is the total for one program.
func (m *Matrix) RowSum(program string) int {
	p := indexOf(m.Programs, program)
	if p < 0 {
		return 0
	}
	sum := 0
	for _, v := range m.Counts[p] {
		sum += v
	}
	return sum
}

// ColumnSum is the total for one column across programs.
func (m *Matrix) ColumnSum(column string) int {
	c := indexOf(m.Columns, column)
	if c < 0 {
		return 0
	}
	sum := 0
	for _, row := range m.Counts {
		sum += row[c]
	}
	return sum
}

// ProgramsWith counts programs with a non-zero value in column.
func (m *Matrix) ProgramsWith(column string) int {
	c := indexOf(m.Columns, column)
	if c < 0 {
		return 0
	}
	n := 0
	for _, row := range m.Counts {
		if row[c] > 0 {
			n++
		}
	}
	return n
}

func (m *Matrix) add(p, c, n int) {
	m.Counts[p][c] += n
}
