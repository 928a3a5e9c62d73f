// Package matrix implements a dense row-major matrix over a field.Field,
// with reduced row-echelon reduction and a solver that handles the
// rank-deficient case the Berlekamp-Welch decoder occasionally produces.
package matrix

import (
	"fmt"

	"github.com/decentralized-identity/fuzzy-encryption/internal/field"
)

// Matrix is an r x c dense grid of field elements, stored row-major.
// Dimensions are fixed at construction; contents are mutable.
type Matrix struct {
	f    *field.Field
	rows int
	cols int
	buf  []field.Elem
}

// New builds an rows x cols matrix with every entry zero.
func New(f *field.Field, rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("matrix: invalid dimensions %dx%d", rows, cols)
	}
	return &Matrix{f: f, rows: rows, cols: cols, buf: make([]field.Elem, rows*cols)}, nil
}

// NewFromInts builds a matrix from row-major integer values, reducing each
// into the field.
func NewFromInts(f *field.Field, rows, cols int, values []int) (*Matrix, error) {
	m, err := New(f, rows, cols)
	if err != nil {
		return nil, err
	}
	if len(values) != rows*cols {
		return nil, fmt.Errorf("matrix: expected %d values, got %d", rows*cols, len(values))
	}
	for i, v := range values {
		m.buf[i] = f.Elem(v)
	}
	return m, nil
}

// Rows returns the row count.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) offset(row, col int) (int, error) {
	if row < 0 || row >= m.rows {
		return 0, fmt.Errorf("matrix: row %d out of range [0,%d)", row, m.rows)
	}
	if col < 0 || col >= m.cols {
		return 0, fmt.Errorf("matrix: col %d out of range [0,%d)", col, m.cols)
	}
	return row*m.cols + col, nil
}

// Get returns the value at (row, col).
func (m *Matrix) Get(row, col int) (field.Elem, error) {
	k, err := m.offset(row, col)
	if err != nil {
		return 0, err
	}
	return m.buf[k], nil
}

// Set stores v at (row, col).
func (m *Matrix) Set(row, col int, v field.Elem) error {
	k, err := m.offset(row, col)
	if err != nil {
		return err
	}
	m.buf[k] = v
	return nil
}

// SwapRows exchanges two rows in place.
func (m *Matrix) SwapRows(row1, row2 int) error {
	if row1 < 0 || row1 >= m.rows || row2 < 0 || row2 >= m.rows {
		return fmt.Errorf("matrix: row index out of range")
	}
	if row1 == row2 {
		return nil
	}
	for col := 0; col < m.cols; col++ {
		i1, _ := m.offset(row1, col)
		i2, _ := m.offset(row2, col)
		m.buf[i1], m.buf[i2] = m.buf[i2], m.buf[i1]
	}
	return nil
}

// Transpose returns the transpose of m.
func (m *Matrix) Transpose() (*Matrix, error) {
	out, err := New(m.f, m.cols, m.rows)
	if err != nil {
		return nil, err
	}
	for row := 0; row < m.rows; row++ {
		for col := 0; col < m.cols; col++ {
			v, _ := m.Get(row, col)
			if err := out.Set(col, row, v); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Augment returns the horizontal concatenation of m and rhs; both must have
// the same number of rows.
func (m *Matrix) Augment(rhs *Matrix) (*Matrix, error) {
	if m.rows != rhs.rows {
		return nil, fmt.Errorf("matrix: augment -- incompatible row counts %d and %d", m.rows, rhs.rows)
	}
	out, err := New(m.f, m.rows, m.cols+rhs.cols)
	if err != nil {
		return nil, err
	}
	for row := 0; row < m.rows; row++ {
		for col := 0; col < m.cols; col++ {
			v, _ := m.Get(row, col)
			_ = out.Set(row, col, v)
		}
		for col := 0; col < rhs.cols; col++ {
			v, _ := rhs.Get(row, col)
			_ = out.Set(row, m.cols+col, v)
		}
	}
	return out, nil
}

// IsSingular reports whether the matrix (assumed already in echelon form)
// has a zero on its diagonal.
func (m *Matrix) IsSingular() bool {
	n := m.rows
	if m.cols < n {
		n = m.cols
	}
	for i := 0; i < n; i++ {
		v, _ := m.Get(i, i)
		if v == 0 {
			return true
		}
	}
	return false
}

// errNoPivot signals that no pivot row was found for the current column;
// the caller advances the column and retries. It never escapes this
// package.
type errNoPivot struct{}

func (errNoPivot) Error() string { return "matrix: no pivot row found" }

func (m *Matrix) pivotRow(h, k int) (int, error) {
	for i := h; i < m.rows; i++ {
		v, _ := m.Get(i, k)
		if v != 0 {
			return i, nil
		}
	}
	return 0, errNoPivot{}
}

func (m *Matrix) pivot(h, k int) error {
	row, err := m.pivotRow(h, k)
	if err != nil {
		return err
	}
	return m.SwapRows(h, row)
}

// Echelon reduces the matrix in place to row-echelon form with leading 1s,
// walking (h,k) forward exactly as standard Gauss-Jordan elimination does:
// find a pivot in column k at or below row h, swap it into place, scale the
// row so the pivot is 1, and eliminate column k from every row below h.
func (m *Matrix) Echelon() error {
	h, k := 0, 0
	for h < m.rows && k < m.cols {
		if err := m.pivot(h, k); err != nil {
			if _, ok := err.(errNoPivot); ok {
				k++
				continue
			}
			return err
		}
		pivotVal, _ := m.Get(h, k)
		scale, err := m.f.Inv(pivotVal)
		if err != nil {
			return err
		}
		for i := k; i < m.cols; i++ {
			v, _ := m.Get(h, i)
			_ = m.Set(h, i, m.f.Mul(scale, v))
		}
		for i := h + 1; i < m.rows; i++ {
			factor, _ := m.Get(i, k)
			_ = m.Set(i, k, 0)
			for j := k + 1; j < m.cols; j++ {
				hj, _ := m.Get(h, j)
				ij, _ := m.Get(i, j)
				_ = m.Set(i, j, m.f.Sub(ij, m.f.Mul(hj, factor)))
			}
		}
		h++
		k++
	}
	return nil
}

// BackSubstitute clears every entry above each row's leading 1, turning a
// row-echelon matrix into full reduced form. It assumes the matrix is
// square-plus-one-RHS-column (the shape Solve produces).
func (m *Matrix) BackSubstitute() {
	last := m.cols - 1
	for row := m.rows - 1; row > 0; row-- {
		for row1 := row - 1; row1 >= 0; row1-- {
			coeff, _ := m.Get(row1, row)
			rhs, _ := m.Get(row, last)
			temp := m.f.Mul(coeff, rhs)
			_ = m.Set(row1, row, 0)
			cur, _ := m.Get(row1, last)
			_ = m.Set(row1, last, m.f.Sub(cur, temp))
		}
	}
}

// CountNullRows returns the number of all-zero rows at the bottom of the
// matrix (meaningful once the matrix is in echelon form).
func (m *Matrix) CountNullRows() int {
	count := 0
	for row := m.rows - 1; row >= 0; row-- {
		allZero := true
		for col := 0; col < m.cols; col++ {
			v, _ := m.Get(row, col)
			if v != 0 {
				allZero = false
				break
			}
		}
		if !allZero {
			break
		}
		count++
	}
	return count
}

func (m *Matrix) findLeadingOne(row int) (int, error) {
	for col := 0; col < m.cols; col++ {
		v, _ := m.Get(row, col)
		if v == 1 {
			return col, nil
		}
	}
	return 0, ErrNoSolution
}

func (m *Matrix) solveNormalCase() (*Matrix, error) {
	m.BackSubstitute()
	x, err := New(m.f, m.rows, 1)
	if err != nil {
		return nil, err
	}
	last := m.cols - 1
	for i := 0; i < m.rows; i++ {
		v, _ := m.Get(i, last)
		_ = x.Set(i, 0, v)
	}
	return x, nil
}

func (m *Matrix) solveSingularCase() (*Matrix, error) {
	if m.cols != m.rows+1 {
		return nil, fmt.Errorf("matrix: solve_singular_case -- not augmented correctly")
	}
	nullCount := m.CountNullRows()
	if nullCount == 0 {
		return nil, ErrNoSolution
	}
	return m.solveSolvableSingular(nullCount)
}

// solveSolvableSingular produces a particular solution: walking the
// non-zero rows from the bottom up, each row's leading-1 column is assigned
// the row's RHS value and then eliminated from every row above. Variables
// that never own a leading 1 are left at zero.
func (m *Matrix) solveSolvableSingular(nullCount int) (*Matrix, error) {
	x, err := New(m.f, m.rows, 1)
	if err != nil {
		return nil, err
	}
	last := m.cols - 1
	for row := m.rows - nullCount - 1; row >= 0; row-- {
		col, err := m.findLeadingOne(row)
		if err != nil {
			return nil, err
		}
		if col == last {
			return nil, ErrNoSolution
		}
		rhs, _ := m.Get(row, last)
		_ = x.Set(col, 0, rhs)
		for row1 := row - 1; row1 >= 0; row1-- {
			factor, _ := m.Get(row1, col)
			_ = m.Set(row1, col, 0)
			for col1 := col + 1; col1 < m.cols; col1++ {
				rowVal, _ := m.Get(row, col1)
				cur, _ := m.Get(row1, col1)
				_ = m.Set(row1, col1, m.f.Sub(cur, m.f.Mul(factor, rowVal)))
			}
		}
	}
	return x, nil
}

// Solve returns X such that m*X = b, where b is an n x 1 column matrix with
// the same row count as m. If the reduced augmented matrix is consistent
// but rank-deficient, Solve returns one particular solution (see
// solveSolvableSingular); if it is inconsistent, Solve returns
// ErrNoSolution.
func (m *Matrix) Solve(b *Matrix) (*Matrix, error) {
	a, err := m.Augment(b)
	if err != nil {
		return nil, err
	}
	if err := a.Echelon(); err != nil {
		return nil, err
	}
	if a.IsSingular() {
		return a.solveSingularCase()
	}
	return a.solveNormalCase()
}

// Mul returns a*b.
func Mul(f *field.Field, a, b *Matrix) (*Matrix, error) {
	if a.cols != b.rows {
		return nil, fmt.Errorf("matrix: cannot multiply %dx%d by %dx%d", a.rows, a.cols, b.rows, b.cols)
	}
	out, err := New(f, a.rows, b.cols)
	if err != nil {
		return nil, err
	}
	for row := 0; row < out.rows; row++ {
		for col := 0; col < out.cols; col++ {
			sum := f.Zero()
			for k := 0; k < a.cols; k++ {
				av, _ := a.Get(row, k)
				bv, _ := b.Get(k, col)
				sum = f.Add(sum, f.Mul(av, bv))
			}
			_ = out.Set(row, col, sum)
		}
	}
	return out, nil
}
