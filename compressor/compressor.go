/*
Package compressor packs the sparse two-dimensional tables of a parser into flat arrays.

A table is first reduced to its distinct rows, since many LR states share an action row. The distinct rows are
then overlaid by row displacement: every row is shifted to the lowest offset where its non-empty cells fall on
unused slots, and a parallel bounds array records which row owns each slot.
*/
package compressor

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// Dense is an uncompressed row-major table.
type Dense struct {
	entries  []int
	rowCount int
	colCount int
}

func NewDense(entries []int, colCount int) (*Dense, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("entries is empty")
	}
	if colCount <= 0 {
		return nil, fmt.Errorf("colCount must be >=1")
	}
	if len(entries)%colCount != 0 {
		return nil, fmt.Errorf("entries length or column count are incorrect; entries length: %v, column count: %v", len(entries), colCount)
	}

	return &Dense{
		entries:  entries,
		rowCount: len(entries) / colCount,
		colCount: colCount,
	}, nil
}

func (t *Dense) Lookup(row, col int) (int, error) {
	if row < 0 || row >= t.rowCount || col < 0 || col >= t.colCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return t.entries[row*t.colCount+col], nil
}

func (t *Dense) Size() (int, int) {
	return t.rowCount, t.colCount
}

// Len is the number of stored ints.
func (t *Dense) Len() int {
	return len(t.entries)
}

// Table is a read-only view of a table in any representation.
type Table interface {
	Lookup(row, col int) (int, error)
	Size() (int, int)
	Len() int
}

var (
	_ Table = &Dense{}
	_ Table = &UniqueRows{}
	_ Table = &RowDisplacement{}
	_ Table = &Packed{}
)

// UniqueRows stores every distinct row once.
type UniqueRows struct {
	Rows     *Dense
	RowNums  []int
	RowCount int
}

func NewUniqueRows(orig *Dense) *UniqueRows {
	var unique []int
	rowNums := make([]int, orig.rowCount)
	key2RowNum := map[string]int{}
	buf := make([]byte, binary.MaxVarintLen64)
	for row := 0; row < orig.rowCount; row++ {
		start := row * orig.colCount
		cells := orig.entries[start : start+orig.colCount]

		key := make([]byte, 0, orig.colCount*2)
		for _, v := range cells {
			n := binary.PutVarint(buf, int64(v))
			key = append(key, buf[:n]...)
		}
		rowNum, ok := key2RowNum[string(key)]
		if !ok {
			rowNum = len(key2RowNum)
			key2RowNum[string(key)] = rowNum
			unique = append(unique, cells...)
		}
		rowNums[row] = rowNum
	}

	return &UniqueRows{
		Rows: &Dense{
			entries:  unique,
			rowCount: len(unique) / orig.colCount,
			colCount: orig.colCount,
		},
		RowNums:  rowNums,
		RowCount: orig.rowCount,
	}
}

func (t *UniqueRows) Lookup(row, col int) (int, error) {
	if row < 0 || row >= t.RowCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return t.Rows.Lookup(t.RowNums[row], col)
}

func (t *UniqueRows) Size() (int, int) {
	return t.RowCount, t.Rows.colCount
}

func (t *UniqueRows) Len() int {
	return t.Rows.Len() + len(t.RowNums)
}

// forbidden marks a slot no row owns.
const forbidden = -1

// RowDisplacement overlays the rows of a table whose empty cells all hold one value.
type RowDisplacement struct {
	RowCount     int
	ColCount     int
	EmptyValue   int
	Entries      []int
	Bounds       []int
	Displacement []int
}

type rowInfo struct {
	rowNum      int
	nonEmptyCol []int
}

func NewRowDisplacement(orig *Dense, emptyValue int) *RowDisplacement {
	infos := make([]rowInfo, orig.rowCount)
	for row := 0; row < orig.rowCount; row++ {
		infos[row].rowNum = row
		for col := 0; col < orig.colCount; col++ {
			if orig.entries[row*orig.colCount+col] != emptyValue {
				infos[row].nonEmptyCol = append(infos[row].nonEmptyCol, col)
			}
		}
	}
	// Placing the densest rows first leaves the sparse ones to fill the gaps.
	sort.SliceStable(infos, func(i, j int) bool {
		return len(infos[i].nonEmptyCol) > len(infos[j].nonEmptyCol)
	})

	size := len(orig.entries)
	entries := make([]int, size)
	bounds := make([]int, size)
	for i := 0; i < size; i++ {
		entries[i] = emptyValue
		bounds[i] = forbidden
	}
	displacement := make([]int, orig.rowCount)
	bottom := orig.colCount
	next := 0
	for _, info := range infos {
		if len(info.nonEmptyCol) == 0 {
			continue
		}
		for !fits(bounds, next, info.nonEmptyCol) {
			next++
		}
		displacement[info.rowNum] = next
		for _, col := range info.nonEmptyCol {
			entries[next+col] = orig.entries[info.rowNum*orig.colCount+col]
			bounds[next+col] = info.rowNum
		}
		if next+orig.colCount > bottom {
			bottom = next + orig.colCount
		}
		next++
	}

	return &RowDisplacement{
		RowCount:     orig.rowCount,
		ColCount:     orig.colCount,
		EmptyValue:   emptyValue,
		Entries:      entries[:bottom],
		Bounds:       bounds[:bottom],
		Displacement: displacement,
	}
}

func fits(bounds []int, d int, cols []int) bool {
	for _, col := range cols {
		if bounds[d+col] != forbidden {
			return false
		}
	}
	return true
}

func (t *RowDisplacement) Lookup(row, col int) (int, error) {
	if row < 0 || row >= t.RowCount || col < 0 || col >= t.ColCount {
		return t.EmptyValue, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	d := t.Displacement[row]
	if t.Bounds[d+col] != row {
		return t.EmptyValue, nil
	}
	return t.Entries[d+col], nil
}

func (t *RowDisplacement) Size() (int, int) {
	return t.RowCount, t.ColCount
}

func (t *RowDisplacement) Len() int {
	return len(t.Entries) + len(t.Bounds) + len(t.Displacement)
}

// Packed chains both compressions: the distinct rows are stored by row displacement.
type Packed struct {
	rowNums  []int
	rows     *RowDisplacement
	colCount int
}

func Pack(orig *Dense, emptyValue int) *Packed {
	u := NewUniqueRows(orig)
	return &Packed{
		rowNums:  u.RowNums,
		rows:     NewRowDisplacement(u.Rows, emptyValue),
		colCount: orig.colCount,
	}
}

func (t *Packed) Lookup(row, col int) (int, error) {
	if row < 0 || row >= len(t.rowNums) {
		return t.rows.EmptyValue, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return t.rows.Lookup(t.rowNums[row], col)
}

func (t *Packed) Size() (int, int) {
	return len(t.rowNums), t.colCount
}

func (t *Packed) Len() int {
	return len(t.rowNums) + t.rows.Len()
}
