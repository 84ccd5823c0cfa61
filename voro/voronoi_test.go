package voro

import (
	"math"
	"testing"

	v3 "github.com/rmera/goglass/v3"
)

func shell(vecs [][3]float64, scale float64) *v3.Matrix {
	r := v3.Zeros(len(vecs))
	for i, v := range vecs {
		r.Set(i, 0, v[0]*scale)
		r.Set(i, 1, v[1]*scale)
		r.Set(i, 2, v[2]*scale)
	}
	return r
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestCubicCell(t *testing.T) {
	d := shell([][3]float64{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}, 2.0)
	cell, err := ComputeCell(d, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !cell.Closed {
		t.Fatal("cubic cell not closed")
	}
	if len(cell.Faces) != 6 {
		t.Fatalf("expected 6 faces, got %d", len(cell.Faces))
	}
	for _, f := range cell.Faces {
		if f.Edges != 4 {
			t.Errorf("face %d has %d edges, expected 4", f.Candidate, f.Edges)
		}
		if !near(f.Area, 4, 1e-9) {
			t.Errorf("face %d area %f, expected 4", f.Candidate, f.Area)
		}
		if !near(f.Dist, 1, 1e-12) {
			t.Errorf("face %d at distance %f, expected 1", f.Candidate, f.Dist)
		}
	}
	if !near(cell.Volume, 8, 1e-9) {
		t.Errorf("cell volume %f, expected 8", cell.Volume)
	}
	if !near(cell.Area, 24, 1e-9) {
		t.Errorf("cell area %f, expected 24", cell.Area)
	}
	if !near(cell.MaxVertex, math.Sqrt(3), 1e-9) {
		t.Errorf("max vertex distance %f, expected sqrt(3)", cell.MaxVertex)
	}
}

//The full first three shells of a simple cubic lattice. The edge and
//corner neighbors give planes exactly tangent to the cube, which is as
//degenerate as it gets: the cell must come out the same as with the
//first shell alone.
func TestCubicCellDegenerate(t *testing.T) {
	vecs := make([][3]float64, 0, 26)
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			for z := -1; z <= 1; z++ {
				if x == 0 && y == 0 && z == 0 {
					continue
				}
				vecs = append(vecs, [3]float64{float64(x), float64(y), float64(z)})
			}
		}
	}
	d := shell(vecs, 2.0)
	cell, err := ComputeCell(d, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !cell.Closed {
		t.Fatal("degenerate cubic cell not closed")
	}
	if len(cell.Faces) != 6 {
		t.Fatalf("expected 6 faces, got %d", len(cell.Faces))
	}
	for _, f := range cell.Faces {
		if f.Edges != 4 {
			t.Errorf("face %d has %d edges, expected 4", f.Candidate, f.Edges)
		}
	}
	if !near(cell.Volume, 8, 1e-8) {
		t.Errorf("cell volume %f, expected 8", cell.Volume)
	}
}

//12 nearest neighbors of an FCC site: the cell is the rhombic
//dodecahedron, 12 four-sided faces, volume a^3/4.
func TestFCCCell(t *testing.T) {
	vecs := [][3]float64{
		{1, 1, 0}, {1, -1, 0}, {-1, 1, 0}, {-1, -1, 0},
		{1, 0, 1}, {1, 0, -1}, {-1, 0, 1}, {-1, 0, -1},
		{0, 1, 1}, {0, 1, -1}, {0, -1, 1}, {0, -1, -1},
	}
	d := shell(vecs, 1.0) //lattice constant a = 2
	cell, err := ComputeCell(d, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !cell.Closed {
		t.Fatal("fcc cell not closed")
	}
	if len(cell.Faces) != 12 {
		t.Fatalf("expected 12 faces, got %d", len(cell.Faces))
	}
	for _, f := range cell.Faces {
		if f.Edges != 4 {
			t.Errorf("face %d has %d edges, expected 4", f.Candidate, f.Edges)
		}
	}
	if !near(cell.Volume, 2, 1e-9) {
		t.Errorf("cell volume %f, expected 2", cell.Volume)
	}
}

//8 nearest plus 6 second neighbors of a BCC site: the cell is the
//truncated octahedron, 8 hexagonal and 6 square faces, volume a^3/2.
func TestBCCCell(t *testing.T) {
	vecs := [][3]float64{
		{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1},
		{-1, 1, 1}, {-1, 1, -1}, {-1, -1, 1}, {-1, -1, -1},
		{2, 0, 0}, {-2, 0, 0}, {0, 2, 0}, {0, -2, 0}, {0, 0, 2}, {0, 0, -2},
	}
	d := shell(vecs, 1.0) //lattice constant a = 2
	cell, err := ComputeCell(d, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !cell.Closed {
		t.Fatal("bcc cell not closed")
	}
	if len(cell.Faces) != 14 {
		t.Fatalf("expected 14 faces, got %d", len(cell.Faces))
	}
	squares, hexes := 0, 0
	for _, f := range cell.Faces {
		switch f.Edges {
		case 4:
			squares++
		case 6:
			hexes++
		default:
			t.Errorf("face %d has %d edges", f.Candidate, f.Edges)
		}
	}
	if squares != 6 || hexes != 8 {
		t.Errorf("%d square and %d hexagonal faces, expected 6 and 8", squares, hexes)
	}
	if !near(cell.Volume, 4, 1e-9) {
		t.Errorf("cell volume %f, expected 4", cell.Volume)
	}
}

func TestOpenCell(t *testing.T) {
	d := shell([][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, 1.0)
	cell, err := ComputeCell(d, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cell.Closed {
		t.Fatal("three half-spaces cannot close a cell")
	}
	if len(cell.Faces) != 0 {
		t.Errorf("open cell reported %d faces", len(cell.Faces))
	}
}

func TestBadCandidates(t *testing.T) {
	_, err := ComputeCell(nil, nil)
	if err == nil {
		t.Error("nil displacements accepted")
	}
	d := v3.Zeros(2)
	d.Set(0, 0, 1.0) //second row stays at the origin
	_, err = ComputeCell(d, nil)
	if err == nil {
		t.Error("zero-length candidate accepted")
	}
}
