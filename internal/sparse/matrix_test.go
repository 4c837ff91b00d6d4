package sparse

import (
	"math"
	"testing"
)

func TestInsertAndAt(t *testing.T) {
	m := NewMatrix(3, 4)

	m.Insert(0, 2, 0.5)
	m.Insert(0, 0, 0.25)
	m.Insert(0, 3, 0.25)

	if got := m.At(0, 0); got != 0.25 {
		t.Fatalf("expected 0.25 at (0,0), got %f", got)
	}
	if got := m.At(0, 2); got != 0.5 {
		t.Fatalf("expected 0.5 at (0,2), got %f", got)
	}
	if got := m.At(0, 1); got != 0 {
		t.Fatalf("expected 0 for absent entry, got %f", got)
	}
	if got := m.At(2, 3); got != 0 {
		t.Fatalf("expected 0 for empty row, got %f", got)
	}

	// Row must come back sorted by column regardless of insert order
	row := m.Row(0)
	if len(row) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(row))
	}
	for i := 1; i < len(row); i++ {
		if row[i-1].Col >= row[i].Col {
			t.Fatalf("row not sorted: %+v", row)
		}
	}
}

func TestInsertOverwrites(t *testing.T) {
	m := NewMatrix(1, 2)
	m.Insert(0, 1, 0.3)
	m.Insert(0, 1, 0.9)

	if got := m.At(0, 1); got != 0.9 {
		t.Fatalf("expected overwrite to 0.9, got %f", got)
	}
	if len(m.Row(0)) != 1 {
		t.Fatalf("expected a single entry, got %d", len(m.Row(0)))
	}
}

func TestAddAccumulates(t *testing.T) {
	m := NewMatrix(2, 3)
	m.Add(1, 0, 0.2)
	m.Add(1, 0, 0.3)
	m.Add(1, 2, 1.0)

	if got := m.At(1, 0); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("expected 0.5 after accumulation, got %f", got)
	}
	if got := m.At(1, 2); got != 1.0 {
		t.Fatalf("expected 1.0, got %f", got)
	}
}

func TestRowSum(t *testing.T) {
	m := NewMatrix(2, 4)
	m.Insert(0, 0, 0.1)
	m.Insert(0, 1, 0.2)
	m.Insert(0, 3, 0.7)

	if got := m.RowSum(0); math.Abs(got-1.0) > 1e-12 {
		t.Fatalf("expected row sum 1.0, got %f", got)
	}
	if got := m.RowSum(1); got != 0 {
		t.Fatalf("expected 0 for empty row, got %f", got)
	}
}

func TestClearRow(t *testing.T) {
	m := NewMatrix(2, 2)
	m.Insert(0, 0, 1)
	m.Insert(1, 1, 1)

	m.ClearRow(0)

	if m.At(0, 0) != 0 {
		t.Fatal("cleared row still holds a value")
	}
	if m.At(1, 1) != 1 {
		t.Fatal("ClearRow touched another row")
	}
	if m.NNZ() != 1 {
		t.Fatalf("expected NNZ 1, got %d", m.NNZ())
	}
}

func TestCompactDropsNearZero(t *testing.T) {
	m := NewMatrix(1, 4)
	m.Insert(0, 0, 0.5)
	m.Insert(0, 1, 1e-12)
	m.Insert(0, 2, -1e-12)
	m.Insert(0, 3, 0.5)

	m.Compact(1e-9)

	if m.NNZ() != 2 {
		t.Fatalf("expected 2 entries after compaction, got %d", m.NNZ())
	}
	if m.At(0, 1) != 0 || m.At(0, 2) != 0 {
		t.Fatal("near-zero entries survived compaction")
	}
	if m.At(0, 0) != 0.5 || m.At(0, 3) != 0.5 {
		t.Fatal("compaction dropped real entries")
	}
}
