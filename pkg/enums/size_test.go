package enums

import "testing"

func TestParseSize(t *testing.T) {
	t.Parallel()

	size, err := ParseSize("250ml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if size != Size250ml {
		t.Fatalf("expected 250ml, got %s", size)
	}

	if _, err := ParseSize("2l"); err == nil {
		t.Fatal("expected error for unknown size")
	}
}

func TestSizeDisplayOrder(t *testing.T) {
	t.Parallel()

	if len(SizesInDisplayOrder) != 5 {
		t.Fatalf("expected 5 sizes, got %d", len(SizesInDisplayOrder))
	}
	if SizesInDisplayOrder[0] != Size80ml || SizesInDisplayOrder[4] != Size1000ml {
		t.Fatalf("sizes out of order: %v", SizesInDisplayOrder)
	}
	if Size80ml.Label() != "Individual" || Size1000ml.Label() != "Família" {
		t.Fatal("unexpected size labels")
	}
}

func TestSizeIsValid(t *testing.T) {
	t.Parallel()

	for _, size := range SizesInDisplayOrder {
		if !size.IsValid() {
			t.Fatalf("size %s should be valid", size)
		}
	}
	if Size("330ml").IsValid() {
		t.Fatal("unknown size should be invalid")
	}
}
