package loopcandidate

import "testing"

func TestSpacedMinimaPicksGlobalMinimaFirst(t *testing.T) {
	values := []float64{5, 1, 5, 5, 2, 5, 5, 5, 5, 5}
	indices, picked := SpacedMinima(values, 2, 1)
	if len(indices) != 2 {
		t.Fatalf("expected 2 picks, got %d", len(indices))
	}
	if indices[0] != 1 || picked[0] != 1 {
		t.Errorf("first pick = (%d, %v), want (1, 1)", indices[0], picked[0])
	}
	if indices[1] != 4 || picked[1] != 2 {
		t.Errorf("second pick = (%d, %v), want (4, 2)", indices[1], picked[1])
	}
}

func TestSpacedMinimaRespectsSpacing(t *testing.T) {
	values := []float64{1, 1.1, 1.2, 10, 10, 10}
	indices, _ := SpacedMinima(values, 3, 2)
	if len(indices) != 2 {
		t.Fatalf("expected suppression radius to block adjacent picks, got %d picks: %v", len(indices), indices)
	}
}

func TestSpacedMinimaEmptyInput(t *testing.T) {
	indices, picked := SpacedMinima(nil, 3, 1)
	if indices != nil || picked != nil {
		t.Error("expected nil results for empty input")
	}
}

func TestSpacedMinimaSparse(t *testing.T) {
	positions := []int{10, 50, 90, 130}
	values := []float64{3, 1, 2, 4}
	picked, pickedValues := SpacedMinimaSparse(positions, values, 2, 30)
	if len(picked) != 2 {
		t.Fatalf("expected 2 picks, got %d", len(picked))
	}
	if picked[0] != 50 || pickedValues[0] != 1 {
		t.Errorf("first pick = (%d, %v), want (50, 1)", picked[0], pickedValues[0])
	}
}
