package layout

import "testing"

func TestAnchorAssignPreservesOrderAndLength(t *testing.T) {
	assigner := NewAnchorAssigner()
	issues := []Issue{
		{Type: IssueLabelMissing, PageNum: 1, BBox: box(50, 100, 550, 114)},
		{Type: IssueHierarchyFault, PageNum: 2, BBox: box(50, 80, 550, 100)},
		{Type: IssueLabelMissing, PageNum: 1, BBox: box(50, 100, 550, 114)},
	}
	out := assigner.Assign(issues)
	if len(out) != 3 {
		t.Fatalf("length changed: %d", len(out))
	}
	for i, is := range out {
		if is.Anchor == nil {
			t.Fatalf("issue %d has no anchor", i)
		}
		if is.Anchor.Highlight != is.BBox {
			t.Errorf("issue %d highlight %+v != bbox %+v", i, is.Anchor.Highlight, is.BBox)
		}
	}
	// Duplicates are kept, with identical ids.
	if out[0].Anchor.ID != out[2].Anchor.ID {
		t.Errorf("equal tuples produced different ids")
	}
	if out[0].Anchor.ID == out[1].Anchor.ID {
		t.Errorf("distinct tuples produced the same id")
	}
}

func TestAnchorIDDeterministic(t *testing.T) {
	b := box(10, 20, 30, 40)
	first := AnchorID(IssueCitationFault, 3, b)
	second := AnchorID(IssueCitationFault, 3, b)
	if first != second {
		t.Errorf("anchor id not stable: %s vs %s", first, second)
	}
	if len(first) != 64 {
		t.Errorf("anchor id length = %d, want 64 hex chars", len(first))
	}
	if AnchorID(IssueCitationFault, 4, b) == first {
		t.Errorf("page change did not change the id")
	}
	if AnchorID(IssueCitationFault, 3, box(10, 20, 30, 41)) == first {
		t.Errorf("bbox change did not change the id")
	}
}
