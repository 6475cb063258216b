package models

import (
	"fmt"
	"testing"
)

func uintPtr(v uint) *uint { return &v }

func flat(specs ...[2]uint) []*Comment {
	// specs are {id, parent}; parent 0 means root.
	out := make([]*Comment, 0, len(specs))
	for _, s := range specs {
		c := &Comment{ID: s[0], ThreadID: 1}
		if s[1] != 0 {
			c.ParentID = uintPtr(s[1])
		}
		out = append(out, c)
	}
	return out
}

func TestBuildCommentTreeNesting(t *testing.T) {
	roots := BuildCommentTree(flat([2]uint{1, 0}, [2]uint{2, 1}, [2]uint{3, 1}, [2]uint{4, 2}), TreeOptions{})

	if len(roots) != 1 || roots[0].ID != 1 {
		t.Fatalf("expected single root id=1, got %d roots", len(roots))
	}
	r := roots[0]
	if len(r.Replies) != 2 || r.Replies[0].ID != 2 || r.Replies[1].ID != 3 {
		t.Fatalf("root replies = %v, want [2 3]", ids(r.Replies))
	}
	if len(r.Replies[0].Replies) != 1 || r.Replies[0].Replies[0].ID != 4 {
		t.Fatalf("comment 2 replies = %v, want [4]", ids(r.Replies[0].Replies))
	}
	if len(r.Replies[1].Replies) != 0 {
		t.Fatalf("comment 3 should have no replies")
	}
	if got := CountTreeNodes(roots); got != 4 {
		t.Fatalf("CountTreeNodes = %d, want 4", got)
	}
}

func TestBuildCommentTreeSiblingOrder(t *testing.T) {
	// Siblings arrive interleaved with other branches; relative order among
	// siblings must follow the input list.
	roots := BuildCommentTree(flat(
		[2]uint{10, 0},
		[2]uint{13, 10},
		[2]uint{20, 0},
		[2]uint{11, 10},
		[2]uint{12, 10},
	), TreeOptions{})

	if got := ids(roots); got != "[10 20]" {
		t.Fatalf("roots = %v, want [10 20]", got)
	}
	if got := ids(roots[0].Replies); got != "[13 11 12]" {
		t.Fatalf("siblings = %v, want input order [13 11 12]", got)
	}
}

func TestBuildCommentTreeDropsOrphans(t *testing.T) {
	roots := BuildCommentTree(flat([2]uint{5, 99}), TreeOptions{})
	if len(roots) != 0 {
		t.Fatalf("orphan should be dropped, got %d roots", len(roots))
	}
	if got := CountTreeNodes(roots); got != 0 {
		t.Fatalf("CountTreeNodes = %d, want 0", got)
	}
}

func TestBuildCommentTreePromotesOrphans(t *testing.T) {
	roots := BuildCommentTree(flat([2]uint{1, 0}, [2]uint{5, 99}), TreeOptions{PromoteOrphans: true})
	if got := ids(roots); got != "[1 5]" {
		t.Fatalf("roots = %v, want [1 5]", got)
	}
}

func TestBuildCommentTreeForwardReference(t *testing.T) {
	// A child listed before its parent still attaches; order within the
	// input only governs siblings, not parent resolution.
	roots := BuildCommentTree(flat([2]uint{2, 1}, [2]uint{1, 0}), TreeOptions{})
	if len(roots) != 1 || len(roots[0].Replies) != 1 || roots[0].Replies[0].ID != 2 {
		t.Fatalf("forward-referenced child not attached: %+v", roots)
	}
}

func TestBuildCommentTreeResetsStaleReplies(t *testing.T) {
	cs := flat([2]uint{1, 0}, [2]uint{2, 1})
	BuildCommentTree(cs, TreeOptions{})
	// Rebuilding from the same slice must not duplicate children.
	roots := BuildCommentTree(cs, TreeOptions{})
	if len(roots[0].Replies) != 1 {
		t.Fatalf("rebuild duplicated replies: %v", ids(roots[0].Replies))
	}
}

func TestFlattenCommentTreeOrderAndDepth(t *testing.T) {
	roots := BuildCommentTree(flat(
		[2]uint{1, 0},
		[2]uint{2, 1},
		[2]uint{3, 1},
		[2]uint{4, 2},
		[2]uint{5, 0},
	), TreeOptions{})
	rows := FlattenCommentTree(roots, DefaultRenderConfig(), 0)

	wantOrder := []uint{1, 2, 4, 3, 5}
	wantDepth := []int{0, 1, 2, 1, 0}
	if len(rows) != len(wantOrder) {
		t.Fatalf("got %d rows, want %d", len(rows), len(wantOrder))
	}
	for i, row := range rows {
		if row.Comment.ID != wantOrder[i] || row.Depth != wantDepth[i] {
			t.Errorf("row %d = id=%d depth=%d, want id=%d depth=%d",
				i, row.Comment.ID, row.Depth, wantOrder[i], wantDepth[i])
		}
	}
}

func TestFlattenCommentTreeCapsIndent(t *testing.T) {
	// Build a chain 10 levels deep.
	specs := [][2]uint{{1, 0}}
	for id := uint(2); id <= 11; id++ {
		specs = append(specs, [2]uint{id, id - 1})
	}
	roots := BuildCommentTree(flat(specs...), TreeOptions{})
	cfg := RenderConfig{MaxDepth: 6, IndentUnit: 24}
	rows := FlattenCommentTree(roots, cfg, 0)

	if len(rows) != 11 {
		t.Fatalf("got %d rows, want 11", len(rows))
	}
	capped := cfg.MaxDepth * cfg.IndentUnit
	var atSix, atTen RenderRow
	for _, row := range rows {
		if row.Indent > capped {
			t.Errorf("depth %d indent %d exceeds cap %d", row.Depth, row.Indent, capped)
		}
		if row.Depth < cfg.MaxDepth && row.Collapsed {
			t.Errorf("depth %d should start expanded", row.Depth)
		}
		if row.Depth >= cfg.MaxDepth && !row.Collapsed {
			t.Errorf("depth %d should start collapsed", row.Depth)
		}
		switch row.Depth {
		case 6:
			atSix = row
		case 10:
			atTen = row
		}
	}
	if atSix.Indent != atTen.Indent {
		t.Errorf("indent at depth 10 (%d) differs from depth 6 (%d)", atTen.Indent, atSix.Indent)
	}
}

func TestFlattenCommentTreeHidesSelfReply(t *testing.T) {
	cs := flat([2]uint{1, 0}, [2]uint{2, 1})
	cs[0].UserID = 7
	cs[1].UserID = 8
	rows := FlattenCommentTree(BuildCommentTree(cs, TreeOptions{}), DefaultRenderConfig(), 7)
	if rows[0].CanReply {
		t.Error("viewer should not be offered a reply to their own comment")
	}
	if !rows[1].CanReply {
		t.Error("viewer should be able to reply to others")
	}
}

func TestFlattenCommentTreeRowsCarryNoSubtrees(t *testing.T) {
	roots := BuildCommentTree(flat(
		[2]uint{1, 0},
		[2]uint{2, 1},
		[2]uint{3, 2},
		[2]uint{4, 1},
	), TreeOptions{})
	rows := FlattenCommentTree(roots, DefaultRenderConfig(), 0)

	// Rows already encode structure through Depth; serializing Replies would
	// repeat every subtree once per ancestor row.
	for _, row := range rows {
		if row.Comment.Replies != nil {
			t.Errorf("row for comment %d still carries %d replies", row.Comment.ID, len(row.Comment.Replies))
		}
	}
	wantFanout := map[uint]int{1: 2, 2: 1, 3: 0, 4: 0}
	for _, row := range rows {
		if got := wantFanout[row.Comment.ID]; row.ReplyCount != got {
			t.Errorf("comment %d reply_count = %d, want %d", row.Comment.ID, row.ReplyCount, got)
		}
	}
	// Flattening must not strip the tree itself.
	if len(roots[0].Replies) != 2 {
		t.Fatalf("flatten mutated the source tree: root has %d replies, want 2", len(roots[0].Replies))
	}
}

func ids(cs []*Comment) string {
	out := make([]uint, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return fmt.Sprint(out)
}
