package models

// TreeOptions controls how BuildCommentTree handles comments whose parent is
// missing from the input set. The historical behavior is to drop them; set
// PromoteOrphans to surface them as roots instead.
type TreeOptions struct {
	PromoteOrphans bool
}

// BuildCommentTree converts the flat comment list of one thread into an
// ordered forest. Sibling order follows input order. Runs in O(n): one pass
// builds the id lookup, a second pass attaches each comment to its parent's
// Replies or to the root list.
//
// A comment referencing a parent that is not in the set is dropped unless
// opts.PromoteOrphans is set, in which case it becomes a root.
func BuildCommentTree(comments []*Comment, opts TreeOptions) []*Comment {
	byID := make(map[uint]*Comment, len(comments))
	for _, c := range comments {
		c.Replies = nil
		byID[c.ID] = c
	}

	roots := make([]*Comment, 0, len(comments))
	for _, c := range comments {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		parent, ok := byID[*c.ParentID]
		if !ok {
			if opts.PromoteOrphans {
				roots = append(roots, c)
			}
			continue
		}
		parent.Replies = append(parent.Replies, c)
	}
	return roots
}

// CountTreeNodes returns the number of comments reachable from roots,
// including the roots themselves.
func CountTreeNodes(roots []*Comment) int {
	n := 0
	stack := make([]*Comment, len(roots))
	copy(stack, roots)
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		stack = append(stack, c.Replies...)
	}
	return n
}

// RenderConfig bounds the visual nesting of a comment tree.
type RenderConfig struct {
	// MaxDepth is the depth at which nodes start collapsed and indentation
	// stops growing.
	MaxDepth int
	// IndentUnit is the pixel step per depth level.
	IndentUnit int
}

// DefaultRenderConfig mirrors the thresholds the web client ships with.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{MaxDepth: 6, IndentUnit: 24}
}

// RenderRow is one comment in display order with its presentation state.
// Comment is a shallow copy with Replies cleared: the flat row list already
// encodes the structure through Depth, and serializing each subtree once per
// ancestor row would blow up the payload quadratically.
type RenderRow struct {
	Comment *Comment `json:"comment"`
	Depth   int      `json:"depth"`
	// ReplyCount preserves the fan-out the cleared Replies no longer shows.
	ReplyCount int `json:"reply_count"`
	// Indent is capped at MaxDepth*IndentUnit so pathological nesting cannot
	// push rows off the viewport.
	Indent    int  `json:"indent"`
	Collapsed bool `json:"collapsed"`
	// CanReply is false for the viewer's own comments; self-replies are not
	// offered.
	CanReply bool `json:"can_reply"`
}

// FlattenCommentTree walks the forest depth-first, preserving sibling order,
// and emits one RenderRow per comment. The traversal is iterative so thread
// depth is bounded by memory, not the call stack. viewerID 0 means anonymous.
func FlattenCommentTree(roots []*Comment, cfg RenderConfig, viewerID uint) []RenderRow {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultRenderConfig().MaxDepth
	}
	if cfg.IndentUnit <= 0 {
		cfg.IndentUnit = DefaultRenderConfig().IndentUnit
	}

	type frame struct {
		c     *Comment
		depth int
	}

	rows := make([]RenderRow, 0, len(roots))
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{roots[i], 0})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		depth := f.depth
		indent := depth
		if indent > cfg.MaxDepth {
			indent = cfg.MaxDepth
		}
		node := *f.c
		node.Replies = nil
		rows = append(rows, RenderRow{
			Comment:    &node,
			Depth:      depth,
			ReplyCount: len(f.c.Replies),
			Indent:     indent * cfg.IndentUnit,
			Collapsed:  depth >= cfg.MaxDepth,
			CanReply:   viewerID == 0 || f.c.UserID != viewerID,
		})
		for i := len(f.c.Replies) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.c.Replies[i], depth + 1})
		}
	}
	return rows
}
