// Package threading turns the flat comment list stored for a board post
// into the nested reply tree the client renders.
package threading

import (
	"sort"

	"github.com/paracosm-app/backend/internal/models"
)

// Presentation limits. Replies deeper than MaxReplyDepth are refused at
// creation time; the client caps visual indentation at MaxIndentDepth.
// The builder itself never truncates data.
const (
	MaxReplyDepth  = 5
	MaxIndentDepth = 3
)

// Node is a comment with its replies attached.
type Node struct {
	models.BoardComment
	Replies []*Node `json:"replies"`
}

// Build converts a flat, unordered comment set (all belonging to one post)
// into a forest of root nodes. Roots are sorted newest first, replies at
// every depth oldest first.
//
// Policies for malformed input:
//   - duplicate ids: first occurrence wins, later ones are dropped
//   - parent id null, unknown, or equal to the comment's own id: root
//   - mutual-parent cycles: broken by promoting the oldest member to root
//
// Every surviving comment appears in the output exactly once.
func Build(flat []models.BoardComment) []*Node {
	nodes := make(map[int]*Node, len(flat))
	order := make([]int, 0, len(flat))
	for _, c := range flat {
		if _, seen := nodes[c.ID]; seen {
			continue
		}
		nodes[c.ID] = &Node{BoardComment: c, Replies: []*Node{}}
		order = append(order, c.ID)
	}

	var roots []*Node
	parentOf := make(map[int]*Node, len(order))
	for _, id := range order {
		n := nodes[id]
		pid := n.ParentCommentID
		if pid == nil || *pid == n.ID {
			roots = append(roots, n)
			continue
		}
		parent, ok := nodes[*pid]
		if !ok {
			// Orphan: parent was deleted or never existed. Promote.
			roots = append(roots, n)
			continue
		}
		parent.Replies = append(parent.Replies, n)
		parentOf[n.ID] = parent
	}

	roots = breakCycles(roots, nodes, order, parentOf)

	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].CreatedAt.After(roots[j].CreatedAt)
	})
	for _, r := range roots {
		sortReplies(r)
	}
	return roots
}

// Depth returns the reply depth of a comment within its post's flat set:
// 0 for roots, parent depth + 1 otherwise. Unknown or cyclic parent chains
// stop counting where the chain breaks.
func Depth(flat []models.BoardComment, commentID int) int {
	parents := make(map[int]*int, len(flat))
	for _, c := range flat {
		if _, seen := parents[c.ID]; !seen {
			parents[c.ID] = c.ParentCommentID
		}
	}
	depth := 0
	visited := map[int]bool{}
	id := commentID
	for {
		pid, ok := parents[id]
		if !ok || pid == nil || *pid == id || visited[id] {
			return depth
		}
		visited[id] = true
		id = *pid
		depth++
	}
}

// breakCycles finds comments unreachable from any root (mutual-parent
// cycles) and promotes the oldest member of each cluster to root.
func breakCycles(roots []*Node, nodes map[int]*Node, order []int, parentOf map[int]*Node) []*Node {
	reachable := make(map[int]bool, len(nodes))
	var mark func(n *Node)
	mark = func(n *Node) {
		if reachable[n.ID] {
			return
		}
		reachable[n.ID] = true
		for _, r := range n.Replies {
			mark(r)
		}
	}
	for _, r := range roots {
		mark(r)
	}

	for {
		var oldest *Node
		for _, id := range order {
			n := nodes[id]
			if reachable[n.ID] {
				continue
			}
			if oldest == nil || n.CreatedAt.Before(oldest.CreatedAt) {
				oldest = n
			}
		}
		if oldest == nil {
			return roots
		}
		if parent := parentOf[oldest.ID]; parent != nil {
			parent.Replies = detach(parent.Replies, oldest)
		}
		roots = append(roots, oldest)
		mark(oldest)
	}
}

func detach(replies []*Node, target *Node) []*Node {
	out := replies[:0]
	for _, r := range replies {
		if r != target {
			out = append(out, r)
		}
	}
	return out
}

func sortReplies(n *Node) {
	sort.SliceStable(n.Replies, func(i, j int) bool {
		return n.Replies[i].CreatedAt.Before(n.Replies[j].CreatedAt)
	})
	for _, r := range n.Replies {
		sortReplies(r)
	}
}
