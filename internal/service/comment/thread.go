package comment

import (
	"sort"

	"github.com/google/uuid"

	"blogcms/internal/domain"
)

// BuildThreads links a flat list of comments into a forest by parent_id in a
// single pass. Roots keep the input order. A comment whose parent is not in
// the list (deleted, filtered out or on another page) becomes a root. Replies
// keep input order too; use SortRepliesNewestFirst to re-sort them.
func BuildThreads(comments []domain.Comment) []*domain.ThreadNode {
	nodes := make(map[uuid.UUID]*domain.ThreadNode, len(comments))
	for i := range comments {
		nodes[comments[i].ID] = &domain.ThreadNode{
			Comment: comments[i],
			Replies: []*domain.ThreadNode{},
		}
	}

	roots := make([]*domain.ThreadNode, 0, len(comments))
	for i := range comments {
		node := nodes[comments[i].ID]
		if pid := comments[i].ParentID; pid != nil && *pid != comments[i].ID {
			if parent, ok := nodes[*pid]; ok {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	// Comments caught in a parent_id cycle are unreachable from any root.
	// Promote the first of each cycle so nothing disappears.
	reached := make(map[uuid.UUID]struct{}, len(comments))
	mark := func(node *domain.ThreadNode) bool {
		reached[node.Comment.ID] = struct{}{}
		return true
	}
	Walk(roots, mark)
	if len(reached) == len(nodes) {
		return roots
	}
	for i := range comments {
		if _, ok := reached[comments[i].ID]; ok {
			continue
		}
		node := nodes[comments[i].ID]
		if parent, ok := nodes[*comments[i].ParentID]; ok {
			parent.Replies = removeNode(parent.Replies, node)
		}
		roots = append(roots, node)
		Walk([]*domain.ThreadNode{node}, mark)
	}
	return roots
}

// TwoLevel materializes the forest for display: each root keeps one reply
// list holding all of its descendants in walk order, and every reply has an
// empty list. Replies keep their parent_id, so BuildThreads over Flatten of
// the result restores the full tree.
func TwoLevel(roots []*domain.ThreadNode) []*domain.ThreadNode {
	out := make([]*domain.ThreadNode, 0, len(roots))
	for _, root := range roots {
		flat := &domain.ThreadNode{Comment: root.Comment, Replies: []*domain.ThreadNode{}}
		Walk(root.Replies, func(node *domain.ThreadNode) bool {
			flat.Replies = append(flat.Replies, &domain.ThreadNode{
				Comment: node.Comment,
				Replies: []*domain.ThreadNode{},
			})
			return true
		})
		out = append(out, flat)
	}
	return out
}

// SortRepliesNewestFirst orders every reply list in the forest by created_at,
// newest first. Roots are left as they are.
func SortRepliesNewestFirst(roots []*domain.ThreadNode) {
	Walk(roots, func(node *domain.ThreadNode) bool {
		sort.SliceStable(node.Replies, func(i, j int) bool {
			return node.Replies[i].Comment.CreatedAt.After(node.Replies[j].Comment.CreatedAt)
		})
		return true
	})
}

// Walk visits every node depth-first, parents before replies, without
// recursion. Returning false from fn stops the walk.
func Walk(roots []*domain.ThreadNode, fn func(*domain.ThreadNode) bool) {
	stack := make([]*domain.ThreadNode, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}

	visited := make(map[*domain.ThreadNode]struct{})
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[node]; seen {
			continue
		}
		visited[node] = struct{}{}

		if !fn(node) {
			return
		}
		for i := len(node.Replies) - 1; i >= 0; i-- {
			stack = append(stack, node.Replies[i])
		}
	}
}

// Flatten returns the comments of the forest in walk order.
func Flatten(roots []*domain.ThreadNode) []domain.Comment {
	var out []domain.Comment
	Walk(roots, func(node *domain.ThreadNode) bool {
		out = append(out, node.Comment)
		return true
	})
	return out
}

// FindNode returns the node with the given id anywhere in the forest.
func FindNode(roots []*domain.ThreadNode, id uuid.UUID) *domain.ThreadNode {
	var found *domain.ThreadNode
	Walk(roots, func(node *domain.ThreadNode) bool {
		if node.Comment.ID == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// FilterApproved drops every comment that is not approved.
func FilterApproved(comments []domain.Comment) []domain.Comment {
	out := make([]domain.Comment, 0, len(comments))
	for _, c := range comments {
		if c.IsApproved() {
			out = append(out, c)
		}
	}
	return out
}

func removeNode(list []*domain.ThreadNode, target *domain.ThreadNode) []*domain.ThreadNode {
	out := list[:0]
	for _, n := range list {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}
