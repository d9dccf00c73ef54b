package layout

// Instance is anything that owns a layout node. Hosts implement it on their
// own objects so the driver can reach the tree without knowing the host.
type Instance interface {
	LayoutInstance() *Node
}

// Walk calls fn for root and every descendant, breadth-first, so parents are
// always visited before their children. Returning false from fn skips the
// node's subtree.
func Walk(root *Node, fn func(*Node) bool) {
	if root == nil {
		return
	}
	queue := []*Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if fn(n) {
			queue = append(queue, n.children...)
		}
	}
}

// CollectBehaviors returns every behavior under the given roots in execution
// order: nodes in walk order, behaviors by descending priority.
func CollectBehaviors(roots ...Instance) []Behavior {
	var out []Behavior
	for _, r := range roots {
		Walk(r.LayoutInstance(), func(n *Node) bool {
			out = append(out, n.behaviors...)
			return true
		})
	}
	return out
}

// TickStats summarizes one Tick.
type TickStats struct {
	Nodes   int // nodes visited
	Ran     int // dirty behaviors that validated and ran
	Skipped int // dirty behaviors that failed validation
}

// TickObserver is notified of dirty behaviors that fail validation.
type TickObserver func(n *Node, b Behavior)

// Tick runs one layout pass over the trees under roots. Parents run before
// children, and each node runs its behaviors in priority order.
func Tick(roots ...Instance) TickStats {
	return TickWithObserver(nil, roots...)
}

// TickWithObserver is Tick with a callback for skipped behaviors.
func TickWithObserver(observe TickObserver, roots ...Instance) TickStats {
	var stats TickStats
	for _, r := range roots {
		Walk(r.LayoutInstance(), func(n *Node) bool {
			stats.Nodes++
			for _, b := range n.Behaviors() {
				if b.Target() != n {
					continue
				}
				if b.IsDirty() {
					if b.Validate() {
						stats.Ran++
					} else {
						stats.Skipped++
						if observe != nil {
							observe(n, b)
						}
					}
				}
				b.UpdateLayout()
			}
			return true
		})
	}
	return stats
}
