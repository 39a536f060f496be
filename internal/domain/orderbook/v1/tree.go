package orderbookv1

// LevelTree is a red-black tree of price levels keyed by price, ascending.
// It backs one side of the book: lookup, insert and delete are O(log n) in
// the number of distinct prices, and min/max give the best level of either
// direction without scanning.
type LevelTree struct {
	root     *levelNode
	sentinel *levelNode
	size     int
}

type levelColor uint8

const (
	colorRed   levelColor = 0
	colorBlack levelColor = 1
)

type levelNode struct {
	price  float64
	level  *PriceLevel
	color  levelColor
	left   *levelNode
	right  *levelNode
	parent *levelNode
}

// NewLevelTree constructs an empty tree with a black sentinel leaf.
func NewLevelTree() *LevelTree {
	s := &levelNode{color: colorBlack}
	return &LevelTree{root: s, sentinel: s}
}

// Size returns the number of price levels in the tree.
func (t *LevelTree) Size() int { return t.size }

// FindLevel returns the level at the exact price, or nil.
func (t *LevelTree) FindLevel(price float64) *PriceLevel {
	n := t.root
	for n != t.sentinel {
		switch {
		case price < n.price:
			n = n.left
		case price > n.price:
			n = n.right
		default:
			return n.level
		}
	}
	return nil
}

// UpsertLevel returns the level at the price, creating it at its sorted
// position when absent. The sorted position holds across all levels, not
// just relative to the current best.
func (t *LevelTree) UpsertLevel(price float64) *PriceLevel {
	y := t.sentinel
	x := t.root
	for x != t.sentinel {
		y = x
		switch {
		case price < x.price:
			x = x.left
		case price > x.price:
			x = x.right
		default:
			return x.level
		}
	}

	lvl := &PriceLevel{Price: price}
	z := &levelNode{
		price:  price,
		level:  lvl,
		color:  colorRed,
		left:   t.sentinel,
		right:  t.sentinel,
		parent: y,
	}
	if y == t.sentinel {
		t.root = z
	} else if price < y.price {
		y.left = z
	} else {
		y.right = z
	}
	t.insertFixup(z)
	t.size++
	return lvl
}

// DeleteLevel removes the level at the price. It reports whether a level
// existed there.
func (t *LevelTree) DeleteLevel(price float64) bool {
	z := t.searchNode(price)
	if z == t.sentinel {
		return false
	}
	t.deleteNode(z)
	t.size--
	return true
}

// MinLevel returns the lowest-priced level, or nil when the tree is empty.
func (t *LevelTree) MinLevel() *PriceLevel {
	n := t.minNode(t.root)
	if n == t.sentinel {
		return nil
	}
	return n.level
}

// MaxLevel returns the highest-priced level, or nil when the tree is empty.
func (t *LevelTree) MaxLevel() *PriceLevel {
	n := t.maxNode(t.root)
	if n == t.sentinel {
		return nil
	}
	return n.level
}

// ForEachAscending visits levels from lowest to highest price until fn
// returns false.
func (t *LevelTree) ForEachAscending(fn func(*PriceLevel) bool) {
	for n := t.minNode(t.root); n != t.sentinel; n = t.next(n) {
		if !fn(n.level) {
			return
		}
	}
}

// ForEachDescending visits levels from highest to lowest price until fn
// returns false.
func (t *LevelTree) ForEachDescending(fn func(*PriceLevel) bool) {
	for n := t.maxNode(t.root); n != t.sentinel; n = t.prev(n) {
		if !fn(n.level) {
			return
		}
	}
}

func (t *LevelTree) searchNode(price float64) *levelNode {
	n := t.root
	for n != t.sentinel {
		switch {
		case price < n.price:
			n = n.left
		case price > n.price:
			n = n.right
		default:
			return n
		}
	}
	return t.sentinel
}

func (t *LevelTree) minNode(n *levelNode) *levelNode {
	if n == t.sentinel {
		return t.sentinel
	}
	for n.left != t.sentinel {
		n = n.left
	}
	return n
}

func (t *LevelTree) maxNode(n *levelNode) *levelNode {
	if n == t.sentinel {
		return t.sentinel
	}
	for n.right != t.sentinel {
		n = n.right
	}
	return n
}

func (t *LevelTree) next(n *levelNode) *levelNode {
	if n.right != t.sentinel {
		return t.minNode(n.right)
	}
	p := n.parent
	for p != t.sentinel && n == p.right {
		n = p
		p = p.parent
	}
	return p
}

func (t *LevelTree) prev(n *levelNode) *levelNode {
	if n.left != t.sentinel {
		return t.maxNode(n.left)
	}
	p := n.parent
	for p != t.sentinel && n == p.left {
		n = p
		p = p.parent
	}
	return p
}

func (t *LevelTree) leftRotate(x *levelNode) {
	y := x.right
	x.right = y.left
	if y.left != t.sentinel {
		y.left.parent = x
	}
	y.parent = x.parent
	if x.parent == t.sentinel {
		t.root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (t *LevelTree) rightRotate(y *levelNode) {
	x := y.left
	y.left = x.right
	if x.right != t.sentinel {
		x.right.parent = y
	}
	x.parent = y.parent
	if y.parent == t.sentinel {
		t.root = x
	} else if y == y.parent.right {
		y.parent.right = x
	} else {
		y.parent.left = x
	}
	x.right = y
	y.parent = x
}

func (t *LevelTree) insertFixup(z *levelNode) {
	for z.parent.color == colorRed {
		if z.parent == z.parent.parent.left {
			y := z.parent.parent.right
			if y.color == colorRed {
				z.parent.color = colorBlack
				y.color = colorBlack
				z.parent.parent.color = colorRed
				z = z.parent.parent
			} else {
				if z == z.parent.right {
					z = z.parent
					t.leftRotate(z)
				}
				z.parent.color = colorBlack
				z.parent.parent.color = colorRed
				t.rightRotate(z.parent.parent)
			}
		} else {
			y := z.parent.parent.left
			if y.color == colorRed {
				z.parent.color = colorBlack
				y.color = colorBlack
				z.parent.parent.color = colorRed
				z = z.parent.parent
			} else {
				if z == z.parent.left {
					z = z.parent
					t.rightRotate(z)
				}
				z.parent.color = colorBlack
				z.parent.parent.color = colorRed
				t.leftRotate(z.parent.parent)
			}
		}
	}
	t.root.color = colorBlack
}

func (t *LevelTree) transplant(u, v *levelNode) {
	if u.parent == t.sentinel {
		t.root = v
	} else if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	v.parent = u.parent
}

func (t *LevelTree) deleteNode(z *levelNode) {
	y := z
	yColor := y.color
	var x *levelNode

	if z.left == t.sentinel {
		x = z.right
		t.transplant(z, z.right)
	} else if z.right == t.sentinel {
		x = z.left
		t.transplant(z, z.left)
	} else {
		y = t.minNode(z.right)
		yColor = y.color
		x = y.right
		if y.parent == z {
			x.parent = y
		} else {
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	if yColor == colorBlack {
		t.deleteFixup(x)
	}
}

func (t *LevelTree) deleteFixup(x *levelNode) {
	for x != t.root && x.color == colorBlack {
		if x == x.parent.left {
			w := x.parent.right
			if w.color == colorRed {
				w.color = colorBlack
				x.parent.color = colorRed
				t.leftRotate(x.parent)
				w = x.parent.right
			}
			if w.left.color == colorBlack && w.right.color == colorBlack {
				w.color = colorRed
				x = x.parent
			} else {
				if w.right.color == colorBlack {
					w.left.color = colorBlack
					w.color = colorRed
					t.rightRotate(w)
					w = x.parent.right
				}
				w.color = x.parent.color
				x.parent.color = colorBlack
				w.right.color = colorBlack
				t.leftRotate(x.parent)
				x = t.root
			}
		} else {
			w := x.parent.left
			if w.color == colorRed {
				w.color = colorBlack
				x.parent.color = colorRed
				t.rightRotate(x.parent)
				w = x.parent.left
			}
			if w.right.color == colorBlack && w.left.color == colorBlack {
				w.color = colorRed
				x = x.parent
			} else {
				if w.left.color == colorBlack {
					w.right.color = colorBlack
					w.color = colorRed
					t.leftRotate(w)
					w = x.parent.left
				}
				w.color = x.parent.color
				x.parent.color = colorBlack
				w.left.color = colorBlack
				t.rightRotate(x.parent)
				x = t.root
			}
		}
	}
	x.color = colorBlack
}
