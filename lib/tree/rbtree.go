package tree

import (
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ordkit/ordkit/lib/infra"
)

// ErrReplaceDisabled reports an if-not-present insertion that found
// the key already stored.
var ErrReplaceDisabled = errors.New("[rbtree] replace disabled")

type rbNode[K any, V any] struct {
	parent *rbNode[K, V]
	left   *rbNode[K, V]
	right  *rbNode[K, V]
	key    K
	val    V
	color  RBColor
	hasKV  bool
}

func (node *rbNode[K, V]) Color() RBColor {
	return node.color
}

func (node *rbNode[K, V]) Key() K {
	return node.key
}

func (node *rbNode[K, V]) Val() V {
	return node.val
}

func (node *rbNode[K, V]) HasKeyVal() bool {
	if node == nil {
		return false
	}
	return node.hasKV
}

func (node *rbNode[K, V]) Left() RBNode[K, V] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *rbNode[K, V]) Parent() RBNode[K, V] {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

func (node *rbNode[K, V]) Right() RBNode[K, V] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *rbNode[K, V]) isNilLeaf() bool {
	return isNilLeaf[K, V](node)
}

func (node *rbNode[K, V]) isRed() bool {
	return isRed[K, V](node)
}

func (node *rbNode[K, V]) isBlack() bool {
	return isBlack[K, V](node)
}

func (node *rbNode[K, V]) isRoot() bool {
	return isRoot[K, V](node)
}

func (node *rbNode[K, V]) isLeaf() bool {
	return node != nil && node.parent != nil && node.left.isNilLeaf() && node.right.isNilLeaf()
}

func (node *rbNode[K, V]) Direction() RBDirection {
	if node.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbNode[K, V]) sibling() *rbNode[K, V] {
	dir := node.Direction()
	switch dir {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:

	}
	return nil
}

func (node *rbNode[K, V]) hasSibling() bool {
	return !node.isRoot() && node.sibling() != nil
}

func (node *rbNode[K, V]) uncle() *rbNode[K, V] {
	return node.parent.sibling()
}

func (node *rbNode[K, V]) hasUncle() bool {
	return !node.isRoot() && node.parent.hasSibling()
}

func (node *rbNode[K, V]) grandpa() *rbNode[K, V] {
	return node.parent.parent
}

func (node *rbNode[K, V]) fixLink() {
	if node.left != nil {
		node.left.parent = node
	}
	if node.right != nil {
		node.right.parent = node
	}
}

func (node *rbNode[K, V]) minimum() *rbNode[K, V] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *rbNode[K, V]) maximum() *rbNode[K, V] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

// The pred node of the current node is its previous node in sorted order.
func (node *rbNode[K, V]) pred() *rbNode[K, V] {
	x := node
	if x == nil {
		return nil
	}
	aux := x
	if aux.left != nil {
		return aux.left.maximum()
	}

	aux = x.parent
	// Backtrack to the first ancestor holding x in its right subtree.
	for aux != nil && x == aux.left {
		x = aux
		aux = aux.parent
	}
	return aux
}

// The succ node of the current node is its next node in sorted order.
func (node *rbNode[K, V]) succ() *rbNode[K, V] {
	x := node
	if x == nil {
		return nil
	}

	aux := x
	if aux.right != nil {
		return aux.right.minimum()
	}

	aux = x.parent
	// Backtrack to the first ancestor holding x in its left subtree.
	for aux != nil && x == aux.right {
		x = aux
		aux = aux.parent
	}
	return aux
}

type rbTree[K any, V any] struct {
	root   *rbNode[K, V]
	min    *rbNode[K, V] // boundary cache, leftmost real node
	max    *rbNode[K, V] // boundary cache, rightmost real node
	count  int64
	kcmp   infra.KeyComparator[K]
	logger *zap.Logger
	isDesc bool
}

func (tree *rbTree[K, V]) keyCompare(k1, k2 K) (int64, error) {
	res, err := tree.kcmp(k1, k2)
	if err != nil {
		return 0, err
	}
	if tree.isDesc {
		return -res, nil
	}
	return res, nil
}

func (tree *rbTree[K, V]) Len() int64 {
	return atomic.LoadInt64(&tree.count)
}

func (tree *rbTree[K, V]) Root() RBNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. (Optional) The root is black.
// (Conclusion) A node with exactly one child must have a red child,
// otherwise its NIL descendants would break p4.

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[K, V]) leftRotate(x *rbNode[K, V]) {
	if x == nil || x.right.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	p, y := x.parent, x.right
	dir := x.Direction()
	x.right, y.left = y.left, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to left-rotate")
	}
	y.parent = p
}

/*
			 |                         |
			 X                         S
			/ \     rightRotate(S)    / \
	       L   S    <============    X   R
			  / \                   / \
			Sc   Sd               Sc   Sd
*/
func (tree *rbTree[K, V]) rightRotate(x *rbNode[K, V]) {
	if x == nil || x.left.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	p, y := x.parent, x.left
	dir := x.Direction()
	x.left, y.right = y.right, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to right-rotate")
	}
	y.parent = p
}

// Insert walks the hinted path with the root as the hint, which
// degrades to the plain full-search insertion.
func (tree *rbTree[K, V]) Insert(key K, val V, ifNotPresent ...bool) error {
	var hint RBNode[K, V]
	if tree.root != nil {
		hint = tree.root
	}
	_, err := tree.InsertWithHint(key, val, hint, ifNotPresent...)
	return err
}

// InsertWithHint attaches the new node next to hint in O(1) structural
// steps when hint is adjacent to the insertion point. A hint from
// another tree, a nil leaf hint or a misleading hint falls back to the
// full root descent. An equal key updates the payload in place.
func (tree *rbTree[K, V]) InsertWithHint(key K, val V, hint RBNode[K, V], ifNotPresent ...bool) (RBNode[K, V], error) {
	onlyNotPresent := len(ifNotPresent) > 0 && ifNotPresent[0]

	h, ok := hint.(*rbNode[K, V])
	if !ok || h.isNilLeaf() || !tree.owns(h) {
		return tree.insertFull(key, val, onlyNotPresent)
	}

	res, err := tree.keyCompare(key, h.key)
	if err != nil {
		return nil, infra.WrapErrorStack(err)
	}

	if res == 0 {
		if onlyNotPresent {
			return h, ErrReplaceDisabled
		}
		h.val = val
		h.hasKV = true
		return h, nil
	}

	if res < 0 {
		// A direct attach is only order-safe when the hint's pred still
		// orders below the key, i.e. pred and hint bracket it.
		p := h.pred()
		if p != nil {
			pres, err := tree.keyCompare(p.key, key)
			if err != nil {
				return nil, infra.WrapErrorStack(err)
			}
			if pres >= 0 {
				// Misleading hint.
				return tree.insertFull(key, val, onlyNotPresent)
			}
		}
		if h.left.isNilLeaf() {
			return tree.attach(h, Left, key, val), nil
		}
		// The hint owns a left subtree, so its pred is the rightmost
		// node below it and has a free right slot.
		if p == nil {
			return tree.insertFull(key, val, onlyNotPresent)
		}
		return tree.attach(p, Right, key, val), nil
	}

	s := h.succ()
	if s != nil {
		sres, err := tree.keyCompare(s.key, key)
		if err != nil {
			return nil, infra.WrapErrorStack(err)
		}
		if sres <= 0 {
			return tree.insertFull(key, val, onlyNotPresent)
		}
	}
	if h.right.isNilLeaf() {
		return tree.attach(h, Right, key, val), nil
	}
	if s == nil {
		return tree.insertFull(key, val, onlyNotPresent)
	}
	return tree.attach(s, Left, key, val), nil
}

// owns reports whether node is reachable from this tree's root by
// ascending parent links.
func (tree *rbTree[K, V]) owns(node *rbNode[K, V]) bool {
	if node == nil || tree.root == nil {
		return false
	}
	aux := node
	for aux.parent != nil {
		aux = aux.parent
	}
	return aux == tree.root
}

func (tree *rbTree[K, V]) attach(parent *rbNode[K, V], dir RBDirection, key K, val V) *rbNode[K, V] {
	z := &rbNode[K, V]{
		key:    key,
		val:    val,
		color:  Red,
		parent: parent,
		hasKV:  true,
	}
	switch dir {
	case Left:
		parent.left = z
	case Right:
		parent.right = z
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] attach without a direction")
	}

	// Boundary cache upkeep happens at link time. Rotations preserve
	// the in-order sequence, so the leftmost/rightmost node identity
	// cannot change during the rebalance below.
	if parent == tree.min && dir == Left {
		tree.min = z
	}
	if parent == tree.max && dir == Right {
		tree.max = z
	}
	if tree.boundsSuspect() {
		tree.repairBounds()
	}

	atomic.AddInt64(&tree.count, 1)
	tree.insertRebalance(z)
	return z
}

// i1: Empty rbtree, insert directly, but root node is painted to black.
func (tree *rbTree[K, V]) insertFull(key K, val V, onlyNotPresent bool) (*rbNode[K, V], error) {
	if /* i1 */ tree.root.isNilLeaf() {
		tree.root = &rbNode[K, V]{
			key:   key,
			val:   val,
			hasKV: true,
		}
		tree.min, tree.max = tree.root, tree.root
		atomic.AddInt64(&tree.count, 1)
		return tree.root, nil
	}

	var x, y *rbNode[K, V] = tree.root, nil
	res := int64(0)
	for !x.isNilLeaf() {
		y = x
		r, err := tree.keyCompare(key, x.key)
		if err != nil {
			return nil, infra.WrapErrorStack(err)
		}
		if /* equal */ res = r; res == 0 {
			break
		} else /* less */ if res < 0 {
			x = x.left
		} else /* greater */ {
			x = x.right
		}
	}

	if y.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] insert a new value into nil node")
	}

	if /* equal */ res == 0 {
		if /* disabled */ onlyNotPresent {
			return y, ErrReplaceDisabled
		}
		y.val = val
		y.hasKV = true
		return y, nil
	} else /* less */ if res < 0 {
		return tree.attach(y, Left, key, val), nil
	}
	/* greater */
	return tree.attach(y, Right, key, val), nil
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

im1: Current node X's parent P is black and P is root, nothing to fix.

im2: Current node X's parent P is red and P is root, repaint P into black.

im3: If both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
After repainted G into red may be still red-violation.
Recursive to fix grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: The parent P is red but the uncle U is black. (red-violation)
X is opposite direction to P. Rotate P to opposite direction.
After rotation may be still red-violation. Here must enter im5 to fix.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im5: Handle im4 scenario, current node is the same direction as parent.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (tree *rbTree[K, V]) insertRebalance(x *rbNode[K, V]) {
	for !x.isNilLeaf() {
		if x.isRoot() {
			if x.isRed() {
				x.color = Black
			}
			return
		}

		if x.parent.isBlack() {
			return
		}

		if x.parent.isRoot() {
			if /* im1 */ x.parent.isBlack() {
				return
			} else /* im2 */ {
				// Unreachable while the i1/im5 paths re-blacken the
				// root; kept so a red root never escapes the loop.
				x.parent.color = Black
			}
		}

		if /* im3 */ x.hasUncle() && x.uncle().isRed() {
			x.parent.color = Black
			x.uncle().color = Black
			gp := x.grandpa()
			gp.color = Red
			x = gp
			continue
		} else {
			if !x.hasUncle() || x.uncle().isBlack() {
				dir := x.Direction()
				if /* im4 */ dir != x.parent.Direction() {
					p := x.parent
					switch dir {
					case Left:
						tree.rightRotate(p)
					case Right:
						tree.leftRotate(p)
					default:
						// impossible run to here
						panic( /* debug assertion */ "[rbtree] insert rebalance violate (im4)")
					}
					x = p // enter im5 to fix
				}

				switch /* im5 */ dir = x.parent.Direction(); dir {
				case Left:
					tree.rightRotate(x.grandpa())
				case Right:
					tree.leftRotate(x.grandpa())
				default:
					// impossible run to here
					panic( /* debug assertion */ "[rbtree] insert rebalance violate (im5)")
				}

				x.parent.color = Black
				x.sibling().color = Red
				return
			}
		}
	}
}

// boundsSuspect reports a detectably stale boundary cache: a nil
// reference while the tree holds entries, or a cached extreme that
// still owns a child on its outer side.
func (tree *rbTree[K, V]) boundsSuspect() bool {
	if tree.root == nil || tree.root.isNilLeaf() {
		return false
	}
	return tree.min == nil || tree.min.left != nil ||
		tree.max == nil || tree.max.right != nil
}

// repairBounds recomputes both caches from the current tree shape.
// Never trust a suspect cache.
func (tree *rbTree[K, V]) repairBounds() {
	if tree.root == nil || tree.root.isNilLeaf() {
		tree.min, tree.max = nil, nil
		return
	}
	tree.min, tree.max = tree.root.minimum(), tree.root.maximum()
	tree.logger.Debug("[rbtree] boundary cache recomputed from tree shape")
}

func (tree *rbTree[K, V]) repairBoundsAfterRemove(wasMin, wasMax bool) {
	if tree.root == nil || tree.root.isNilLeaf() {
		tree.min, tree.max = nil, nil
		return
	}
	if wasMin {
		tree.min = tree.root.minimum()
	}
	if wasMax {
		tree.max = tree.root.maximum()
	}
}

/*
r1: Only a root node, remove directly.

r2: Current node X has left and right node.
Find node X's succ to replace it to be removed (the succ is the
leftmost node of X's right subtree and holds at most a right child).
Swap the key & value only, then remove the succ node. Callers keeping
a direct reference to the succ node across the removal will observe
its key change; the removed entry is returned as a detached snapshot.

	  |                    |
	  X                    S
	 / \                  / \
	L  ..   swap(X, S)   L  ..
		|   =========>       |
		P                    P
	   / \                  / \
	  S  ..                X  ..

r3: (1) Current node X is a red leaf node, remove directly.

r3: (2) Current node X is a black leaf node, we have to rebalance after
remove. (black-violation)

r4: Current node X is not a leaf node but contains a not nil child
node. The child node must be a red node. (See conclusion. Otherwise,
black-violation)
*/
func (tree *rbTree[K, V]) removeNode(z *rbNode[K, V]) (res *rbNode[K, V]) {
	res = &rbNode[K, V]{
		key:   z.key,
		val:   z.val,
		hasKV: true,
	}

	if /* r1 */ atomic.LoadInt64(&tree.count) == 1 && z.isRoot() {
		tree.root = nil
		tree.min, tree.max = nil, nil
		z.left = nil
		z.right = nil
		z.hasKV = false
		return res
	}

	y := z
	if /* r2 */ !y.left.isNilLeaf() && !y.right.isNilLeaf() {
		y = z.succ()
		// Swap key & value.
		z.key, z.val = y.key, y.val
		z.hasKV = true
	}

	wasMin, wasMax := y == tree.min, y == tree.max

	if /* r3 */ y.isLeaf() {
		if /* r3 (1) */ y.isRed() {
			switch dir := y.Direction(); dir {
			case Left:
				y.parent.left = nil
			case Right:
				y.parent.right = nil
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] y should be a leaf node, violate (r3-1)")
			}
			y.parent = nil
			y.hasKV = false
			tree.repairBoundsAfterRemove(wasMin, wasMax)
			return res
		} else /* r3 (2) */ {
			tree.removeRebalance(y)
		}
	} else /* r4 */ {
		var replace *rbNode[K, V]
		if !y.right.isNilLeaf() {
			replace = y.right
		} else if !y.left.isNilLeaf() {
			replace = y.left
		}

		if replace == nil {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove a leaf node without child, violate (r4)")
		}

		switch dir := y.Direction(); dir {
		case Root:
			tree.root = replace
			tree.root.parent = nil
		case Left:
			y.parent.left = replace
			replace.parent = y.parent
		case Right:
			y.parent.right = replace
			replace.parent = y.parent
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove violate (r4)")
		}

		if y.isBlack() {
			if replace.isRed() {
				replace.color = Black
			} else {
				tree.removeRebalance(replace)
			}
		}
	}

	// Unlink node
	if !y.isRoot() && y == y.parent.left {
		y.parent.left = nil
	} else if !y.isRoot() && y == y.parent.right {
		y.parent.right = nil
	}
	y.parent = nil
	y.left = nil
	y.right = nil
	y.hasKV = false

	tree.repairBoundsAfterRemove(wasMin, wasMax)
	return res
}

// Remove unlinks the node holding key. An absent key is not a failure
// and yields a nil node with a nil error.
func (tree *rbTree[K, V]) Remove(key K) (RBNode[K, V], error) {
	if atomic.LoadInt64(&tree.count) <= 0 {
		return nil, nil
	}
	z, err := tree.findNode(key)
	if err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	if z == nil {
		return nil, nil
	}
	defer func() {
		atomic.AddInt64(&tree.count, -1)
	}()

	return tree.removeNode(z), nil
}

// RemoveMin polls the first entry in O(log n) through the boundary
// cache.
func (tree *rbTree[K, V]) RemoveMin() (RBNode[K, V], error) {
	if atomic.LoadInt64(&tree.count) <= 0 {
		return nil, nil
	}
	if tree.boundsSuspect() {
		tree.repairBounds()
	}
	_min := tree.min
	if _min.isNilLeaf() {
		return nil, nil
	}
	defer func() {
		atomic.AddInt64(&tree.count, -1)
	}()
	return tree.removeNode(_min), nil
}

// RemoveMax polls the last entry in O(log n) through the boundary
// cache.
func (tree *rbTree[K, V]) RemoveMax() (RBNode[K, V], error) {
	if atomic.LoadInt64(&tree.count) <= 0 {
		return nil, nil
	}
	if tree.boundsSuspect() {
		tree.repairBounds()
	}
	_max := tree.max
	if _max.isNilLeaf() {
		return nil, nil
	}
	defer func() {
		atomic.AddInt64(&tree.count, -1)
	}()
	return tree.removeNode(_max), nil
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

Sc is the same direction to X and it X's sibling's child node.
Sd is the opposite direction to X and it X's sibling's child node.

rm1: Current node X's sibling S is red, so the parent P, nephew node
Sc and Sd must be black. (Otherwise, red-violation)
(1) X is left node of P, left rotate P
(2) X is right node of P, right rotate P.
(3) repaint S into black, P into red.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [D]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: Current node X's parent P is red, the sibling S, nephew node Sc
and Sd is black.
Repaint S into red and P into black.

	  <P>             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: All of current node X's parent P, the sibling S, nephew node Sc
and Sd are black.
Unable to satisfy p3 and p4. We have to paint the S into red to
satisfy p4 locally. Then recursive to handle P.

	  [P]             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm4: Current node X's sibling S is black, nephew node Sc is red and Sd
is black. Ignore X's parent P's color (red or black is okay)
Unable to satisfy p3 and p4.
(1) If X is left node of P, right rotate P.
(2) If X is right node of P, left rotate P.
(3) Repaint S into red, Sc into black
Enter into rm5 to fix.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    r-rotate(S)  [X] <Sc>   repaint  [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> [Sd]                   \                  \
	                              [Sd]               [Sd]

rm5: Current node X's sibling S is black, nephew node Sc is black and
Sd is red. Ignore X's parent P's color (red or black is okay)
Unable to satisfy p4 (black-violation)
(1) If X is left node of P, left rotate P.
(2) If X is right node of P, right rotate P.
(3) Swap P and S's color (red-violation)
(4) Repaint Sd into black.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (tree *rbTree[K, V]) removeRebalance(x *rbNode[K, V]) {
	for {
		if x.isRoot() {
			return
		}

		sibling := x.sibling()
		dir := x.Direction()
		if /* rm1 */ sibling.isRed() {
			switch dir {
			case Left:
				tree.leftRotate(x.parent)
			case Right:
				tree.rightRotate(x.parent)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] remove violate (rm1)")
			}
			sibling.color = Black
			x.parent.color = Red // ready to enter rm2
			sibling = x.sibling()
		}

		var sc, sd *rbNode[K, V]
		switch /* rm2 */ dir {
		case Left:
			sc, sd = sibling.left, sibling.right
		case Right:
			sc, sd = sibling.right, sibling.left
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove violate (rm2)")
		}

		if sc.isBlack() && sd.isBlack() {
			if /* rm2 */ x.parent.isRed() {
				sibling.color = Red
				x.parent.color = Black
				break
			} else /* rm3 */ {
				sibling.color = Red
				x = x.parent
				continue
			}
		} else {
			if /* rm4 */ !sc.isNilLeaf() && sc.isRed() {
				switch dir {
				case Left:
					tree.rightRotate(sibling)
				case Right:
					tree.leftRotate(sibling)
				default:
					// impossible run to here
					panic( /* debug assertion */ "[rbtree] remove violate (rm4)")
				}
				sc.color = Black
				sibling.color = Red
				sibling = x.sibling()
				switch dir {
				case Left:
					sd = sibling.right
				case Right:
					sd = sibling.left
				default:
					// impossible run to here
					panic( /* debug assertion */ "[rbtree] remove violate (rm4)")
				}
			}

			switch /* rm5 */ dir {
			case Left:
				tree.leftRotate(x.parent)
			case Right:
				tree.rightRotate(x.parent)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] remove violate (rm5)")
			}
			sibling.color = x.parent.color
			x.parent.color = Black
			if !sd.isNilLeaf() {
				sd.color = Black
			}
			break
		}
	}
}

// findNode is the iterative root descent. Height bounded, so O(log n).
func (tree *rbTree[K, V]) findNode(key K) (*rbNode[K, V], error) {
	for aux := tree.root; aux != nil && !aux.isNilLeaf(); {
		res, err := tree.keyCompare(key, aux.key)
		if err != nil {
			return nil, err
		}
		if res == 0 {
			return aux, nil
		} else if res > 0 {
			aux = aux.right
		} else {
			aux = aux.left
		}
	}
	return nil, nil
}

func (tree *rbTree[K, V]) Find(key K) (RBNode[K, V], error) {
	node, err := tree.findNode(key)
	if err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	if node == nil {
		return nil, nil
	}
	return node, nil
}

type RBTreeOpt[K any, V any] func(*rbTree[K, V])

func WithRBTreeDesc[K any, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isDesc = true
	}
}

func WithRBTreeComparator[K any, V any](kcmp infra.KeyComparator[K]) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.kcmp = kcmp
	}
}

func WithRBTreeLogger[K any, V any](logger *zap.Logger) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		if logger != nil {
			tree.logger = logger
		}
	}
}

// NewRBTree builds a tree whose ordering decisions flow through the
// default comparator of K. Construction fails for key categories the
// default comparator does not cover unless WithRBTreeComparator is
// supplied.
func NewRBTree[K any, V any](opts ...RBTreeOpt[K, V]) (RBTree[K, V], error) {
	tree := &rbTree[K, V]{
		count:  0,
		logger: zap.NewNop(),
	}

	for _, o := range opts {
		o(tree)
	}
	if tree.kcmp == nil {
		kcmp, err := infra.ComparatorFor[K]()
		if err != nil {
			return nil, infra.WrapErrorStackWithMessage(err, "[rbtree] no default comparator for the key type")
		}
		tree.kcmp = kcmp
	}
	return tree, nil
}

// NewOrderedRBTree is the statically checked constructor for ordered
// key kinds. It cannot fail.
func NewOrderedRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	tree := &rbTree[K, V]{
		count:  0,
		kcmp:   infra.OrderedKeyCompare[K](),
		logger: zap.NewNop(),
	}

	for _, o := range opts {
		o(tree)
	}
	return tree
}
