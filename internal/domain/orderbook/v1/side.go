package orderbookv1

// BookSide holds the resting population of one direction as price levels in
// a LevelTree. The best level is the maximum price for bids and the minimum
// price for asks; within a level orders keep FIFO arrival order.
type BookSide struct {
	side   Side
	levels *LevelTree
	orders int
}

// NewBookSide constructs an empty side for the given direction.
func NewBookSide(side Side) *BookSide {
	return &BookSide{
		side:   side,
		levels: NewLevelTree(),
	}
}

// Side returns the direction this side holds.
func (s *BookSide) Side() Side { return s.side }

// Len returns the number of resting orders on the side.
func (s *BookSide) Len() int { return s.orders }

// LevelCount returns the number of distinct price levels on the side.
func (s *BookSide) LevelCount() int { return s.levels.Size() }

// Insert places the order at the tail of its price level's FIFO queue,
// creating the level at its correct sorted position when it does not exist.
func (s *BookSide) Insert(o *Order) {
	s.levels.UpsertLevel(o.Price).Enqueue(o)
	s.orders++
}

// BestLevel returns the side's best price level, or nil when empty.
func (s *BookSide) BestLevel() *PriceLevel {
	if s.side == Buy {
		return s.levels.MaxLevel()
	}
	return s.levels.MinLevel()
}

// PeekBest returns the earliest order at the best level, or nil when the
// side is empty.
func (s *BookSide) PeekBest() *Order {
	lvl := s.BestLevel()
	if lvl == nil {
		return nil
	}
	return lvl.Front()
}

// Remove unlinks a resting order from its level in O(1) and drops the level
// when it becomes empty.
func (s *BookSide) Remove(o *Order) {
	lvl := o.level
	lvl.Unlink(o)
	if lvl.IsEmpty() {
		s.levels.DeleteLevel(lvl.Price)
	}
	s.orders--
}

// TotalQuantity sums the remaining quantity across all levels.
func (s *BookSide) TotalQuantity() int64 {
	var total int64
	s.levels.ForEachAscending(func(lvl *PriceLevel) bool {
		total += lvl.TotalQuantity
		return true
	})
	return total
}

// ForEachLevel visits the side's levels best-first (descending prices for
// bids, ascending for asks) until fn returns false.
func (s *BookSide) ForEachLevel(fn func(*PriceLevel) bool) {
	if s.side == Buy {
		s.levels.ForEachDescending(fn)
		return
	}
	s.levels.ForEachAscending(fn)
}
