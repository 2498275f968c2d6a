package bracket

import "fmt"

// BracketSize rounds count up to the nearest power of two, so 5 gives 8 and so on.
func BracketSize(count int) int {
	if count <= 0 {
		return 0
	}

	size := 1
	for size < count {
		size <<= 1
	}
	return size
}

// SeedOrder lists which seed sits in each bracket slot. Consecutive slots meet in round
// one, and seeds 1 and 2 end up in opposite halves so they can only meet in the final.
func SeedOrder(size int) ([]int, error) {
	if size < 1 || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: %d is not a power of two", ErrInvalidBracketSize, size)
	}
	if size == 1 {
		return []int{1}, nil
	}

	prev, err := SeedOrder(size / 2)
	if err != nil {
		return nil, err
	}

	order := make([]int, 0, size)
	for _, seed := range prev {
		order = append(order, seed, size+1-seed)
	}
	return order, nil
}
