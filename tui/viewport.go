// ABOUTME: Scroll offset calculation for the queue list
// ABOUTME: Keeps the now-playing row in the middle of the screen once the list is long enough

package tui

// scrollOffset returns the viewport Y offset that keeps row visible.
// The row moves freely near the top and bottom of the list and stays
// in the middle of the viewport in between (vim/less style).
func scrollOffset(height, row, total int) int {
	if total == 0 || height < 1 {
		return 0
	}

	middle := height / 2
	if row < middle {
		return 0
	}

	maxOffset := max(total-height, 0)

	return min(row-middle, maxOffset)
}
