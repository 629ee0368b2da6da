// Package pagination translates a rendered content height into a printable page count.
package pagination

import "math"

const (
	// A4HeightPx is 297mm at 96 DPI.
	A4HeightPx float64 = 297 * 3.7795275591
	// PageMarginPx is the 8mm page margin used by margin-aware templates.
	PageMarginPx float64 = 32
	// CompactPageHeightPx is the usable height of a margin-aware A4 page.
	CompactPageHeightPx float64 = 1123 - 2*PageMarginPx
	// MaxPages bounds EstimatePages for heights too large to convert to int.
	MaxPages = math.MaxInt32
)

// snapULPs is how far above an integer ratio a division may land from float noise alone.
const snapULPs = 4

// EstimatePages returns the number of pages needed for measuredHeightPx. Any
// height that fits on one page, including zero, yields 1.
func EstimatePages(measuredHeightPx, pageHeightPx float64) int {
	if pageHeightPx <= 0 || math.IsNaN(pageHeightPx) || math.IsInf(pageHeightPx, 0) {
		return 1
	}
	if math.IsNaN(measuredHeightPx) || measuredHeightPx <= pageHeightPx {
		return 1
	}

	ratio := measuredHeightPx / pageHeightPx
	if ratio >= MaxPages {
		return MaxPages
	}
	k := math.Floor(ratio)
	if ratio-k <= snapULPs*(math.Nextafter(k, math.Inf(1))-k) {
		return int(k)
	}
	return int(math.Ceil(ratio))
}

// Tracker 缓存最近一次的页数，调用方据此判断是否需要重新渲染。
// 每次测量高度变化时调用 Observe；Tracker 不做轮询。
type Tracker struct {
	pageHeightPx float64
	pages        int
	heightPx     float64
}

// NewTracker 创建 Tracker，初始为 1 页。
func NewTracker(pageHeightPx float64) *Tracker {
	return &Tracker{pageHeightPx: pageHeightPx, pages: 1}
}

// Observe recomputes the page count for a new measured height and reports
// whether the integer result changed.
func (t *Tracker) Observe(measuredHeightPx float64) (pages int, changed bool) {
	t.heightPx = measuredHeightPx
	next := EstimatePages(measuredHeightPx, t.pageHeightPx)
	changed = next != t.pages
	t.pages = next
	return next, changed
}

// Pages returns the cached page count.
func (t *Tracker) Pages() int { return t.pages }

// HeightPx returns the last observed height.
func (t *Tracker) HeightPx() float64 { return t.heightPx }

// PageNumbers expands a page count into 1-based page labels.
func PageNumbers(pages int) []int {
	pages = max(pages, 1)
	out := make([]int, pages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
