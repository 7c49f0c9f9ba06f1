// Package paginate partitions measured block heights into pages.
//
// The packer is a single-pass, order-preserving greedy fold: blocks are never
// reordered, split or moved back to an earlier page. Its only inputs are the
// heights, the two page capacities and the inter-block spacing, so the same
// inputs always yield the same partition.
package paginate

import (
	"errors"
	"fmt"
	"math"
)

// ErrMeasurementIncomplete 表示至少有一个块高度缺失（NaN）或非法，拒绝分页。
var ErrMeasurementIncomplete = errors.New("measurement incomplete")

// Capacities 保存首页与后续页的可用高度（mm）。
type Capacities struct {
	First float64 `json:"first"`
	Rest  float64 `json:"rest"`
}

// At 返回第 index 页的容量：首页使用 First，其余页使用 Rest。
func (c Capacities) At(index int) float64 {
	if index == 0 {
		return c.First
	}
	return c.Rest
}

// Page 是一页上按原始顺序排列的块位置。
type Page struct {
	Index    int     `json:"index"`
	Blocks   []int   `json:"blocks"`
	Used     float64 `json:"used"`
	Capacity float64 `json:"capacity"`
	// Overflow 标记单个块本身就超过页面容量的情况，该块独占一页。
	Overflow bool `json:"overflow,omitempty"`
}

// Partition 是完整的分页结果。
type Partition struct {
	Pages []Page `json:"pages"`
}

// Positions 返回每页的块位置列表。
func (p Partition) Positions() [][]int {
	out := make([][]int, len(p.Pages))
	for i, pg := range p.Pages {
		out[i] = append([]int(nil), pg.Blocks...)
	}
	return out
}

// Overflowing 返回溢出页的页码。
func (p Partition) Overflowing() []int {
	var out []int
	for _, pg := range p.Pages {
		if pg.Overflow {
			out = append(out, pg.Index)
		}
	}
	return out
}

// Pack 将 heights 贪心地分配到页面中。
// 空序列返回零页且没有错误；任何 NaN、Inf 或负数高度都返回 ErrMeasurementIncomplete。
func Pack(heights []float64, caps Capacities, spacing float64) (Partition, error) {
	if err := checkHeights(heights); err != nil {
		return Partition{}, err
	}
	if !finite(caps.First) || !finite(caps.Rest) {
		return Partition{}, fmt.Errorf("paginate: invalid capacities %+v", caps)
	}
	if !finite(spacing) || spacing < 0 {
		return Partition{}, fmt.Errorf("paginate: invalid spacing %g", spacing)
	}

	var (
		part    Partition
		current []int
		used    float64
	)
	closePage := func() {
		idx := len(part.Pages)
		limit := caps.At(idx)
		part.Pages = append(part.Pages, Page{
			Index:    idx,
			Blocks:   current,
			Used:     used,
			Capacity: limit,
			Overflow: used > limit,
		})
		current = nil
		used = 0
	}

	for pos, h := range heights {
		increment := h
		if len(current) > 0 {
			increment += spacing
		}
		if len(current) > 0 && used+increment > caps.At(len(part.Pages)) {
			closePage()
			increment = h
		}
		current = append(current, pos)
		used += increment
	}
	if len(current) > 0 {
		closePage()
	}
	return part, nil
}

func checkHeights(heights []float64) error {
	for i, h := range heights {
		if !finite(h) || h < 0 {
			return fmt.Errorf("paginate: %w: height at position %d is %g", ErrMeasurementIncomplete, i, h)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
