package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/ByLCY/folio/content"
	"github.com/ByLCY/folio/paginate"
)

// ErrGeometryDiverged 表示最终组合得到的高度与测量值不一致。
var ErrGeometryDiverged = errors.New("layout: rendered geometry diverged from measurement")

const heightTolerance = 1e-6

// Assemble 按分页结果把页眉与块放到页面坐标上。
// 首页使用 first 页眉，其余页使用 rest 页眉；块按分页顺序以 Spacing 堆叠。
func Assemble(seq content.Sequence, m *Measurement, part paginate.Partition, geom Geometry, ts Typesetter) (*Result, error) {
	if m == nil {
		return nil, fmt.Errorf("layout: %w: no measurement", ErrMeasurementIncomplete)
	}
	placeable := seq.Placeable()
	if len(m.Heights) != len(placeable) {
		return nil, fmt.Errorf("layout: measurement has %d heights for %d blocks", len(m.Heights), len(placeable))
	}
	if err := checkPartition(part, len(placeable)); err != nil {
		return nil, err
	}

	res := &Result{
		Geometry:    geom,
		Pages:       make([]Page, 0, len(part.Pages)),
		Resources:   ResourceSet{Fonts: DefaultFonts()},
		Measurement: m,
		Partition:   &part,
	}
	for _, pp := range part.Pages {
		first := pp.Index == 0
		hdr, _ := seq.Header(first)
		header, err := ComposeHeader(hdr, Surface{Origin: Point{X: geom.Padding, Y: geom.Padding}, Visible: true}, ts, geom)
		if err != nil {
			return nil, fmt.Errorf("page %d header: %w", pp.Index, err)
		}
		want := m.Header(first)
		if math.Abs(header.Height-want) > heightTolerance {
			return nil, fmt.Errorf("%w: header %s measured %g, rendered %g", ErrGeometryDiverged, hdr.Key, want, header.Height)
		}

		page := Page{
			Index:    pp.Index,
			Width:    geom.Width,
			Height:   geom.Height,
			Capacity: pp.Capacity,
			Used:     pp.Used,
			Overflow: pp.Overflow,
			Header:   header,
		}
		y := geom.Padding + header.Height
		for j, pos := range pp.Blocks {
			if j > 0 {
				y += geom.Spacing
			}
			b := placeable[pos]
			box, err := ComposeBlock(b, Surface{Origin: Point{X: geom.Padding, Y: y}, Visible: true}, ts, geom)
			if err != nil {
				return nil, fmt.Errorf("page %d block %s: %w", pp.Index, b.Key, err)
			}
			if math.Abs(box.Height-m.Heights[pos]) > heightTolerance {
				return nil, fmt.Errorf("%w: block %s measured %g, rendered %g", ErrGeometryDiverged, b.Key, m.Heights[pos], box.Height)
			}
			page.Keys = append(page.Keys, b.Key)
			page.Blocks = append(page.Blocks, box)
			y += box.Height
		}
		res.Pages = append(res.Pages, page)
	}
	return res, nil
}

// checkPartition 确认分页是 0..n-1 的有序覆盖，且没有空页。
func checkPartition(part paginate.Partition, n int) error {
	next := 0
	for _, p := range part.Pages {
		if len(p.Blocks) == 0 {
			return fmt.Errorf("layout: page %d is empty", p.Index)
		}
		for _, pos := range p.Blocks {
			if pos != next {
				return fmt.Errorf("layout: partition places block %d where %d was expected", pos, next)
			}
			next++
		}
	}
	if next != n {
		return fmt.Errorf("layout: partition covers %d of %d blocks", next, n)
	}
	return nil
}
